package parquet

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"

	oserrors "github.com/xtxerr/oscana/internal/errors"
	"github.com/xtxerr/oscana/internal/metadata"
	"github.com/xtxerr/oscana/internal/table"
)

const readBatch = 8192

// Read restores a snapshot written by Write.
func Read(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, fmt.Errorf("%s: %w", path, oserrors.ErrFileNotFound)
		}
		return Snapshot{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return Snapshot{}, fmt.Errorf("stat file: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size(), parquet.ReadBufferSize(1024*1024))
	if err != nil {
		return Snapshot{}, fmt.Errorf("open parquet: %w", err)
	}

	snap := Snapshot{}
	snap.ID, _ = pf.Lookup(KeyID)
	snap.Strategy, _ = pf.Lookup(KeyStrategy)

	rawSchema, ok := pf.Lookup(KeySchema)
	if !ok {
		return Snapshot{}, fmt.Errorf("%s: %w", KeySchema, oserrors.ErrMissingField)
	}
	var doc schemaDoc
	if err := yaml.Unmarshal([]byte(rawSchema), &doc); err != nil {
		return Snapshot{}, fmt.Errorf("decode schema: %w", err)
	}

	if raw, ok := pf.Lookup(KeyFiles); ok {
		if snap.Files, err = metadata.DecodeFiles([]byte(raw)); err != nil {
			return Snapshot{}, fmt.Errorf("decode files: %w", err)
		}
	}
	snap.Ledger = metadata.NewLedger()
	if raw, ok := pf.Lookup(KeyLedger); ok {
		if snap.Ledger, err = metadata.DecodeLedger([]byte(raw)); err != nil {
			return Snapshot{}, fmt.Errorf("decode ledger: %w", err)
		}
	}

	cells := newAssembler(doc)

	reader := parquet.NewGenericReader[CellRow](f)
	defer reader.Close()

	rows := make([]CellRow, readBatch)
	for {
		n, err := reader.Read(rows)
		for i := 0; i < n; i++ {
			if aerr := cells.add(&rows[i]); aerr != nil {
				return Snapshot{}, aerr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Snapshot{}, fmt.Errorf("read rows: %w", err)
		}
		if n == 0 {
			break
		}
	}

	if snap.Data, snap.Cuts, err = cells.build(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// assembler rebuilds wide columns from long-format cells.
type assembler struct {
	doc     schemaDoc
	scalars map[string][]float64
	lists   map[string][][]float64
	cuts    map[string][]bool
}

func newAssembler(doc schemaDoc) *assembler {
	a := &assembler{
		doc:     doc,
		scalars: make(map[string][]float64),
		lists:   make(map[string][][]float64),
		cuts:    make(map[string][]bool),
	}
	for _, c := range doc.Columns {
		if c.Jagged {
			lists := make([][]float64, doc.Rows)
			for i := range lists {
				lists[i] = []float64{}
			}
			a.lists[c.Name] = lists
		} else {
			a.scalars[c.Name] = make([]float64, doc.Rows)
		}
	}
	for _, name := range doc.Cuts {
		a.cuts[name] = make([]bool, doc.Rows)
	}
	return a
}

func (a *assembler) add(r *CellRow) error {
	if r.Row < 0 || r.Row >= int64(a.doc.Rows) {
		return fmt.Errorf("cell %s[%d] outside %d rows: %w", r.Column, r.Row, a.doc.Rows, oserrors.ErrSchemaMismatch)
	}
	switch r.Kind {
	case KindScalar:
		if col, ok := a.scalars[r.Column]; ok {
			col[r.Row] = r.Value
			return nil
		}
	case KindJagged:
		if col, ok := a.lists[r.Column]; ok {
			if r.Values != nil {
				col[r.Row] = append([]float64(nil), r.Values...)
			}
			return nil
		}
	case KindCut:
		if col, ok := a.cuts[r.Column]; ok {
			col[r.Row] = r.Value != 0
			return nil
		}
	}
	return fmt.Errorf("cell %s (%s): %w", r.Column, r.Kind, oserrors.ErrSchemaMismatch)
}

func (a *assembler) build() (*table.Frame, *table.Cuts, error) {
	cols := make([]table.Column, 0, len(a.doc.Columns))
	for _, c := range a.doc.Columns {
		if c.Jagged {
			cols = append(cols, table.Jagged(c.Name, a.lists[c.Name]...))
		} else {
			cols = append(cols, table.Scalar(c.Name, a.scalars[c.Name]...))
		}
	}
	frame, err := table.NewFrame(cols...)
	if err != nil {
		return nil, nil, fmt.Errorf("rebuild table: %w", err)
	}

	if !a.doc.CutsEnabled {
		return frame, nil, nil
	}
	cuts := table.NewCuts(a.doc.Rows)
	for _, name := range a.doc.Cuts {
		if cuts, err = cuts.With(name, a.cuts[name]); err != nil {
			return nil, nil, fmt.Errorf("rebuild cuts: %w", err)
		}
	}
	return frame, cuts, nil
}

// FileInfo holds information about a snapshot file.
type FileInfo struct {
	Path     string
	Size     int64
	NumRows  int64
	NumCols  int
	Metadata map[string]string
}

// Inspect returns footer information about a snapshot without decoding cells.
func Inspect(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pf, err := parquet.OpenFile(f, stat.Size(), parquet.ReadBufferSize(1024*1024))
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	info := &FileInfo{
		Path:     path,
		Size:     stat.Size(),
		NumRows:  pf.NumRows(),
		NumCols:  len(pf.Schema().Fields()),
		Metadata: make(map[string]string),
	}
	for _, key := range []string{KeyID, KeyStrategy, KeySchema} {
		if v, ok := pf.Lookup(key); ok {
			info.Metadata[key] = v
		}
	}
	return info, nil
}
