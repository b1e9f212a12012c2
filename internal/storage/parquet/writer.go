package parquet

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"

	"github.com/xtxerr/oscana/internal/metadata"
	"github.com/xtxerr/oscana/internal/table"
)

// Key/value metadata keys written into every snapshot footer.
const (
	KeyID       = "oscana.snapshot_id"
	KeyStrategy = "oscana.strategy"
	KeySchema   = "oscana.schema"
	KeyFiles    = "oscana.files"
	KeyLedger   = "oscana.ledger"
)

// Cell kinds.
const (
	KindScalar = "scalar"
	KindJagged = "jagged"
	KindCut    = "cut"
)

// CellRow is one table cell in long format.
type CellRow struct {
	Row    int64     `parquet:"row"`
	Column string    `parquet:"column,zstd"`
	Kind   string    `parquet:"kind,zstd"`
	Value  float64   `parquet:"value"`
	Values []float64 `parquet:"values,list"`
}

// Snapshot is the full persisted state of a handler.
type Snapshot struct {
	ID       string
	Strategy string
	Data     *table.Frame
	// Cuts is nil when the handler had no cuts table.
	Cuts   *table.Cuts
	Files  []metadata.File
	Ledger *metadata.Ledger
}

type schemaColumn struct {
	Name   string `yaml:"name"`
	Jagged bool   `yaml:"jagged,omitempty"`
}

type schemaDoc struct {
	Rows        int            `yaml:"rows"`
	Columns     []schemaColumn `yaml:"columns"`
	CutsEnabled bool           `yaml:"cuts_enabled"`
	Cuts        []string       `yaml:"cuts,omitempty"`
}

func schemaOf(s Snapshot) schemaDoc {
	doc := schemaDoc{Rows: s.Data.Len()}
	for _, c := range s.Data.Columns() {
		doc.Columns = append(doc.Columns, schemaColumn{Name: c.Name, Jagged: c.Jagged()})
	}
	if s.Cuts != nil {
		doc.CutsEnabled = true
		doc.Cuts = s.Cuts.Names()
	}
	return doc
}

// Write persists a snapshot to path and returns the number of cells written.
// A missing ID is filled with a fresh UUID.
func Write(path string, s Snapshot, opts Options) (int64, error) {
	if s.Data == nil {
		return 0, fmt.Errorf("snapshot has no data table")
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Ledger == nil {
		s.Ledger = metadata.NewLedger()
	}

	schema, err := yaml.Marshal(schemaOf(s))
	if err != nil {
		return 0, fmt.Errorf("encode schema: %w", err)
	}
	files, err := metadata.EncodeFiles(s.Files)
	if err != nil {
		return 0, fmt.Errorf("encode files: %w", err)
	}
	ledger, err := s.Ledger.Encode()
	if err != nil {
		return 0, fmt.Errorf("encode ledger: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}

	writerOpts := []parquet.WriterOption{
		parquet.Compression(opts.Compression.codec()),
		parquet.KeyValueMetadata(KeyID, s.ID),
		parquet.KeyValueMetadata(KeyStrategy, s.Strategy),
		parquet.KeyValueMetadata(KeySchema, string(schema)),
		parquet.KeyValueMetadata(KeyFiles, string(files)),
		parquet.KeyValueMetadata(KeyLedger, string(ledger)),
	}
	if opts.PageSize > 0 {
		writerOpts = append(writerOpts, parquet.PageBufferSize(opts.PageSize))
	}

	writer := parquet.NewGenericWriter[CellRow](f, writerOpts...)

	n, err := writeCells(writer, s, opts.RowGroupSize)
	if err != nil {
		writer.Close()
		f.Close()
		return n, err
	}

	if err := writer.Close(); err != nil {
		f.Close()
		return n, fmt.Errorf("close writer: %w", err)
	}
	return n, f.Close()
}

func writeCells(w *parquet.GenericWriter[CellRow], s Snapshot, groupSize int) (int64, error) {
	if groupSize <= 0 {
		groupSize = DefaultOptions().RowGroupSize
	}

	var (
		total int64
		batch = make([]CellRow, 0, min(groupSize, 4096))
	)
	flush := func(force bool) error {
		if len(batch) == 0 {
			return nil
		}
		if !force && len(batch) < groupSize {
			return nil
		}
		n, err := w.Write(batch)
		total += int64(n)
		if err != nil {
			return fmt.Errorf("write rows: %w", err)
		}
		batch = batch[:0]
		return w.Flush()
	}

	for _, c := range s.Data.Columns() {
		for i := 0; i < c.Len(); i++ {
			row := CellRow{Row: int64(i), Column: c.Name, Kind: KindScalar}
			if c.Jagged() {
				row.Kind = KindJagged
				row.Values = c.Lists[i]
			} else {
				row.Value = c.Values[i]
			}
			batch = append(batch, row)
			if err := flush(false); err != nil {
				return total, err
			}
		}
	}

	if s.Cuts != nil {
		for _, name := range s.Cuts.Names() {
			mask, _ := s.Cuts.Mask(name)
			for i, pass := range mask {
				row := CellRow{Row: int64(i), Column: name, Kind: KindCut}
				if pass {
					row.Value = 1
				}
				batch = append(batch, row)
				if err := flush(false); err != nil {
					return total, err
				}
			}
		}
	}

	return total, flush(true)
}
