package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/compress"
	"github.com/apache/arrow/go/v14/parquet/file"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"

	"github.com/xtxerr/oscana/internal/columnar"
	"github.com/xtxerr/oscana/internal/errors"
	"github.com/xtxerr/oscana/internal/metadata"
	"github.com/xtxerr/oscana/internal/table"
)

// NtupleSource reads ntuple files: Parquet files whose fields are named by
// full variable path, holding float scalars or lists of floats.
type NtupleSource struct {
	alloc memory.Allocator
	clock Clock
}

// NewNtupleSource creates an ntuple reader.
func NewNtupleSource() *NtupleSource {
	return &NtupleSource{
		alloc: memory.DefaultAllocator,
		clock: time.Now,
	}
}

// Read implements RecordSource. The file is opened, read fully and closed
// before Read returns.
func (s *NtupleSource) Read(ctx context.Context, vars []Variable, path string) (*table.Frame, metadata.File, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, metadata.File{}, fmt.Errorf("%s: %w", path, errors.ErrFileNotFound)
	}
	// Unknown names fail before the file is read.
	if _, err := metadata.ParseName(filepath.Base(path)); err != nil {
		return nil, metadata.File{}, err
	}

	pqReader, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, metadata.File{}, fmt.Errorf("open ntuple %s: %w", path, err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, s.alloc)
	if err != nil {
		return nil, metadata.File{}, fmt.Errorf("create arrow reader: %w", err)
	}

	tbl, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, metadata.File{}, fmt.Errorf("read ntuple %s: %w", path, err)
	}
	defer tbl.Release()

	schema := tbl.Schema()
	names := make([]string, len(schema.Fields()))
	for i, f := range schema.Fields() {
		names[i] = f.Name
	}

	wanted := make([]string, 0, len(vars)+2)
	for _, v := range vars {
		wanted = append(wanted, v.Path)
	}
	wanted = append(wanted, RunVariable, UTCVariable)

	cols := make([]table.Column, 0, len(wanted))
	taken := make(map[string]bool, len(wanted))
	for _, name := range wanted {
		idx := schema.FieldIndices(name)
		if len(idx) == 0 || taken[name] {
			continue
		}
		taken[name] = true
		c, err := columnar.ColumnFromChunks(name, tbl.Column(idx[0]).Data().Chunks())
		if err != nil {
			return nil, metadata.File{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		cols = append(cols, c)
	}

	raw, err := table.NewFrame(cols...)
	if err != nil {
		return nil, metadata.File{}, err
	}
	return extract(raw, int(tbl.NumRows()), branchesOf(names), vars, path, s.clock)
}

// WriteNtuple writes a frame keyed by full variable paths as an ntuple file.
func WriteNtuple(path string, f *table.Frame) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if err := writeRecord(out, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeRecord(w io.Writer, f *table.Frame) error {
	rec := columnar.Record(memory.NewGoAllocator(), f, nil)
	defer rec.Release()

	writerProps := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Zstd),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithStoreSchema(),
	)

	// The file writer closes sinks that implement io.Closer; hide it so the
	// caller keeps ownership of the file.
	writer, err := pqarrow.NewFileWriter(rec.Schema(), struct{ io.Writer }{w}, writerProps, arrowProps)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("write record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}
