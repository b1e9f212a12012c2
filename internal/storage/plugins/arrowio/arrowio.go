// Package arrowio is a storage strategy that keeps records as an Apache
// Arrow record. Appends concatenate Arrow arrays column by column.
package arrowio

import (
	"context"
	"fmt"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"

	"github.com/xtxerr/oscana/internal/columnar"
	"github.com/xtxerr/oscana/internal/errors"
	"github.com/xtxerr/oscana/internal/source"
	"github.com/xtxerr/oscana/internal/storage"
	"github.com/xtxerr/oscana/internal/table"
)

// Name is the registry key of the strategy.
const Name = "ArrowIO"

// Table is an Arrow-backed table.Data.
type Table struct {
	rec arrow.Record
}

// Record returns the underlying record. It stays owned by the table.
func (t *Table) Record() arrow.Record { return t.rec }

func (t *Table) Len() int { return int(t.rec.NumRows()) }

func (t *Table) Names() []string {
	fields := t.rec.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

func (t *Table) Frame() (*table.Frame, error) {
	return columnar.Frame(t.rec, nil)
}

// Strategy implements storage.Strategy over Arrow records.
type Strategy struct {
	opts storage.Options
	mem  memory.Allocator
	sntp storage.Release[storage.CompatPolicy]
}

// Loaders returns the SNTP loader releases.
func Loaders() *storage.Versioned[storage.CompatPolicy] {
	return storage.NewVersioned[storage.CompatPolicy]("arrowio.sntp").
		MustAdd("2024-05-02", "arrow-v1", storage.CheckAll)
}

// New builds the strategy.
func New(opts storage.Options) (storage.Strategy, error) {
	opts = opts.Normalize()
	rel, err := Loaders().Select(opts.LoaderVersion)
	if err != nil {
		return nil, err
	}
	return &Strategy{opts: opts, mem: memory.NewGoAllocator(), sntp: rel}, nil
}

func (s *Strategy) Name() string { return Name }

func (s *Strategy) InitDataTable(vars []source.Variable) table.Data {
	return &Table{rec: columnar.Record(s.mem, table.Empty(source.Keys(vars)...), nil)}
}

func (s *Strategy) InitCutsTable() *table.Cuts {
	return table.NewCuts(0)
}

func (s *Strategy) Load(ctx context.Context, kind storage.SourceKind, st storage.State, files []string) (storage.State, error) {
	cfg := storage.IngestConfig{Strategy: Name, Options: s.opts, Policy: s.sntp.Impl, Merge: s.merge}
	switch kind {
	case storage.SourceSNTP:
		return storage.Ingest(ctx, cfg, st, files)
	case storage.SourceSnapshot:
		return storage.IngestSnapshots(ctx, cfg, st, files)
	default:
		return st, errors.NewNotImplemented(Name, "load "+kind.String())
	}
}

func (s *Strategy) merge(data table.Data, f *table.Frame) (table.Data, error) {
	cur, ok := data.(*Table)
	if !ok || cur.Len() == 0 {
		names := f.Names()
		if data != nil {
			names = data.Names()
		}
		ordered, err := reorder(f, names)
		if err != nil {
			return nil, err
		}
		return &Table{rec: columnar.Record(s.mem, ordered, nil)}, nil
	}
	if f.Len() == 0 {
		return cur, nil
	}

	next := columnar.Record(s.mem, f, nil)
	defer next.Release()

	schema := cur.rec.Schema()
	if int(next.NumCols()) != len(schema.Fields()) {
		return nil, fmt.Errorf("%d columns vs %d: %w", next.NumCols(), len(schema.Fields()), errors.ErrSchemaMismatch)
	}

	cols := make([]arrow.Array, 0, len(schema.Fields()))
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	for i, field := range schema.Fields() {
		idx := next.Schema().FieldIndices(field.Name)
		if len(idx) == 0 {
			return nil, fmt.Errorf("column '%s' missing: %w", field.Name, errors.ErrSchemaMismatch)
		}
		other := next.Column(idx[0])
		if !arrow.TypeEqual(field.Type, other.DataType()) {
			return nil, fmt.Errorf("column '%s': %s vs %s: %w", field.Name, field.Type, other.DataType(), errors.ErrSchemaMismatch)
		}
		joined, err := array.Concatenate([]arrow.Array{cur.rec.Column(i), other}, s.mem)
		if err != nil {
			return nil, fmt.Errorf("concatenate '%s': %w", field.Name, err)
		}
		cols = append(cols, joined)
	}

	return &Table{rec: array.NewRecord(schema, cols, cur.rec.NumRows()+next.NumRows())}, nil
}

// reorder returns f with its columns in the order of names.
func reorder(f *table.Frame, names []string) (*table.Frame, error) {
	if len(names) != len(f.Names()) {
		return nil, fmt.Errorf("columns %v vs %v: %w", names, f.Names(), errors.ErrSchemaMismatch)
	}
	cols := make([]table.Column, len(names))
	for i, n := range names {
		c, err := f.Column(n)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrSchemaMismatch, err)
		}
		cols[i] = c
	}
	return table.NewFrame(cols...)
}

func (s *Strategy) Adopt(f *table.Frame) (table.Data, error) {
	return &Table{rec: columnar.Record(s.mem, f, nil)}, nil
}

func (s *Strategy) DataLength(st storage.State) int {
	if st.Data == nil {
		return 0
	}
	return st.Data.Len()
}

func (s *Strategy) Info() storage.Info {
	return storage.Info{
		Strategy: Name,
		Table:    "arrow.Record (apache/arrow v14)",
		Loaders: []storage.LoaderInfo{
			{Kind: storage.SourceSNTP, Loader: s.sntp.Label, Version: s.sntp.Version},
			{Kind: storage.SourceUDST, Loader: "not implemented"},
			{Kind: storage.SourceSnapshot, Loader: "parquet-go snapshot reader"},
		},
		Writer: storage.WriterInfo(s.opts),
	}
}

func (s *Strategy) Export(ctx context.Context, st storage.State, path string) error {
	return storage.ExportSnapshot(ctx, Name, st, path, s.opts)
}

// Plugin exports the ArrowIO strategy.
type Plugin struct{}

func (Plugin) Name() string { return "arrowio" }

func (Plugin) Exports() []storage.Export {
	return []storage.Export{{Name: Name, Factory: New}}
}
