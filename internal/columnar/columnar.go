// Package columnar converts between table frames and Apache Arrow records.
package columnar

import (
	"fmt"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"

	"github.com/xtxerr/oscana/internal/errors"
	"github.com/xtxerr/oscana/internal/table"
)

// ListType is the Arrow type of jagged columns.
var ListType = arrow.ListOf(arrow.PrimitiveTypes.Float64)

// Schema returns the Arrow schema for a frame. rename maps a column name to
// its field name; nil keeps names as-is.
func Schema(f *table.Frame, rename func(string) string) *arrow.Schema {
	cols := f.Columns()
	fields := make([]arrow.Field, len(cols))
	for i, c := range cols {
		name := c.Name
		if rename != nil {
			name = rename(name)
		}
		typ := arrow.DataType(arrow.PrimitiveTypes.Float64)
		if c.Jagged() {
			typ = ListType
		}
		fields[i] = arrow.Field{Name: name, Type: typ, Nullable: false}
	}
	return arrow.NewSchema(fields, nil)
}

// Record builds an Arrow record from a frame. The caller must Release it.
func Record(mem memory.Allocator, f *table.Frame, rename func(string) string) arrow.Record {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	schema := Schema(f, rename)
	cols := f.Columns()
	arrays := make([]arrow.Array, len(cols))
	for i, c := range cols {
		arrays[i] = buildArray(mem, c)
	}
	rec := array.NewRecord(schema, arrays, int64(f.Len()))
	for _, a := range arrays {
		a.Release()
	}
	return rec
}

func buildArray(mem memory.Allocator, c table.Column) arrow.Array {
	if c.Jagged() {
		lb := array.NewListBuilder(mem, arrow.PrimitiveTypes.Float64)
		defer lb.Release()
		vb := lb.ValueBuilder().(*array.Float64Builder)
		for _, l := range c.Lists {
			lb.Append(true)
			vb.AppendValues(l, nil)
		}
		return lb.NewArray()
	}
	b := array.NewFloat64Builder(mem)
	defer b.Release()
	b.AppendValues(c.Values, nil)
	return b.NewArray()
}

// Frame converts an Arrow record to a frame. rename maps field names to
// column names; nil keeps names as-is.
func Frame(rec arrow.Record, rename func(string) string) (*table.Frame, error) {
	schema := rec.Schema()
	cols := make([]table.Column, 0, rec.NumCols())
	for i := 0; i < int(rec.NumCols()); i++ {
		name := schema.Field(i).Name
		if rename != nil {
			name = rename(name)
		}
		c, err := ColumnFromChunks(name, []arrow.Array{rec.Column(i)})
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return table.NewFrame(cols...)
}

// ColumnFromChunks converts the chunks of one Arrow column. Numeric
// scalars become scalar columns and numeric lists become jagged columns.
func ColumnFromChunks(name string, chunks []arrow.Array) (table.Column, error) {
	if len(chunks) > 0 {
		if _, ok := chunks[0].(*array.List); ok {
			return jaggedFromChunks(name, chunks)
		}
	}

	values := []float64{}
	for _, ch := range chunks {
		for i := 0; i < ch.Len(); i++ {
			v, err := valueAt(ch, i)
			if err != nil {
				return table.Column{}, fmt.Errorf("column '%s': %w", name, err)
			}
			values = append(values, v)
		}
	}
	return table.Scalar(name, values...), nil
}

func jaggedFromChunks(name string, chunks []arrow.Array) (table.Column, error) {
	lists := [][]float64{}
	for _, ch := range chunks {
		l, ok := ch.(*array.List)
		if !ok {
			return table.Column{}, fmt.Errorf("column '%s': mixed chunk types: %w", name, errors.ErrSchemaMismatch)
		}
		offsets := l.Offsets()
		child := l.ListValues()
		for i := 0; i < l.Len(); i++ {
			start, end := int(offsets[i]), int(offsets[i+1])
			row := make([]float64, 0, end-start)
			if !l.IsNull(i) {
				for j := start; j < end; j++ {
					v, err := valueAt(child, j)
					if err != nil {
						return table.Column{}, fmt.Errorf("column '%s': %w", name, err)
					}
					row = append(row, v)
				}
			}
			lists = append(lists, row)
		}
	}
	return table.Jagged(name, lists...), nil
}

func valueAt(a arrow.Array, i int) (float64, error) {
	if a.IsNull(i) {
		return 0, nil
	}
	switch arr := a.(type) {
	case *array.Float64:
		return arr.Value(i), nil
	case *array.Float32:
		return float64(arr.Value(i)), nil
	case *array.Int64:
		return float64(arr.Value(i)), nil
	case *array.Int32:
		return float64(arr.Value(i)), nil
	case *array.Int16:
		return float64(arr.Value(i)), nil
	case *array.Uint32:
		return float64(arr.Value(i)), nil
	case *array.Uint64:
		return float64(arr.Value(i)), nil
	case *array.Boolean:
		if arr.Value(i) {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported arrow type %s: %w", a.DataType(), errors.ErrSchemaMismatch)
	}
}

// Int64s reads a numeric scalar column as integers.
func Int64s(chunks []arrow.Array) ([]int64, error) {
	var out []int64
	for _, ch := range chunks {
		if i64, ok := ch.(*array.Int64); ok {
			for i := 0; i < i64.Len(); i++ {
				out = append(out, i64.Value(i))
			}
			continue
		}
		for i := 0; i < ch.Len(); i++ {
			v, err := valueAt(ch, i)
			if err != nil {
				return nil, err
			}
			out = append(out, int64(v))
		}
	}
	return out, nil
}
