// Package table holds the in-memory columnar representation of detector
// records and the parallel cuts boolean table.
//
// Frames and Cuts are copy-on-write: every operation returns a new value
// and never modifies its receiver, so a value handed out once stays valid.
package table

import (
	"fmt"

	"github.com/xtxerr/oscana/internal/errors"
)

// Column is one named column. Scalar columns use Values; jagged columns
// (variable-length per-row arrays such as per-strip hits) use Lists.
// A column with neither set is empty and untyped.
type Column struct {
	Name   string
	Values []float64
	Lists  [][]float64
}

// Jagged reports whether c holds per-row lists.
func (c Column) Jagged() bool { return c.Lists != nil }

// Len returns the number of rows in c.
func (c Column) Len() int {
	if c.Lists != nil {
		return len(c.Lists)
	}
	return len(c.Values)
}

func (c Column) typed() bool { return c.Values != nil || c.Lists != nil }

// Scalar builds a scalar column.
func Scalar(name string, values ...float64) Column {
	if values == nil {
		values = []float64{}
	}
	return Column{Name: name, Values: values}
}

// Jagged builds a jagged column.
func Jagged(name string, lists ...[]float64) Column {
	if lists == nil {
		lists = [][]float64{}
	}
	return Column{Name: name, Lists: lists}
}

// Frame is an ordered set of equal-length columns.
type Frame struct {
	names []string
	cols  map[string]Column
	rows  int
}

// NewFrame builds a frame from columns. All typed columns must have the
// same length and names must be unique.
func NewFrame(cols ...Column) (*Frame, error) {
	f := &Frame{cols: make(map[string]Column, len(cols))}
	rows := -1
	for _, c := range cols {
		if _, dup := f.cols[c.Name]; dup {
			return nil, fmt.Errorf("column '%s': %w", c.Name, errors.ErrDuplicateVariable)
		}
		if c.typed() {
			if rows >= 0 && c.Len() != rows {
				return nil, fmt.Errorf("column '%s' has %d rows, want %d: %w", c.Name, c.Len(), rows, errors.ErrLengthMismatch)
			}
			rows = c.Len()
		}
		f.names = append(f.names, c.Name)
		f.cols[c.Name] = c
	}
	if rows > 0 {
		for _, n := range f.names {
			if !f.cols[n].typed() {
				return nil, fmt.Errorf("column '%s' is empty in a %d-row frame: %w", n, rows, errors.ErrLengthMismatch)
			}
		}
		f.rows = rows
	}
	return f, nil
}

// Empty returns a zero-row frame with the given untyped columns.
func Empty(names ...string) *Frame {
	f := &Frame{names: append([]string(nil), names...), cols: make(map[string]Column, len(names))}
	for _, n := range names {
		f.cols[n] = Column{Name: n}
	}
	return f
}

// Len returns the row count.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return f.rows
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	if f == nil {
		return nil
	}
	return append([]string(nil), f.names...)
}

// Has reports whether the frame holds a column.
func (f *Frame) Has(name string) bool {
	if f == nil {
		return false
	}
	_, ok := f.cols[name]
	return ok
}

// Column returns a column by name.
func (f *Frame) Column(name string) (Column, error) {
	if f != nil {
		if c, ok := f.cols[name]; ok {
			return c, nil
		}
	}
	return Column{}, fmt.Errorf("'%s': %w", name, errors.ErrColumnNotFound)
}

// Columns returns all columns in order.
func (f *Frame) Columns() []Column {
	if f == nil {
		return nil
	}
	out := make([]Column, len(f.names))
	for i, n := range f.names {
		out[i] = f.cols[n]
	}
	return out
}

// WithColumn returns a frame with c added, or replacing the column of the
// same name.
func (f *Frame) WithColumn(c Column) (*Frame, error) {
	cols := f.Columns()
	replaced := false
	for i := range cols {
		if cols[i].Name == c.Name {
			cols[i] = c
			replaced = true
		}
	}
	if !replaced {
		cols = append(cols, c)
	}
	return NewFrame(cols...)
}

// Filter returns the rows where keep is true.
func (f *Frame) Filter(keep []bool) (*Frame, error) {
	if len(keep) != f.Len() {
		return nil, fmt.Errorf("filter mask has %d rows, frame has %d: %w", len(keep), f.Len(), errors.ErrLengthMismatch)
	}
	kept := 0
	for _, k := range keep {
		if k {
			kept++
		}
	}

	out := &Frame{names: f.Names(), cols: make(map[string]Column, len(f.names)), rows: kept}
	for _, n := range f.names {
		c := f.cols[n]
		nc := Column{Name: n}
		switch {
		case c.Lists != nil:
			nc.Lists = make([][]float64, 0, kept)
			for i, k := range keep {
				if k {
					nc.Lists = append(nc.Lists, c.Lists[i])
				}
			}
		case c.Values != nil:
			nc.Values = make([]float64, 0, kept)
			for i, k := range keep {
				if k {
					nc.Values = append(nc.Values, c.Values[i])
				}
			}
		}
		out.cols[n] = nc
	}
	return out, nil
}

// Append returns f with the rows of o added after its own. Both frames must
// have the same column names; an empty column takes the kind of its
// counterpart.
func (f *Frame) Append(o *Frame) (*Frame, error) {
	if o.Len() == 0 && f != nil {
		return f, nil
	}
	if f.Len() == 0 && len(f.Names()) == 0 {
		return o, nil
	}
	if err := sameNames(f.Names(), o.Names()); err != nil {
		return nil, err
	}

	cols := make([]Column, 0, len(f.names))
	for _, n := range f.names {
		a, b := f.cols[n], o.cols[n]
		switch {
		case !a.typed() || a.Len() == 0:
			cols = append(cols, Column{Name: n, Values: b.Values, Lists: b.Lists})
		case a.Jagged() != b.Jagged():
			return nil, fmt.Errorf("column '%s': jagged and scalar data cannot be merged: %w", n, errors.ErrSchemaMismatch)
		case a.Jagged():
			lists := make([][]float64, 0, a.Len()+b.Len())
			lists = append(append(lists, a.Lists...), b.Lists...)
			cols = append(cols, Column{Name: n, Lists: lists})
		default:
			values := make([]float64, 0, a.Len()+b.Len())
			values = append(append(values, a.Values...), b.Values...)
			cols = append(cols, Column{Name: n, Values: values})
		}
	}
	return NewFrame(cols...)
}

func sameNames(a, b []string) error {
	if len(a) != len(b) {
		return fmt.Errorf("columns %v vs %v: %w", a, b, errors.ErrSchemaMismatch)
	}
	set := make(map[string]bool, len(a))
	for _, n := range a {
		set[n] = true
	}
	for _, n := range b {
		if !set[n] {
			return fmt.Errorf("column '%s' not present in both frames: %w", n, errors.ErrSchemaMismatch)
		}
	}
	return nil
}
