package transform

import (
	"fmt"

	"github.com/xtxerr/oscana/internal/errors"
	"github.com/xtxerr/oscana/internal/metadata"
	"github.com/xtxerr/oscana/internal/table"
)

// Plane numbering of the MINOS detectors.
const (
	MinPlane = 0
	MaxPlane = 485
)

// RangeCut keeps rows whose Column lies in [Min, Max]. For a jagged column
// every entry must lie in range and the row must not be empty.
//
// With a cuts table the result is recorded as a mask named after the cut
// and no rows are removed; without one the failing rows are dropped.
type RangeCut struct {
	Column string
	Min    float64
	Max    float64
}

func (c RangeCut) Name() string { return "range_cut" }

func (c RangeCut) Kind() metadata.Kind { return metadata.KindCut }

func (c RangeCut) Params() map[string]any {
	return map[string]any{"column": c.Column, "min": c.Min, "max": c.Max}
}

func (c RangeCut) Apply(st State) (State, error) {
	return applyCut(st, fmt.Sprintf("%s[%s]", c.Name(), c.Column), c.Column, c.Min, c.Max)
}

// ValidPlaneCut keeps events whose hits all lie on a real detector plane.
type ValidPlaneCut struct {
	// Column defaults to stp.plane.
	Column string
}

func (c ValidPlaneCut) Name() string { return "valid_plane" }

func (c ValidPlaneCut) Kind() metadata.Kind { return metadata.KindCut }

func (c ValidPlaneCut) Params() map[string]any {
	return map[string]any{"column": c.column()}
}

func (c ValidPlaneCut) column() string {
	if c.Column == "" {
		return "stp.plane"
	}
	return c.Column
}

func (c ValidPlaneCut) Apply(st State) (State, error) {
	return applyCut(st, c.Name(), c.column(), MinPlane, MaxPlane)
}

func applyCut(st State, label, column string, lo, hi float64) (State, error) {
	if lo > hi {
		return st, errors.NewInvalidValue("cut range", fmt.Sprintf("[%g, %g]", lo, hi), "min above max")
	}
	col, err := st.Data.Column(column)
	if err != nil {
		return st, err
	}

	mask := make([]bool, col.Len())
	if col.Jagged() {
		for i, hits := range col.Lists {
			mask[i] = len(hits) > 0
			for _, v := range hits {
				if v < lo || v > hi {
					mask[i] = false
					break
				}
			}
		}
	} else {
		for i, v := range col.Values {
			mask[i] = v >= lo && v <= hi
		}
	}

	if st.Cuts != nil {
		cuts, err := st.Cuts.With(label, mask)
		if err != nil {
			return st, err
		}
		return State{Data: st.Data, Cuts: cuts}, nil
	}

	data, err := st.Data.Filter(mask)
	if err != nil {
		return st, err
	}
	return State{Data: data}, nil
}

// Normalise rescales Column to [0, 1] using its own minimum and maximum.
// Jagged columns are rescaled over all their entries.
type Normalise struct {
	Column string
}

func (n Normalise) Name() string { return "normalise" }

func (n Normalise) Kind() metadata.Kind { return metadata.KindTransform }

func (n Normalise) Params() map[string]any {
	return map[string]any{"column": n.Column}
}

func (n Normalise) Apply(st State) (State, error) {
	col, err := st.Data.Column(n.Column)
	if err != nil {
		return st, err
	}
	if col.Len() == 0 {
		return st, nil
	}

	lo, hi, ok := bounds(col)
	if !ok {
		return st, nil
	}
	if lo == hi {
		return st, fmt.Errorf("normalise '%s': constant column (%g): %w", n.Column, lo, errors.ErrInvalidConfig)
	}
	scale := func(v float64) float64 { return (v - lo) / (hi - lo) }

	out := table.Column{Name: col.Name}
	if col.Jagged() {
		out.Lists = make([][]float64, len(col.Lists))
		for i, hits := range col.Lists {
			out.Lists[i] = make([]float64, len(hits))
			for j, v := range hits {
				out.Lists[i][j] = scale(v)
			}
		}
	} else {
		out.Values = make([]float64, len(col.Values))
		for i, v := range col.Values {
			out.Values[i] = scale(v)
		}
	}

	data, err := st.Data.WithColumn(out)
	if err != nil {
		return st, err
	}
	return State{Data: data, Cuts: st.Cuts}, nil
}

func bounds(c table.Column) (lo, hi float64, ok bool) {
	visit := func(v float64) {
		if !ok {
			lo, hi, ok = v, v, true
			return
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if c.Jagged() {
		for _, hits := range c.Lists {
			for _, v := range hits {
				visit(v)
			}
		}
	} else {
		for _, v := range c.Values {
			visit(v)
		}
	}
	return lo, hi, ok
}
