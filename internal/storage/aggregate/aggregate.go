// Package aggregate computes per-column summary statistics over a frame.
package aggregate

import (
	"math"

	"github.com/DataDog/sketches-go/ddsketch"
)

// Accumulator maintains running statistics for one column. Quantiles are
// tracked with a DDSketch when one could be allocated.
type Accumulator struct {
	column string
	jagged bool

	count int64
	sum   float64
	min   float64
	max   float64

	// DDSketch for quantiles (nil if disabled)
	sketch *ddsketch.DDSketch
}

// NewAccumulator creates an accumulator with the given relative quantile
// accuracy. An accuracy outside (0, 1) disables quantiles.
func NewAccumulator(column string, jagged bool, accuracy float64) *Accumulator {
	a := &Accumulator{
		column: column,
		jagged: jagged,
		min:    math.MaxFloat64,
		max:    -math.MaxFloat64,
	}
	if accuracy > 0 && accuracy < 1 {
		if sketch, err := ddsketch.NewDefaultDDSketch(accuracy); err == nil {
			a.sketch = sketch
		}
	}
	return a
}

// Add adds a value. NaN values are ignored.
func (a *Accumulator) Add(v float64) {
	if math.IsNaN(v) {
		return
	}
	a.count++
	a.sum += v
	if v < a.min {
		a.min = v
	}
	if v > a.max {
		a.max = v
	}
	if a.sketch != nil {
		// Only fails for values the sketch cannot index, e.g. ±Inf.
		_ = a.sketch.Add(v)
	}
}

// Merge combines another accumulator for the same column into this one.
func (a *Accumulator) Merge(other *Accumulator) {
	if other == nil || other.count == 0 {
		return
	}
	a.count += other.count
	a.sum += other.sum
	a.min = min(a.min, other.min)
	a.max = max(a.max, other.max)
	if a.sketch != nil && other.sketch != nil {
		_ = a.sketch.MergeWith(other.sketch)
	}
}

// Count returns the number of values added.
func (a *Accumulator) Count() int64 { return a.count }

// Result returns the summary.
func (a *Accumulator) Result() ColumnSummary {
	s := ColumnSummary{Column: a.column, Jagged: a.jagged, Count: a.count}
	if a.count == 0 {
		return s
	}
	s.Min = a.min
	s.Max = a.max
	s.Mean = a.sum / float64(a.count)

	if a.sketch != nil {
		p50, err50 := a.sketch.GetValueAtQuantile(0.50)
		p90, err90 := a.sketch.GetValueAtQuantile(0.90)
		p99, err99 := a.sketch.GetValueAtQuantile(0.99)
		if err50 == nil && err90 == nil && err99 == nil {
			s.SetQuantiles(p50, p90, p99)
		}
	}
	return s
}

// ColumnSummary holds the statistics of one column. Jagged columns are
// summarised over all their entries.
type ColumnSummary struct {
	Column string
	Jagged bool
	Count  int64
	Min    float64
	Max    float64
	Mean   float64

	// Quantiles are nil when not computed.
	P50 *float64
	P90 *float64
	P99 *float64
}

// SetQuantiles records the quantile estimates.
func (s *ColumnSummary) SetQuantiles(p50, p90, p99 float64) {
	s.P50, s.P90, s.P99 = &p50, &p90, &p99
}

// HasQuantiles reports whether quantiles were computed.
func (s ColumnSummary) HasQuantiles() bool { return s.P50 != nil }
