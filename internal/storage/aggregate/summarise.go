package aggregate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	defaults "github.com/xtxerr/oscana/config"
	"github.com/xtxerr/oscana/internal/table"
)

// Options tunes Summarise.
type Options struct {
	// Accuracy is the DDSketch relative accuracy; zero disables quantiles.
	Accuracy float64

	// Workers bounds the number of columns summarised at once.
	Workers int
}

// DefaultOptions returns the configured defaults.
func DefaultOptions() Options {
	return Options{
		Accuracy: defaults.DefaultSketchAccuracy,
		Workers:  defaults.DefaultSummaryWorkers,
	}
}

// Summarise computes one summary per column, in frame column order.
func Summarise(f *table.Frame) []ColumnSummary {
	out, _ := SummariseContext(context.Background(), f, DefaultOptions())
	return out
}

// SummariseContext is Summarise with explicit options and cancellation.
// The frame is only read, so columns are summarised concurrently.
func SummariseContext(ctx context.Context, f *table.Frame, opts Options) ([]ColumnSummary, error) {
	if f == nil {
		return nil, nil
	}
	cols := f.Columns()
	out := make([]ColumnSummary, len(cols))

	g, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i, c := range cols {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("summarise '%s': %w", c.Name, err)
			}
			out[i] = summariseColumn(c, opts.Accuracy)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func summariseColumn(c table.Column, accuracy float64) ColumnSummary {
	acc := NewAccumulator(c.Name, c.Jagged(), accuracy)
	if c.Jagged() {
		for _, hits := range c.Lists {
			for _, v := range hits {
				acc.Add(v)
			}
		}
	} else {
		for _, v := range c.Values {
			acc.Add(v)
		}
	}
	return acc.Result()
}
