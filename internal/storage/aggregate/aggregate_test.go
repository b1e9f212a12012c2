package aggregate

import (
	"context"
	"math"
	"testing"

	"github.com/xtxerr/oscana/internal/table"
)

func TestAccumulator_Basic(t *testing.T) {
	acc := NewAccumulator("evt.energy", false, 0)

	acc.Add(10.0)
	acc.Add(20.0)
	acc.Add(30.0)
	acc.Add(math.NaN())

	if acc.Count() != 3 {
		t.Errorf("expected count=3, got %d", acc.Count())
	}

	result := acc.Result()
	if result.Min != 10.0 || result.Max != 30.0 {
		t.Errorf("expected min=10 max=30, got %f %f", result.Min, result.Max)
	}
	if math.Abs(result.Mean-20.0) > 0.001 {
		t.Errorf("expected mean=20, got %f", result.Mean)
	}
	if result.HasQuantiles() {
		t.Error("should not have quantiles")
	}
}

func TestAccumulator_Quantiles(t *testing.T) {
	acc := NewAccumulator("evt.energy", false, 0.01)
	for i := 1; i <= 1000; i++ {
		acc.Add(float64(i))
	}

	result := acc.Result()
	if !result.HasQuantiles() {
		t.Fatal("should have quantiles")
	}
	if math.Abs(*result.P50-500) > 10 {
		t.Errorf("expected p50≈500, got %f", *result.P50)
	}
	if math.Abs(*result.P99-990) > 20 {
		t.Errorf("expected p99≈990, got %f", *result.P99)
	}
}

func TestAccumulator_Merge(t *testing.T) {
	a := NewAccumulator("x", false, 0.01)
	b := NewAccumulator("x", false, 0.01)
	a.Add(1)
	a.Add(2)
	b.Add(-5)
	b.Add(9)

	a.Merge(b)
	a.Merge(nil)

	r := a.Result()
	if r.Count != 4 || r.Min != -5 || r.Max != 9 {
		t.Errorf("merged = %+v", r)
	}
	if math.Abs(r.Mean-1.75) > 1e-9 {
		t.Errorf("expected mean=1.75, got %f", r.Mean)
	}
}

func TestAccumulator_Empty(t *testing.T) {
	r := NewAccumulator("x", true, 0.01).Result()
	if r.Count != 0 || r.Min != 0 || r.Max != 0 || r.HasQuantiles() {
		t.Errorf("empty summary = %+v", r)
	}
}

func TestSummarise(t *testing.T) {
	f, err := table.NewFrame(
		table.Scalar("evt.energy", 1, 2, 3, 4),
		table.Jagged("stp.plane", []float64{10, 20}, nil, []float64{30}, []float64{}),
	)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	sums := Summarise(f)
	if len(sums) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(sums))
	}
	if sums[0].Column != "evt.energy" || sums[1].Column != "stp.plane" {
		t.Errorf("column order = %s, %s", sums[0].Column, sums[1].Column)
	}
	if sums[0].Count != 4 || sums[0].Mean != 2.5 {
		t.Errorf("energy = %+v", sums[0])
	}
	if !sums[1].Jagged || sums[1].Count != 3 || sums[1].Max != 30 {
		t.Errorf("plane = %+v", sums[1])
	}
}

func TestSummariseCancelled(t *testing.T) {
	f, _ := table.NewFrame(table.Scalar("x", 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := SummariseContext(ctx, f, Options{Workers: 1}); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestSummariseNil(t *testing.T) {
	if got := Summarise(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
