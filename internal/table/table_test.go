package table

import (
	"reflect"
	"testing"

	"github.com/xtxerr/oscana/internal/errors"
)

func sampleFrame(t *testing.T) *Frame {
	t.Helper()
	f, err := NewFrame(
		Scalar("evt.ph", 1, 2, 3, 4),
		Jagged("stp.plane", []float64{1, 2}, []float64{}, []float64{400}, []float64{3, 500}),
	)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestNewFrame(t *testing.T) {
	f := sampleFrame(t)
	if f.Len() != 4 {
		t.Errorf("Len = %d, want 4", f.Len())
	}
	if !reflect.DeepEqual(f.Names(), []string{"evt.ph", "stp.plane"}) {
		t.Errorf("Names = %v", f.Names())
	}

	if _, err := NewFrame(Scalar("a", 1), Scalar("b", 1, 2)); !errors.Is(err, errors.ErrLengthMismatch) {
		t.Errorf("length mismatch: got %v", err)
	}
	if _, err := NewFrame(Scalar("a", 1), Scalar("a", 2)); !errors.Is(err, errors.ErrDuplicateVariable) {
		t.Errorf("duplicate: got %v", err)
	}
	if _, err := f.Column("missing"); !errors.Is(err, errors.ErrColumnNotFound) {
		t.Errorf("missing column: got %v", err)
	}
}

func TestFilter(t *testing.T) {
	f := sampleFrame(t)
	g, err := f.Filter([]bool{true, false, true, false})
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 2 {
		t.Fatalf("Len = %d, want 2", g.Len())
	}
	ph, _ := g.Column("evt.ph")
	if !reflect.DeepEqual(ph.Values, []float64{1, 3}) {
		t.Errorf("evt.ph = %v", ph.Values)
	}
	plane, _ := g.Column("stp.plane")
	if !reflect.DeepEqual(plane.Lists, [][]float64{{1, 2}, {400}}) {
		t.Errorf("stp.plane = %v", plane.Lists)
	}

	// The source frame is untouched.
	if f.Len() != 4 {
		t.Error("Filter modified its receiver")
	}

	if _, err := f.Filter([]bool{true}); !errors.Is(err, errors.ErrLengthMismatch) {
		t.Errorf("short mask: got %v", err)
	}
}

func TestAppend(t *testing.T) {
	empty := Empty("evt.ph", "stp.plane")
	f := sampleFrame(t)

	g, err := empty.Append(f)
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 4 {
		t.Fatalf("Len = %d", g.Len())
	}

	h, err := g.Append(f)
	if err != nil {
		t.Fatal(err)
	}
	if h.Len() != 8 || g.Len() != 4 {
		t.Errorf("Len = %d/%d, want 8/4", h.Len(), g.Len())
	}
	plane, _ := h.Column("stp.plane")
	if !plane.Jagged() || len(plane.Lists[7]) != 2 {
		t.Errorf("jagged column not appended: %v", plane.Lists)
	}

	other, _ := NewFrame(Scalar("evt.ph", 1), Scalar("stp.plane", 2))
	if _, err := f.Append(other); !errors.Is(err, errors.ErrSchemaMismatch) {
		t.Errorf("kind mismatch: got %v", err)
	}
	wrong, _ := NewFrame(Scalar("x", 1))
	if _, err := f.Append(wrong); !errors.Is(err, errors.ErrSchemaMismatch) {
		t.Errorf("name mismatch: got %v", err)
	}
}

func TestWithColumn(t *testing.T) {
	f := sampleFrame(t)
	g, err := f.WithColumn(Scalar("evt.ph", 9, 9, 9, 9))
	if err != nil {
		t.Fatal(err)
	}
	ph, _ := g.Column("evt.ph")
	if ph.Values[0] != 9 {
		t.Error("column not replaced")
	}
	orig, _ := f.Column("evt.ph")
	if orig.Values[0] != 1 {
		t.Error("WithColumn modified its receiver")
	}
	if _, err := f.WithColumn(Scalar("new", 1)); err == nil {
		t.Error("expected length error")
	}
}

func TestCuts(t *testing.T) {
	c := NewCuts(4)
	if c.Passing() != 4 {
		t.Errorf("no cuts: Passing = %d", c.Passing())
	}

	c1, err := c.With("a", []bool{true, true, false, true})
	if err != nil {
		t.Fatal(err)
	}
	c2, err := c1.With("b", []bool{false, true, true, true})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(c2.All(), []bool{false, true, false, true}) {
		t.Errorf("All = %v", c2.All())
	}
	if len(c1.Names()) != 1 || len(c.Names()) != 0 {
		t.Error("With modified its receiver")
	}

	g := c2.Grow(2)
	if g.Len() != 6 {
		t.Fatalf("Len = %d", g.Len())
	}
	m, _ := g.Mask("a")
	if m[4] || m[5] {
		t.Error("grown rows must be false")
	}

	f, err := c2.Filter([]bool{true, true, false, false})
	if err != nil {
		t.Fatal(err)
	}
	if mb, _ := f.Mask("b"); !reflect.DeepEqual(mb, []bool{false, true}) {
		t.Errorf("filtered mask = %v", mb)
	}

	if _, err := c.With("x", []bool{true}); !errors.Is(err, errors.ErrLengthMismatch) {
		t.Errorf("short mask: got %v", err)
	}
}
