package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/xtxerr/oscana/internal/errors"
	"github.com/xtxerr/oscana/internal/source"
	"github.com/xtxerr/oscana/internal/table"
)

type stubStrategy struct{ name string }

func (s stubStrategy) Name() string                               { return s.name }
func (s stubStrategy) InitDataTable([]source.Variable) table.Data { return table.Empty() }
func (s stubStrategy) InitCutsTable() *table.Cuts                 { return table.NewCuts(0) }
func (s stubStrategy) Load(_ context.Context, _ SourceKind, st State, _ []string) (State, error) {
	return st, nil
}
func (s stubStrategy) Adopt(f *table.Frame) (table.Data, error)    { return f, nil }
func (s stubStrategy) DataLength(State) int                        { return 0 }
func (s stubStrategy) Info() Info                                  { return Info{Strategy: s.name} }
func (s stubStrategy) Export(context.Context, State, string) error { return nil }

func stubFactory(name string) Factory {
	return func(Options) (Strategy, error) { return stubStrategy{name: name}, nil }
}

type stubPlugin struct {
	name    string
	exports []Export
}

func (p stubPlugin) Name() string      { return p.name }
func (p stubPlugin) Exports() []Export { return p.exports }

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("FrameIO", stubFactory("FrameIO")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	s, err := r.New("FrameIO", Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Name() != "FrameIO" {
		t.Errorf("Name = %q", s.Name())
	}

	_, err = r.Lookup("NoSuchIO")
	if !errors.Is(err, errors.ErrStrategyNotFound) {
		t.Fatalf("got %v, want ErrStrategyNotFound", err)
	}
	if !strings.Contains(err.Error(), "NoSuchIO") || !strings.Contains(err.Error(), "FrameIO") {
		t.Errorf("message should name the missing and available strategies: %q", err)
	}
}

func TestRegistryFirstWins(t *testing.T) {
	r := NewRegistry()
	added := r.Discover(
		stubPlugin{name: "empty"},
		stubPlugin{name: "first", exports: []Export{{Name: "FrameIO", Factory: stubFactory("first")}}},
		stubPlugin{name: "second", exports: []Export{
			{Name: "FrameIO", Factory: stubFactory("second")},
			{Name: "ArrowIO", Factory: stubFactory("ArrowIO")},
		}},
	)
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	s, err := r.New("FrameIO", Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Name() != "first" {
		t.Errorf("FrameIO came from %q, want first", s.Name())
	}
	if origin, _ := r.Origin("ArrowIO"); origin != "second" {
		t.Errorf("ArrowIO origin = %q", origin)
	}

	if err := r.Register("FrameIO", stubFactory("late")); !errors.IsConfiguration(err) {
		t.Errorf("duplicate Register: got %v", err)
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "ArrowIO" || names[1] != "FrameIO" {
		t.Errorf("Names = %v", names)
	}
}

func TestRegistriesAreIsolated(t *testing.T) {
	a, b := NewRegistry(), NewRegistry()
	if err := a.Register("FrameIO", stubFactory("FrameIO")); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Lookup("FrameIO"); err == nil {
		t.Error("registration leaked between registries")
	}
}

func TestRegisterRejectsBadNames(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"Frame IO", "../FrameIO", ".hidden"} {
		if err := r.Register(name, stubFactory(name)); !errors.IsConfiguration(err) {
			t.Errorf("Register(%q): got %v, want configuration error", name, err)
		}
	}
	if len(r.Names()) != 0 {
		t.Errorf("Names = %v", r.Names())
	}
}

func TestParseSourceKind(t *testing.T) {
	for in, want := range map[string]SourceKind{"sntp": SourceSNTP, "UDST": SourceUDST, "snapshot": SourceSnapshot} {
		got, err := ParseSourceKind(in)
		if err != nil || got != want {
			t.Errorf("ParseSourceKind(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseSourceKind("csv"); !errors.IsConfiguration(err) {
		t.Errorf("got %v, want configuration error", err)
	}
}

func TestInfoString(t *testing.T) {
	info := Info{
		Strategy: "FrameIO",
		Table:    "table.Frame",
		Loaders: []LoaderInfo{
			{Kind: SourceSNTP, Loader: "v2", Version: "2024-02-10"},
			{Kind: SourceUDST, Loader: "not implemented"},
		},
		Writer: "parquet",
	}
	out := info.String()
	for _, want := range []string{"Storage Strategy: FrameIO", "sntp", "v2 (2024-02-10)", "not implemented", "Writer : parquet"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
