package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xtxerr/oscana/internal/errors"
	"github.com/xtxerr/oscana/internal/source"
	"github.com/xtxerr/oscana/internal/table"
)

// SourceKind selects which loader a strategy uses.
type SourceKind int

const (
	// SourceSNTP is the primary record kind: standard ntuple files.
	SourceSNTP SourceKind = iota
	// SourceUDST is the micro-DST kind, declared but not supported.
	SourceUDST
	// SourceSnapshot re-loads a snapshot exported by a strategy.
	SourceSnapshot
)

func (k SourceKind) String() string {
	switch k {
	case SourceSNTP:
		return "sntp"
	case SourceUDST:
		return "udst"
	case SourceSnapshot:
		return "snapshot"
	default:
		return fmt.Sprintf("SourceKind(%d)", int(k))
	}
}

// ParseSourceKind parses "sntp", "udst" or "snapshot".
func ParseSourceKind(s string) (SourceKind, error) {
	switch strings.ToLower(s) {
	case "sntp", "":
		return SourceSNTP, nil
	case "udst":
		return SourceUDST, nil
	case "snapshot":
		return SourceSnapshot, nil
	}
	return 0, errors.NewInvalidValue("source kind", s, "expected sntp, udst or snapshot")
}

// Strategy owns a table representation and the ingestion into it.
type Strategy interface {
	Name() string

	// InitDataTable returns the empty table for vars.
	InitDataTable(vars []source.Variable) table.Data

	// InitCutsTable returns the empty cuts table.
	InitCutsTable() *table.Cuts

	// Load ingests files of the given kind into st and returns the new
	// state. On error the returned state equals st.
	Load(ctx context.Context, kind SourceKind, st State, files []string) (State, error)

	// Adopt converts a frame produced by a transform back into the
	// strategy's representation.
	Adopt(f *table.Frame) (table.Data, error)

	DataLength(st State) int

	Info() Info

	// Export writes st as a snapshot to path.
	Export(ctx context.Context, st State, path string) error
}

// Info describes which implementations a strategy runs.
type Info struct {
	Strategy string
	// Table names the table representation.
	Table   string
	Loaders []LoaderInfo
	Writer  string
}

// LoaderInfo describes the loader of one source kind.
type LoaderInfo struct {
	Kind    SourceKind
	Loader  string
	Version string
}

// String renders the info as an indented listing.
func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Storage Strategy: %s\n", i.Strategy)
	fmt.Fprintf(&b, "\tTable  : %s\n", i.Table)
	for _, l := range i.Loaders {
		if l.Version == "" {
			fmt.Fprintf(&b, "\tLoader : %-8s -> %s\n", l.Kind, l.Loader)
			continue
		}
		fmt.Fprintf(&b, "\tLoader : %-8s -> %s (%s)\n", l.Kind, l.Loader, l.Version)
	}
	fmt.Fprintf(&b, "\tWriter : %s\n", i.Writer)
	return b.String()
}

// Observer receives per-file ingestion events. Implementations must be
// cheap; they run inside the ingestion loop.
type Observer interface {
	FileIngested(strategy, file string, rows int)
	FileSkipped(strategy, file string)
	FileFailed(strategy, file string, err error)
}

// Observers fans events out to several observers.
type Observers []Observer

func (o Observers) FileIngested(strategy, file string, rows int) {
	for _, ob := range o {
		ob.FileIngested(strategy, file, rows)
	}
}

func (o Observers) FileSkipped(strategy, file string) {
	for _, ob := range o {
		ob.FileSkipped(strategy, file)
	}
}

func (o Observers) FileFailed(strategy, file string, err error) {
	for _, ob := range o {
		ob.FileFailed(strategy, file, err)
	}
}

type nopObserver struct{}

func (nopObserver) FileIngested(string, string, int) {}
func (nopObserver) FileSkipped(string, string)       {}
func (nopObserver) FileFailed(string, string, error) {}

// Options are passed to a strategy factory.
type Options struct {
	Source   source.RecordSource
	Logger   *slog.Logger
	Observer Observer

	// SnapshotCompression is the codec name used by Export.
	SnapshotCompression string

	// LoaderVersion pins the SNTP loader release by date or label.
	// Empty selects the latest release.
	LoaderVersion string
}

// Normalize fills unset options with defaults: the ntuple source, the
// default logger and a no-op observer.
func (o Options) Normalize() Options {
	if o.Source == nil {
		o.Source = source.NewNtupleSource()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Observer == nil {
		o.Observer = nopObserver{}
	}
	return o
}

// Factory builds a strategy.
type Factory func(opts Options) (Strategy, error)
