// Package frameio is the default storage strategy: records are held in an
// in-memory table.Frame.
package frameio

import (
	"context"

	"github.com/xtxerr/oscana/internal/errors"
	"github.com/xtxerr/oscana/internal/source"
	"github.com/xtxerr/oscana/internal/storage"
	"github.com/xtxerr/oscana/internal/table"
)

// Name is the registry key of the strategy.
const Name = "FrameIO"

// Loader ingests SNTP files into a state.
type Loader func(ctx context.Context, cfg storage.IngestConfig, st storage.State, files []string) (storage.State, error)

// Loaders returns the SNTP loader releases. The naive loader only checks
// each file against the one before it.
func Loaders() *storage.Versioned[Loader] {
	return storage.NewVersioned[Loader]("frameio.sntp").
		MustAdd("2023-03-14", "naive-v1", loadPrevious).
		MustAdd("2024-02-10", "v2", loadAll)
}

func loadPrevious(ctx context.Context, cfg storage.IngestConfig, st storage.State, files []string) (storage.State, error) {
	cfg.Policy = storage.CheckPrevious
	return storage.Ingest(ctx, cfg, st, files)
}

func loadAll(ctx context.Context, cfg storage.IngestConfig, st storage.State, files []string) (storage.State, error) {
	cfg.Policy = storage.CheckAll
	return storage.Ingest(ctx, cfg, st, files)
}

// Strategy implements storage.Strategy over table.Frame.
type Strategy struct {
	opts storage.Options
	sntp storage.Release[Loader]
}

// New builds the strategy. opts.LoaderVersion pins the SNTP loader.
func New(opts storage.Options) (storage.Strategy, error) {
	opts = opts.Normalize()
	rel, err := Loaders().Select(opts.LoaderVersion)
	if err != nil {
		return nil, err
	}
	return &Strategy{opts: opts, sntp: rel}, nil
}

func (s *Strategy) Name() string { return Name }

func (s *Strategy) InitDataTable(vars []source.Variable) table.Data {
	return table.Empty(source.Keys(vars)...)
}

func (s *Strategy) InitCutsTable() *table.Cuts {
	return table.NewCuts(0)
}

func (s *Strategy) Load(ctx context.Context, kind storage.SourceKind, st storage.State, files []string) (storage.State, error) {
	cfg := storage.IngestConfig{Strategy: Name, Options: s.opts, Merge: merge}
	switch kind {
	case storage.SourceSNTP:
		return s.sntp.Impl(ctx, cfg, st, files)
	case storage.SourceSnapshot:
		return storage.IngestSnapshots(ctx, cfg, st, files)
	default:
		return st, errors.NewNotImplemented(Name, "load "+kind.String())
	}
}

func merge(data table.Data, f *table.Frame) (table.Data, error) {
	if data == nil {
		return f, nil
	}
	cur, err := data.Frame()
	if err != nil {
		return nil, err
	}
	return cur.Append(f)
}

func (s *Strategy) Adopt(f *table.Frame) (table.Data, error) { return f, nil }

func (s *Strategy) DataLength(st storage.State) int {
	if st.Data == nil {
		return 0
	}
	return st.Data.Len()
}

func (s *Strategy) Info() storage.Info {
	return storage.Info{
		Strategy: Name,
		Table:    "table.Frame (in-memory columns)",
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

// Plugin exports the FrameIO strategy.
type Plugin struct{}

func (Plugin) Name() string { return "frameio" }

func (Plugin) Exports() []storage.Export {
	return []storage.Export{{Name: Name, Factory: New}}
}
