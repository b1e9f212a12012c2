package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xtxerr/oscana/internal/handler"
	"github.com/xtxerr/oscana/internal/logging"
	"github.com/xtxerr/oscana/internal/storage"
	"github.com/xtxerr/oscana/internal/transform"
)

// pipeline is a handler built from the loaded config.
type pipeline struct {
	h    *handler.Handler
	prog *progress
}

func newPipeline() (*pipeline, error) {
	prog := newProgress()
	h, err := handler.New(cfg.Variables, cfg.Strategy, cfg.MakeCuts,
		handler.WithLogger(logging.Component("handler")),
		handler.WithMetrics(met),
		handler.WithObserver(prog),
		handler.WithSnapshotCompression(cfg.Snapshot.Compression),
	)
	if err != nil {
		return nil, err
	}
	return &pipeline{h: h, prog: prog}, nil
}

// load ingests files given as env keys, or as paths when asPaths is set.
func (p *pipeline) load(ctx context.Context, kind storage.SourceKind, files []string, asPaths bool) error {
	if len(files) == 0 {
		return fmt.Errorf("no files to load: pass file keys or set 'files' in %s", cfgPath)
	}
	p.prog.start(len(files), "loading "+kind.String())
	defer p.prog.finish()

	if asPaths {
		return p.h.LoadFiles(ctx, kind, files...)
	}
	return p.h.Load(ctx, kind, files...)
}

// transforms builds the configured pipeline through the catalogue.
func transforms() ([]transform.Transform, error) {
	cat := transform.NewCatalogue()
	out := make([]transform.Transform, 0, len(cfg.Transforms))
	for i, tc := range cfg.Transforms {
		t, err := cat.Build(tc.Name, tc.Params)
		if err != nil {
			return nil, fmt.Errorf("transforms[%d]: %w", i, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// snapshotPath places bare names in the configured snapshot directory.
func snapshotPath(name string) (string, error) {
	path := name
	if filepath.Base(name) == name && cfg.Snapshot.Dir != "" {
		path = filepath.Join(cfg.Snapshot.Dir, name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create snapshot directory: %w", err)
	}
	return path, nil
}

func (p *pipeline) summary() {
	fmt.Println(boxStyle.Render(p.h.String()))
	kv("Strategy", p.h.Strategy().Name())
	kv("Rows", p.h.RowCount())
	kv("Files", len(p.h.Files()))
	kv("Ledger", p.h.Ledger().Names())
}
