package storage

import (
	"github.com/xtxerr/oscana/internal/metadata"
	"github.com/xtxerr/oscana/internal/source"
	"github.com/xtxerr/oscana/internal/table"
)

// State is everything a strategy reads and produces for one handler.
type State struct {
	Variables []source.Variable

	// Data is the strategy-specific table.
	Data table.Data

	// Cuts is nil unless the handler asked for a cuts table.
	Cuts *table.Cuts

	// Files holds one entry per ingested file, in ingestion order.
	Files []metadata.File

	// Cache holds the identifiers of every ingested file.
	Cache map[string]struct{}

	Ledger *metadata.Ledger
}

// Cached reports whether a file identifier was already ingested.
func (s State) Cached(id string) bool {
	_, ok := s.Cache[id]
	return ok
}

// Frame materialises the data table.
func (s State) Frame() (*table.Frame, error) {
	if s.Data == nil {
		return table.Empty(source.Keys(s.Variables)...), nil
	}
	return s.Data.Frame()
}

// withFiles returns a copy of s with files appended. The ids and the
// paths of the files are cached, so a file carried inside a snapshot is
// known under its own path. The receiver's slices and map are not modified.
func (s State) withFiles(files []metadata.File, ids []string) State {
	out := s
	out.Files = make([]metadata.File, 0, len(s.Files)+len(files))
	out.Files = append(append(out.Files, s.Files...), files...)

	out.Cache = make(map[string]struct{}, len(s.Cache)+len(ids))
	for k := range s.Cache {
		out.Cache[k] = struct{}{}
	}
	for _, id := range ids {
		out.Cache[id] = struct{}{}
	}
	for _, f := range files {
		if p := f.Path(); p != "" {
			out.Cache[p] = struct{}{}
		}
	}
	return out
}
