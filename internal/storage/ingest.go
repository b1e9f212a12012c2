package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/xtxerr/oscana/internal/errors"
	"github.com/xtxerr/oscana/internal/logging"
	"github.com/xtxerr/oscana/internal/metadata"
	"github.com/xtxerr/oscana/internal/storage/parquet"
	"github.com/xtxerr/oscana/internal/table"
)

// CompatPolicy selects which earlier files a new file is checked against.
type CompatPolicy int

const (
	// CheckAll compares against every file already in the state and every
	// earlier file of the batch.
	CheckAll CompatPolicy = iota
	// CheckPrevious compares only against the most recent file.
	CheckPrevious
)

// Merger appends the rows of f to data.
type Merger func(data table.Data, f *table.Frame) (table.Data, error)

// IngestConfig parameterises Ingest for one strategy.
type IngestConfig struct {
	Strategy string
	Options  Options
	Policy   CompatPolicy
	Merge    Merger
}

// item is one unit of a batch: a source file or a snapshot.
type item struct {
	frame  *table.Frame
	files  []metadata.File
	cuts   *table.Cuts
	ledger *metadata.Ledger
}

type readFunc func(ctx context.Context, st State, id string) (item, error)

// Ingest reads record files through the configured source and merges them
// into st.
//
// A file listed twice fails the call immediately with ErrDuplicateFile.
// Files already in the cache are skipped. Every other file is attempted;
// read and compatibility failures are logged and collected, and if any
// occurred a BatchError is returned together with the unchanged st.
func Ingest(ctx context.Context, cfg IngestConfig, st State, files []string) (State, error) {
	src := cfg.Options.Normalize().Source
	read := func(ctx context.Context, st State, path string) (item, error) {
		frame, md, err := src.Read(ctx, st.Variables, path)
		if err != nil {
			return item{}, err
		}
		return item{frame: frame, files: []metadata.File{md}}, nil
	}
	return ingest(ctx, cfg, SourceSNTP, st, files, read)
}

// IngestSnapshots merges snapshots written by Export into st. Each snapshot
// is one batch item; its files must be compatible with st and its ledger
// must equal the ledger of st unless st is still empty.
//
// The files a snapshot carries are deduplicated like directly loaded files:
// a snapshot holding only known files is skipped, one holding some known
// files fails with ErrDuplicateFile, and the carried paths are cached.
func IngestSnapshots(ctx context.Context, cfg IngestConfig, st State, paths []string) (State, error) {
	read := func(_ context.Context, _ State, path string) (item, error) {
		snap, err := parquet.Read(path)
		if err != nil {
			return item{}, err
		}
		return item{frame: snap.Data, files: snap.Files, cuts: snap.Cuts, ledger: snap.Ledger}, nil
	}
	return ingest(ctx, cfg, SourceSnapshot, st, paths, read)
}

func ingest(ctx context.Context, cfg IngestConfig, kind SourceKind, st State, ids []string, read readFunc) (State, error) {
	opts := cfg.Options.Normalize()
	log := logging.FromContext(ctx, opts.Logger).With("strategy", cfg.Strategy, "kind", kind.String())

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return st, fmt.Errorf("'%s': %w", id, errors.ErrDuplicateFile)
		}
		seen[id] = struct{}{}
	}

	todo := make([]string, 0, len(ids))
	for _, id := range ids {
		if st.Cached(id) {
			log.Debug("file already ingested, skipping", "file", id)
			opts.Observer.FileSkipped(cfg.Strategy, id)
			continue
		}
		todo = append(todo, id)
	}
	if len(todo) == 0 {
		return st, nil
	}

	if st.Ledger != nil && st.Ledger.Len() > 0 && kind == SourceSNTP {
		log.Warn("ingesting into a table with transforms applied; new rows are unprocessed", "transforms", st.Ledger.Len())
	}

	var (
		accepted []item
		acceptID []string
		failures []errors.ItemError
		refs     = append([]metadata.File(nil), st.Files...)
		ledger   = referenceLedger(st)
		claimed  = make(map[string]struct{})
	)
	fail := func(i int, id string, err error) {
		log.Warn("failed to ingest file", "file", id, "error", err)
		opts.Observer.FileFailed(cfg.Strategy, id, err)
		failures = append(failures, errors.ItemError{Item: id, Index: i, Err: err})
	}

	for i, id := range todo {
		if err := ctx.Err(); err != nil {
			fail(i, id, err)
			continue
		}

		it, err := read(ctx, st, id)
		if err != nil {
			fail(i, id, err)
			continue
		}
		if n := countKnown(it.files, st.Cache, claimed); n > 0 {
			if n == len(it.files) {
				log.Debug("snapshot holds only ingested files, skipping", "file", id)
				opts.Observer.FileSkipped(cfg.Strategy, id)
				continue
			}
			fail(i, id, fmt.Errorf("%d of %d files already ingested: %w", n, len(it.files), errors.ErrDuplicateFile))
			continue
		}
		if err := checkCompatible(it.files, refs, cfg.Policy); err != nil {
			fail(i, id, err)
			continue
		}
		if it.ledger != nil {
			if ledger != nil && !ledger.Equal(it.ledger) {
				fail(i, id, fmt.Errorf("transform provenance %v differs from %v: %w",
					it.ledger.Names(), ledger.Names(), errors.ErrIncompatibleMetadata))
				continue
			}
			if ledger == nil {
				ledger = it.ledger
			}
		}

		refs = append(refs, it.files...)
		for _, f := range it.files {
			claimed[f.Path()] = struct{}{}
		}
		accepted = append(accepted, it)
		acceptID = append(acceptID, id)
	}

	if err := errors.NewBatchError("load "+kind.String(), len(todo), failures); err != nil {
		return st, err
	}

	return commit(cfg, st, accepted, acceptID, ledger, opts)
}

// referenceLedger returns the ledger incoming snapshots must match, or nil
// while st has neither files nor transforms.
func referenceLedger(st State) *metadata.Ledger {
	if st.Ledger == nil {
		return nil
	}
	if st.Ledger.Len() == 0 && len(st.Files) == 0 {
		return nil
	}
	return st.Ledger
}

// countKnown returns how many of files were ingested before, either in the
// cache or earlier in the current batch. Files without a path never match.
func countKnown(files []metadata.File, cache, claimed map[string]struct{}) int {
	n := 0
	for _, f := range files {
		p := f.Path()
		if p == "" {
			continue
		}
		_, inCache := cache[p]
		_, inBatch := claimed[p]
		if inCache || inBatch {
			n++
		}
	}
	return n
}

func checkCompatible(files, refs []metadata.File, policy CompatPolicy) error {
	against := refs
	for _, f := range files {
		if policy == CheckPrevious && len(against) > 1 {
			against = against[len(against)-1:]
		}
		for _, ref := range against {
			if diff := f.Diff(ref); len(diff) > 0 {
				return fmt.Errorf("%s vs %s: %v: %w", f.Name(), ref.Name(), diff, errors.ErrIncompatibleMetadata)
			}
		}
		if policy == CheckPrevious {
			against = []metadata.File{f}
		}
	}
	return nil
}

func commit(cfg IngestConfig, st State, items []item, ids []string, ledger *metadata.Ledger, opts Options) (State, error) {
	var (
		data  = st.Data
		cuts  = st.Cuts
		files []metadata.File
		err   error
	)
	for i, it := range items {
		if data, err = cfg.Merge(data, it.frame); err != nil {
			return st, fmt.Errorf("merge %s: %w", filepath.Base(ids[i]), err)
		}
		if cuts != nil {
			cuts = mergeCuts(cuts, it.cuts, it.frame.Len())
		}
		files = append(files, it.files...)
	}

	next := st.withFiles(files, ids)
	next.Data = data
	next.Cuts = cuts
	if ledger != nil && ledger != st.Ledger {
		next.Ledger = ledger
	}

	for i, it := range items {
		opts.Logger.Info("ingested file", "strategy", cfg.Strategy, "file", filepath.Base(ids[i]), "rows", it.frame.Len())
		opts.Observer.FileIngested(cfg.Strategy, ids[i], it.frame.Len())
	}
	return next, nil
}

// mergeCuts grows dst by n rows. Masks carried by src fill the new rows;
// masks src lacks leave them false.
func mergeCuts(dst, src *table.Cuts, n int) *table.Cuts {
	offset := dst.Len()
	out := dst.Grow(n)
	if src == nil {
		return out
	}
	for _, name := range src.Names() {
		incoming, _ := src.Mask(name)
		mask, ok := out.Mask(name)
		if !ok {
			mask = make([]bool, out.Len())
		}
		copy(mask[offset:], incoming)
		// lengths match by construction
		out, _ = out.With(name, mask)
	}
	return out
}
