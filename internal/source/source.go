package source

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/xtxerr/oscana/internal/errors"
	"github.com/xtxerr/oscana/internal/metadata"
	"github.com/xtxerr/oscana/internal/table"
)

// RecordSource extracts the requested variables from one file, together
// with the file's metadata. Missing branches and variables fail with
// ErrBranchNotFound and ErrVariableNotFound.
type RecordSource interface {
	Read(ctx context.Context, vars []Variable, path string) (*table.Frame, metadata.File, error)
}

// Clock returns the metadata creation time.
type Clock func() time.Time

// MemorySource serves frames keyed by path. Frames hold full variable
// paths as column names, like an ntuple file.
type MemorySource struct {
	mu    sync.Mutex
	files map[string]*table.Frame
	reads map[string]int
	clock Clock
}

// NewMemorySource returns an empty in-memory source.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		files: make(map[string]*table.Frame),
		reads: make(map[string]int),
		clock: time.Now,
	}
}

// Put registers a file.
func (m *MemorySource) Put(path string, f *table.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = f
}

// Reads returns how often path was read.
func (m *MemorySource) Reads(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[path]
}

// Read implements RecordSource.
func (m *MemorySource) Read(ctx context.Context, vars []Variable, path string) (*table.Frame, metadata.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, metadata.File{}, err
	}

	m.mu.Lock()
	raw, ok := m.files[path]
	m.reads[path]++
	m.mu.Unlock()
	if !ok {
		return nil, metadata.File{}, fmt.Errorf("%s: %w", path, errors.ErrFileNotFound)
	}

	return extract(raw, raw.Len(), branchesOf(raw.Names()), vars, path, m.clock)
}

func branchesOf(names []string) map[string]bool {
	branches := make(map[string]bool)
	for _, n := range names {
		if v, err := ParseVariable(n); err == nil {
			branches[v.Branch] = true
		}
	}
	return branches
}

// extract selects vars from a frame keyed by full paths and builds the
// file metadata from its summary columns.
func extract(raw *table.Frame, entries int, branches map[string]bool, vars []Variable, path string, clock Clock) (*table.Frame, metadata.File, error) {
	cols := make([]table.Column, 0, len(vars))
	for _, v := range vars {
		if !branches[v.Branch] {
			return nil, metadata.File{}, fmt.Errorf("'%s' in %s: %w", v.Branch, filepath.Base(path), errors.ErrBranchNotFound)
		}
		c, err := raw.Column(v.Path)
		if err != nil {
			return nil, metadata.File{}, fmt.Errorf("'%s' in %s: %w", v.Path, filepath.Base(path), errors.ErrVariableNotFound)
		}
		c.Name = v.Key
		cols = append(cols, c)
	}

	frame, err := table.NewFrame(cols...)
	if err != nil {
		return nil, metadata.File{}, err
	}

	summary := metadata.Summary{Entries: entries}
	if c, err := raw.Column(RunVariable); err == nil && !c.Jagged() {
		summary.Runs = toInt64(c.Values)
	}
	if c, err := raw.Column(UTCVariable); err == nil && !c.Jagged() {
		summary.Times = toInt64(c.Values)
	}

	md, err := metadata.Build(filepath.Base(path), path, summary, clock())
	if err != nil {
		return nil, metadata.File{}, err
	}
	return frame, md, nil
}

func toInt64(vs []float64) []int64 {
	out := make([]int64, len(vs))
	for i, v := range vs {
		out[i] = int64(v)
	}
	return out
}
