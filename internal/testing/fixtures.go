// Package testing provides fixtures and helpers shared by oscana tests.
package testing

import (
	"path/filepath"
	"testing"

	"github.com/xtxerr/oscana/internal/source"
	"github.com/xtxerr/oscana/internal/table"
)

// StartUTC is the first event time of synthesized files.
const StartUTC = 1262304000 // 2010-01-01

// DataDir is the directory synthetic in-memory files pretend to live in.
const DataDir = "/data/minos"

// Variables parses variable paths or fails the test.
func Variables(t testing.TB, paths ...string) []source.Variable {
	t.Helper()
	vars, err := source.ParseVariables(paths)
	if err != nil {
		t.Fatalf("ParseVariables(%v): %v", paths, err)
	}
	return vars
}

// Synth synthesizes a file for run with rows records.
func Synth(t testing.TB, run int64, rows int) *table.Frame {
	t.Helper()
	f, err := source.Synthesize(source.SynthOptions{
		Rows:     rows,
		Run:      run,
		StartUTC: StartUTC + run*3600,
		Seed:     uint64(run),
	})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	return f
}

// Path returns the in-memory path of the file for run.
func Path(run int64) string {
	return filepath.Join(DataDir, source.DaikonName(run, "root"))
}

// Source returns a memory source holding one synthesized file of rows
// records per run, and the file paths in run order.
func Source(t testing.TB, rows int, runs ...int64) (*source.MemorySource, []string) {
	t.Helper()
	src := source.NewMemorySource()
	paths := make([]string, len(runs))
	for i, run := range runs {
		paths[i] = Path(run)
		src.Put(paths[i], Synth(t, run, rows))
	}
	return src, paths
}

// WriteNtuples writes one synthesized Parquet ntuple per run into dir and
// returns their paths.
func WriteNtuples(t testing.TB, dir string, rows int, runs ...int64) []string {
	t.Helper()
	paths := make([]string, len(runs))
	for i, run := range runs {
		paths[i] = filepath.Join(dir, source.DaikonName(run, "parquet"))
		if err := source.WriteNtuple(paths[i], Synth(t, run, rows)); err != nil {
			t.Fatalf("WriteNtuple: %v", err)
		}
	}
	return paths
}
