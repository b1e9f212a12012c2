package source

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xtxerr/oscana/internal/errors"
	"github.com/xtxerr/oscana/internal/metadata"
	"github.com/xtxerr/oscana/internal/table"
)

func TestParseVariables(t *testing.T) {
	vars, err := ParseVariables([]string{PlaneVariable, ChargeVariable})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(Keys(vars), []string{"stp.plane", "evt.ph.sigcor"}) {
		t.Errorf("Keys = %v", Keys(vars))
	}
	if vars[0].Branch != BranchNtpSt {
		t.Errorf("Branch = %q", vars[0].Branch)
	}

	if _, err := ParseVariables([]string{PlaneVariable, PlaneVariable}); !errors.Is(err, errors.ErrDuplicateVariable) {
		t.Errorf("duplicate path: got %v", err)
	}
	if _, err := ParseVariables([]string{"NtpSt/x.y", "NtpBDLite/x.y"}); !errors.Is(err, errors.ErrDuplicateVariable) {
		t.Errorf("shared key: got %v", err)
	}
	if _, err := ParseVariables([]string{"stp.plane"}); !errors.Is(err, errors.ErrInvalidVariable) {
		t.Errorf("malformed: got %v", err)
	}
}

func synth(t *testing.T, run int64, rows int) *table.Frame {
	t.Helper()
	f, err := Synthesize(SynthOptions{Rows: rows, Run: run, StartUTC: 1_200_000_000, Seed: uint64(run)})
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func checkRead(t *testing.T, src RecordSource, path string) {
	t.Helper()
	vars, _ := ParseVariables([]string{PlaneVariable, ChargeVariable})

	frame, md, err := src.Read(context.Background(), vars, path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if frame.Len() != 5 {
		t.Errorf("rows = %d, want 5", frame.Len())
	}
	if !reflect.DeepEqual(frame.Names(), []string{"stp.plane", "evt.ph.sigcor"}) {
		t.Errorf("columns = %v", frame.Names())
	}
	plane, _ := frame.Column("stp.plane")
	if !plane.Jagged() {
		t.Error("stp.plane should be jagged")
	}
	if md.RunNumber() != 1001 || md.Entries() != 5 || md.RunAmbiguous() {
		t.Errorf("metadata run=%d entries=%d", md.RunNumber(), md.Entries())
	}
	if md.Start().Unix() != 1_200_000_000 || md.End().Unix() != 1_200_000_004 {
		t.Errorf("time range %v..%v", md.Start(), md.End())
	}

	missingBranch, _ := ParseVariables([]string{"NtpFitSA/fit.pass"})
	if _, _, err := src.Read(context.Background(), missingBranch, path); !errors.Is(err, errors.ErrBranchNotFound) {
		t.Errorf("missing branch: got %v", err)
	}
	missingVar, _ := ParseVariables([]string{"NtpSt/evt.nope"})
	_, _, err = src.Read(context.Background(), missingVar, path)
	if !errors.Is(err, errors.ErrVariableNotFound) || errors.Is(err, errors.ErrBranchNotFound) {
		t.Errorf("missing variable: got %v", err)
	}
}

func TestMemorySource(t *testing.T) {
	src := NewMemorySource()
	path := "/mc/" + DaikonName(1001, "parquet")
	src.Put(path, synth(t, 1001, 5))

	checkRead(t, src, path)
	if src.Reads(path) != 3 {
		t.Errorf("Reads = %d", src.Reads(path))
	}

	if _, _, err := src.Read(context.Background(), nil, "/mc/other.parquet"); !errors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("unknown path: got %v", err)
	}
}

func TestNtupleRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DaikonName(1001, "parquet"))
	if err := WriteNtuple(path, synth(t, 1001, 5)); err != nil {
		t.Fatalf("WriteNtuple: %v", err)
	}

	checkRead(t, NewNtupleSource(), path)
}

func TestNtupleSourceErrors(t *testing.T) {
	dir := t.TempDir()
	src := NewNtupleSource()

	if _, _, err := src.Read(context.Background(), nil, filepath.Join(dir, DaikonName(1, "parquet"))); !errors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("missing file: got %v", err)
	}

	bad := filepath.Join(dir, "events.parquet")
	if err := WriteNtuple(bad, synth(t, 1, 2)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := src.Read(context.Background(), nil, bad); !errors.Is(err, errors.ErrUnknownFileName) {
		t.Errorf("unknown name: got %v", err)
	}
}

func TestDaikonNameParses(t *testing.T) {
	f, err := metadata.ParseName(DaikonName(1002, "parquet"))
	if err != nil {
		t.Fatal(err)
	}
	if f.RunNumber() != 1002 || f.Format() != metadata.FormatParquet {
		t.Errorf("run=%d format=%v", f.RunNumber(), f.Format())
	}
}
