package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xtxerr/oscana/internal/errors"
	"github.com/xtxerr/oscana/internal/metadata"
	"github.com/xtxerr/oscana/internal/table"
)

const fileName = "n13011001_0000_L010185N_D04_r1.sntp.dogwood1.0.root"

func testSnapshot(t *testing.T) Snapshot {
	t.Helper()

	frame, err := table.NewFrame(
		table.Scalar("evt.energy", 1.5, 2.5, 3.5),
		table.Jagged("stp.plane", []float64{1, 2}, []float64{}, []float64{485}),
	)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	cuts, err := table.NewCuts(3).With("valid_plane", []bool{true, false, true})
	if err != nil {
		t.Fatalf("With: %v", err)
	}

	file, err := metadata.Build(fileName, "/data/"+fileName, metadata.Summary{
		Runs:    []int64{1001, 1001, 1001},
		Times:   []int64{1700000000, 1700000002},
		Entries: 3,
	}, time.Unix(1700000100, 0).UTC())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ledger := metadata.NewLedger()
	ledger.Add(metadata.Entry{Name: "valid_plane", Kind: metadata.KindCut, RowsBefore: 3, RowsAfter: 3})

	return Snapshot{
		Strategy: "FrameIO",
		Data:     frame,
		Cuts:     cuts,
		Files:    []metadata.File{file},
		Ledger:   ledger,
	}
}

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "snap.parquet")

	snap := testSnapshot(t)
	n, err := Write(path, snap, DefaultOptions())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	// 3 scalar + 3 jagged + 3 cut cells
	if n != 9 {
		t.Errorf("wrote %d cells, want 9", n)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if got.ID == "" {
		t.Error("snapshot ID should be generated")
	}
	if got.Strategy != "FrameIO" {
		t.Errorf("Strategy = %q", got.Strategy)
	}
	if got.Data.Len() != 3 {
		t.Fatalf("rows = %d, want 3", got.Data.Len())
	}

	energy, err := got.Data.Column("evt.energy")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if energy.Jagged() || energy.Values[2] != 3.5 {
		t.Errorf("evt.energy = %+v", energy)
	}

	plane, err := got.Data.Column("stp.plane")
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if !plane.Jagged() || len(plane.Lists[0]) != 2 || len(plane.Lists[1]) != 0 || plane.Lists[2][0] != 485 {
		t.Errorf("stp.plane = %+v", plane.Lists)
	}

	mask, ok := got.Cuts.Mask("valid_plane")
	if !ok || mask[0] != true || mask[1] != false || mask[2] != true {
		t.Errorf("valid_plane mask = %v", mask)
	}

	if len(got.Files) != 1 || !got.Files[0].Compatible(snap.Files[0]) {
		t.Errorf("files not restored: %v", got.Files)
	}
	if !got.Ledger.StrictEqual(snap.Ledger) {
		t.Errorf("ledger not restored:\n%s", got.Ledger)
	}
}

func TestWriteWithoutCuts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.parquet")

	snap := testSnapshot(t)
	snap.Cuts = nil

	opts := DefaultOptions()
	opts.Compression = CompressionSnappy
	opts.RowGroupSize = 2
	if _, err := Write(path, snap, opts); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Cuts != nil {
		t.Error("cuts table should stay disabled")
	}
	if got.Data.Len() != 3 {
		t.Errorf("rows = %d, want 3", got.Data.Len())
	}
}

func TestWriteEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet")

	snap := Snapshot{Data: table.Empty("evt.energy", "stp.plane")}
	if _, err := Write(path, snap, DefaultOptions()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Data.Len() != 0 {
		t.Errorf("rows = %d, want 0", got.Data.Len())
	}
	names := got.Data.Names()
	if len(names) != 2 || names[0] != "evt.energy" || names[1] != "stp.plane" {
		t.Errorf("names = %v", names)
	}
	if got.Ledger.Len() != 0 {
		t.Errorf("ledger should be empty, has %d entries", got.Ledger.Len())
	}
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.parquet"))
	if !errors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("got %v, want ErrFileNotFound", err)
	}
}

func TestInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.parquet")
	if _, err := Write(path, testSnapshot(t), DefaultOptions()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}

	stat, _ := os.Stat(path)
	if info.Size != stat.Size() {
		t.Errorf("Size = %d, want %d", info.Size, stat.Size())
	}
	if info.NumRows != 9 {
		t.Errorf("NumRows = %d, want 9", info.NumRows)
	}
	if info.Metadata[KeyStrategy] != "FrameIO" {
		t.Errorf("strategy metadata = %q", info.Metadata[KeyStrategy])
	}
}

func TestParseCompressionType(t *testing.T) {
	tests := []struct {
		in   string
		want CompressionType
	}{
		{"snappy", CompressionSnappy},
		{"zstd", CompressionZstd},
		{"lz4", CompressionLZ4},
		{"gzip", CompressionGzip},
		{"none", CompressionNone},
		{"", CompressionNone},
		{"brotli", CompressionZstd},
	}
	for _, tt := range tests {
		if got := ParseCompressionType(tt.in); got != tt.want {
			t.Errorf("ParseCompressionType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
