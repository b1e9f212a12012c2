package envfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xtxerr/oscana/internal/errors"
)

func TestWSLPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"D://data/run.root", "/mnt/d/data/run.root"},
		{`C:\\Users\ana\file.root`, "/mnt/c/Users/ana/file.root"},
		{"c:/tmp/x", "/mnt/c/tmp/x"},
		{"/home/ana/file.root", "/home/ana/file.root"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		if got := WSLPath(tt.in); got != tt.want {
			t.Errorf("WSLPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "n13011001_0000_L010185N_D04_r1.sntp.dogwood1.0.parquet")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	r := MapResolver(map[string]string{
		"DAIKON_R1": file,
		"MISSING":   filepath.Join(dir, "nope.parquet"),
	})

	got, err := r.Resolve("DAIKON_R1")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != file {
		t.Errorf("Resolve = %q, want %q", got, file)
	}

	if _, err := r.Resolve("NOT_SET"); !errors.Is(err, errors.ErrEnvKeyNotFound) {
		t.Errorf("absent key: got %v, want ErrEnvKeyNotFound", err)
	}

	if _, err := r.Resolve("MISSING"); !errors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("missing file: got %v, want ErrFileNotFound", err)
	}
}

func TestResolveAppliesWSLRewriteOnLinux(t *testing.T) {
	var statted string
	r := &Resolver{
		Lookup: func(string) (string, bool) { return "E://mc/daikon.parquet", true },
		Stat: func(p string) (os.FileInfo, error) {
			statted = p
			return nil, nil
		},
		GOOS: "linux",
	}

	if _, err := r.Resolve("K"); err != nil {
		t.Fatal(err)
	}
	if statted != "/mnt/e/mc/daikon.parquet" {
		t.Errorf("stat path = %q", statted)
	}

	r.GOOS = "windows"
	if _, err := r.Resolve("K"); err != nil {
		t.Fatal(err)
	}
	if statted == "/mnt/e/mc/daikon.parquet" {
		t.Error("rewrite must only apply on linux")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	if err := os.WriteFile(env, []byte("OSCANA_ENVFILE_TEST=/data/a.parquet\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OSCANA_ENVFILE_TEST", "")
	os.Unsetenv("OSCANA_ENVFILE_TEST")

	if err := Load(false, env); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := os.Getenv("OSCANA_ENVFILE_TEST"); got != "/data/a.parquet" {
		t.Errorf("env = %q", got)
	}

	if err := Load(true, filepath.Join(dir, "absent.env")); err != nil {
		t.Errorf("optional missing file should not fail: %v", err)
	}
	if err := Load(false, filepath.Join(dir, "absent.env")); !errors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("required missing file: got %v", err)
	}
}
