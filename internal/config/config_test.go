package config

import (
	"os"
	"path/filepath"
	"testing"

	oserrors "github.com/xtxerr/oscana/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Strategy != "FrameIO" {
		t.Errorf("Strategy = %q, want FrameIO", cfg.Strategy)
	}
	if cfg.EnvFile == "" {
		t.Error("expected default env_file")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty strategy")
	}

	cfg = DefaultConfig()
	cfg.Variables = []string{"NtpSt/stp.plane", "NtpSt/stp.plane"}
	err := cfg.Validate()
	if !oserrors.Is(err, oserrors.ErrDuplicateVariable) {
		t.Errorf("expected duplicate variable error, got %v", err)
	}
	if !oserrors.IsConfiguration(err) {
		t.Error("duplicate variable should be a configuration error")
	}

	cfg = DefaultConfig()
	cfg.Files = []string{"DAIKON_R1", "DAIKON_R1"}
	if err := cfg.Validate(); !oserrors.Is(err, oserrors.ErrDuplicateFile) {
		t.Errorf("expected duplicate file error, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.Snapshot.Compression = "brotli"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid compression")
	}

	cfg = DefaultConfig()
	cfg.Transforms = []TransformConfig{{Params: map[string]any{"min": 1}}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unnamed transform")
	}

	cfg = DefaultConfig()
	cfg.Strategy = ""
	cfg.Logging.Level = "loud"
	cfg.Snapshot.Compression = "brotli"
	err = cfg.Validate()
	var verrs *oserrors.ValidationErrors
	if !oserrors.As(err, &verrs) || len(verrs.Errors) != 3 {
		t.Fatalf("expected 3 collected errors, got %v", err)
	}
	if !oserrors.Is(err, oserrors.ErrMissingField) || !oserrors.IsConfiguration(err) {
		t.Errorf("collected errors lost their sentinels: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oscana.yaml")

	t.Setenv("OSCANA_TEST_DIR", dir)

	content := `
env_file: ${OSCANA_TEST_DIR}/.env
strategy: ArrowIO
make_cuts: true
variables:
  - NtpSt/stp.plane
  - NtpSt/evt.ph.sigcor
files:
  - DAIKON_R1
transforms:
  - name: valid_plane
  - name: range_cut
    params:
      column: evt.ph.sigcor
      min: 0
      max: 5000
snapshot:
  compression: snappy
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.EnvFile != filepath.Join(dir, ".env") {
		t.Errorf("EnvFile = %q, env reference not expanded", cfg.EnvFile)
	}
	if cfg.Strategy != "ArrowIO" || !cfg.MakeCuts {
		t.Errorf("unexpected handler settings: %+v", cfg)
	}
	if len(cfg.Variables) != 2 || len(cfg.Transforms) != 2 {
		t.Fatalf("variables=%d transforms=%d", len(cfg.Variables), len(cfg.Transforms))
	}
	if cfg.Transforms[1].Params["column"] != "evt.ph.sigcor" {
		t.Errorf("params not decoded: %v", cfg.Transforms[1].Params)
	}
	// Unset sections keep their defaults.
	if cfg.Query.MemoryLimit != "1GB" {
		t.Errorf("MemoryLimit = %q, want default", cfg.Query.MemoryLimit)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
