// Package config loads the oscana YAML configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	defaults "github.com/xtxerr/oscana/config"
)

// Config represents the complete application configuration.
type Config struct {
	// EnvFile is the .env file holding file keys.
	EnvFile string `yaml:"env_file"`

	// Strategy is the registered storage strategy name.
	Strategy string `yaml:"strategy"`

	// Variables are the fully-qualified record variables to load,
	// each of the form <branch>/<field.path>.
	Variables []string `yaml:"variables"`

	// MakeCuts allocates a cuts boolean table instead of removing rows.
	MakeCuts bool `yaml:"make_cuts"`

	// Files are environment keys resolved to ntuple paths.
	Files []string `yaml:"files"`

	// Transforms is the ordered transform pipeline.
	Transforms []TransformConfig `yaml:"transforms"`

	// Snapshot configures exported snapshots.
	Snapshot SnapshotConfig `yaml:"snapshot"`

	// Query configures the snapshot query service.
	Query QueryConfig `yaml:"query"`

	// Logging configures the global logger.
	Logging LoggingConfig `yaml:"logging"`
}

// TransformConfig names one catalogue transform and its parameters.
type TransformConfig struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

// SnapshotConfig configures exported snapshots.
type SnapshotConfig struct {
	// Dir is the output directory for relative snapshot names.
	Dir string `yaml:"dir"`

	// Compression is one of: none, snappy, zstd, lz4, gzip.
	Compression string `yaml:"compression"`
}

// QueryConfig configures the query service.
type QueryConfig struct {
	// MemoryLimit is the DuckDB memory limit.
	MemoryLimit string `yaml:"memory_limit"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	// Level is one of: debug, info, warn, error.
	Level string `yaml:"level"`

	// JSON switches to JSON output.
	JSON bool `yaml:"json"`
}

// Load loads configuration from a YAML file. Environment references in
// paths are expanded after parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse parses configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	config.EnvFile = os.ExpandEnv(config.EnvFile)
	config.Snapshot.Dir = os.ExpandEnv(config.Snapshot.Dir)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		EnvFile:  defaults.DefaultEnvFile,
		Strategy: defaults.DefaultStrategy,
		MakeCuts: defaults.DefaultMakeCuts,
		Snapshot: SnapshotConfig{
			Dir:         defaults.DefaultSnapshotDir,
			Compression: defaults.DefaultSnapshotCompression,
		},
		Query: QueryConfig{
			MemoryLimit: defaults.DefaultQueryMemoryLimit,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
