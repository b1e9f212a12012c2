// Package config provides configuration defaults for oscana.
//
// This package defines all configurable constants with documented defaults.
// Users can override these values via oscana.yaml or environment variables.
package config

// =============================================================================
// Handler Defaults
// =============================================================================

const (
	// DefaultStrategy is the storage strategy used when none is configured.
	// Override via config: strategy
	DefaultStrategy = "FrameIO"

	// DefaultMakeCuts controls whether a cuts boolean table is allocated.
	// When false, cuts remove rows instead of recording a mask.
	// Override via config: make_cuts
	DefaultMakeCuts = false
)

// =============================================================================
// Environment Defaults
// =============================================================================

const (
	// DefaultEnvFile is the .env file loaded at startup. File keys passed to
	// ingestion are looked up in the environment it populates.
	// Override via config: env_file or the --env flag
	DefaultEnvFile = ".env"

	// DefaultConfigFile is the YAML config read by the CLI.
	// A missing file falls back to these defaults.
	DefaultConfigFile = "oscana.yaml"
)

// =============================================================================
// Snapshot Defaults
// =============================================================================

const (
	// DefaultSnapshotCompression is the Parquet codec for exported snapshots.
	// One of: none, snappy, zstd, lz4, gzip.
	// Override via config: snapshot.compression
	DefaultSnapshotCompression = "zstd"

	// DefaultSnapshotDir is where exports go when only a name is given.
	// Override via config: snapshot.dir
	DefaultSnapshotDir = "snapshots"
)

// =============================================================================
// Query Defaults
// =============================================================================

const (
	// DefaultQueryMemoryLimit caps DuckDB memory for snapshot queries.
	// Override via config: query.memory_limit
	DefaultQueryMemoryLimit = "1GB"
)

// =============================================================================
// Statistics Defaults
// =============================================================================

const (
	// DefaultSketchAccuracy is the DDSketch relative accuracy used for
	// column quantiles (0.01 = 1% error).
	DefaultSketchAccuracy = 0.01

	// DefaultSummaryWorkers bounds concurrent column summaries.
	DefaultSummaryWorkers = 4
)

// =============================================================================
// Metrics Defaults
// =============================================================================

const (
	// DefaultMetricsNamespace prefixes every exported metric name.
	DefaultMetricsNamespace = "oscana"
)
