// Package parquet implements handler snapshots as Parquet files.
//
// The package provides:
//   - Write/Read for long-format snapshots (one row per cell)
//   - Key/value metadata carrying the file list, the transform ledger and the table schema
//   - Support for multiple compression algorithms (snappy, zstd, lz4, gzip)
//   - Inspect for a cheap look at a snapshot without decoding its cells
package parquet
