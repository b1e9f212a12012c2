// Package storage defines the pluggable storage strategy contract of the
// analysis pipeline.
//
// Architecture:
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Handler   │────▶│  Strategy   │────▶│   Record    │
//	│   (State)   │◀────│  (Loader)   │     │   Source    │
//	└─────────────┘     └─────────────┘     └─────────────┘
//	                           │
//	                           ▼
//	                    ┌─────────────┐
//	                    │  Snapshot   │
//	                    │  (Parquet)  │
//	                    └─────────────┘
//
// A Strategy never references its handler. Every call receives the current
// State and returns the next one; the handler decides whether to keep it.
//
// The package provides:
//   - State, the value passed between handler and strategy
//   - Ingest, the fail-soft ingestion routine shared by every strategy
//   - Registry and Plugin, the explicit strategy discovery mechanism
//   - Versioned, a release-dated implementation list with latest-wins lookup
//
// Strategies live under plugins/.
package storage
