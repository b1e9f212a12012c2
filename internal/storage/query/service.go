// Package query runs DuckDB queries over exported Parquet snapshots.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"slices"
	"sync"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/xtxerr/oscana/internal/config"
	"github.com/xtxerr/oscana/internal/errors"
	"github.com/xtxerr/oscana/internal/storage/parquet"
)

// Service provides query capabilities over snapshot files.
// It uses an in-memory DuckDB database that reads snapshots in place.
type Service struct {
	mu sync.RWMutex

	db *sql.DB

	// Statistics
	stats Stats
}

// Stats holds query statistics.
type Stats struct {
	QueriesExecuted int64
	RowsReturned    int64
	Errors          int64
}

// ColumnStats summarises one column of a snapshot. Jagged columns are
// summarised over all their entries; cut masks are not columns.
type ColumnStats struct {
	Column string
	Count  int64
	Min    float64
	Max    float64
	Mean   float64
}

// New creates a new query service.
func New(cfg *config.QueryConfig) (*Service, error) {
	if cfg == nil {
		cfg = &config.DefaultConfig().Query
	}

	// Open in-memory DuckDB database
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	if cfg.MemoryLimit != "" {
		_, err = db.Exec(fmt.Sprintf("SET memory_limit='%s'", cfg.MemoryLimit))
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("set memory limit: %w", err)
		}
	}

	return &Service{db: db}, nil
}

// Close closes the query service.
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Columns lists the data columns stored in a snapshot, sorted by name.
func (s *Service) Columns(ctx context.Context, path string) ([]string, error) {
	if err := exists(path); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT "column"
		FROM read_parquet($1)
		WHERE kind <> $2
		ORDER BY 1
	`, path, parquet.KindCut)
	if err != nil {
		s.stats.Errors++
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		names = append(names, n)
	}

	s.stats.QueriesExecuted++
	s.stats.RowsReturned += int64(len(names))
	return names, rows.Err()
}

// ColumnStats computes count, min, max and mean of one snapshot column.
func (s *Service) ColumnStats(ctx context.Context, path, column string) (ColumnStats, error) {
	names, err := s.Columns(ctx, path)
	if err != nil {
		return ColumnStats{}, err
	}
	if !slices.Contains(names, column) {
		return ColumnStats{}, fmt.Errorf("'%s' in %s: %w", column, path, errors.ErrColumnNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		SELECT count(v), min(v), max(v), avg(v)
		FROM (
			SELECT value AS v
			FROM read_parquet($1)
			WHERE "column" = $2 AND kind = $3
			UNION ALL
			SELECT unnest("values") AS v
			FROM read_parquet($1)
			WHERE "column" = $2 AND kind = $4
		)
	`

	out := ColumnStats{Column: column}
	var lo, hi, mean sql.NullFloat64
	err = s.db.QueryRowContext(ctx, query, path, column, parquet.KindScalar, parquet.KindJagged).
		Scan(&out.Count, &lo, &hi, &mean)
	if err != nil {
		s.stats.Errors++
		return ColumnStats{}, fmt.Errorf("query column stats: %w", err)
	}
	out.Min, out.Max, out.Mean = lo.Float64, hi.Float64, mean.Float64

	s.stats.QueriesExecuted++
	s.stats.RowsReturned++
	return out, nil
}

// Stats returns query statistics.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// ExecuteSQL executes a raw SQL query using DuckDB.
// This is useful for ad-hoc queries and debugging.
func (s *Service) ExecuteSQL(ctx context.Context, query string) ([]map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.stats.Errors++
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]any

	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		results = append(results, row)
	}

	s.stats.QueriesExecuted++
	s.stats.RowsReturned += int64(len(results))

	return results, rows.Err()
}

func exists(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%s: %w", path, errors.ErrFileNotFound)
	}
	return nil
}
