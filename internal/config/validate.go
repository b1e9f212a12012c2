package config

import (
	"fmt"
	"strings"

	oserrors "github.com/xtxerr/oscana/internal/errors"
)

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	v := oserrors.NewValidationErrors()

	if strings.TrimSpace(c.Strategy) == "" {
		v.AddMissing("strategy")
	}

	seen := make(map[string]bool, len(c.Variables))
	for _, name := range c.Variables {
		if seen[name] {
			v.Add(fmt.Errorf("variables: %q: %w", name, oserrors.ErrDuplicateVariable))
		}
		seen[name] = true
	}

	files := make(map[string]bool, len(c.Files))
	for _, f := range c.Files {
		if files[f] {
			v.Add(fmt.Errorf("files: %q: %w", f, oserrors.ErrDuplicateFile))
		}
		files[f] = true
	}

	for i, t := range c.Transforms {
		if t.Name == "" {
			v.AddMissing(fmt.Sprintf("transforms[%d].name", i))
		}
	}

	if err := c.Snapshot.Validate(); err != nil {
		v.Add(err)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		v.AddField("logging.level", fmt.Sprintf("unknown level %q", c.Logging.Level))
	}

	return v.Err()
}

// Validate checks the snapshot configuration.
func (c *SnapshotConfig) Validate() error {
	switch c.Compression {
	case "none", "snappy", "zstd", "lz4", "gzip", "":
		return nil
	default:
		return oserrors.NewInvalidValue("snapshot.compression", c.Compression, "expected none, snappy, zstd, lz4 or gzip")
	}
}
