// Package plugins lists the built-in storage strategy plugins.
package plugins

import (
	"log/slog"

	"github.com/xtxerr/oscana/internal/storage"
	"github.com/xtxerr/oscana/internal/storage/plugins/arrowio"
	"github.com/xtxerr/oscana/internal/storage/plugins/frameio"
)

// Builtin returns the built-in plugins in discovery order.
func Builtin() []storage.Plugin {
	return []storage.Plugin{
		frameio.Plugin{},
		arrowio.Plugin{},
	}
}

// NewRegistry returns a registry populated from the built-in plugins.
func NewRegistry(logger *slog.Logger) *storage.Registry {
	r := storage.NewRegistry()
	if logger != nil {
		r.SetLogger(logger)
	}
	r.Discover(Builtin()...)
	return r
}
