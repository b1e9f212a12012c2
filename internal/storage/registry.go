package storage

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/xtxerr/oscana/internal/errors"
	"github.com/xtxerr/oscana/internal/validation"
)

// Export is one strategy a plugin makes available.
type Export struct {
	Name    string
	Factory Factory
}

// Plugin is a module that exports strategies.
type Plugin interface {
	Name() string
	Exports() []Export
}

// Registry maps strategy names to factories. Build one at startup and pass
// it to whatever constructs handlers.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	origin    map[string]string
	logger    *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		origin:    make(map[string]string),
		logger:    slog.Default(),
	}
}

// SetLogger sets the logger used to report discovery decisions.
func (r *Registry) SetLogger(l *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = l
}

// Register adds a factory. The first registration of a name wins; a later
// one fails with ErrInvalidConfig.
func (r *Registry) Register(name string, f Factory) error {
	return r.register(name, "", f)
}

func (r *Registry) register(name, plugin string, f Factory) error {
	if name == "" || f == nil {
		return errors.NewValidation("strategy export", "name and factory are required")
	}
	if err := validation.ValidateEntityName(name); err != nil {
		return fmt.Errorf("strategy '%s': %v: %w", name, err, errors.ErrInvalidConfig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.origin[name]; ok {
		return fmt.Errorf("strategy '%s' already registered by '%s': %w", name, prev, errors.ErrInvalidConfig)
	}
	r.factories[name] = f
	r.origin[name] = plugin
	return nil
}

// Discover registers the exports of each plugin in order. A plugin with an
// empty export list is skipped; an export whose name is already taken is
// ignored so the earliest plugin keeps it.
func (r *Registry) Discover(plugins ...Plugin) int {
	added := 0
	for _, p := range plugins {
		exports := p.Exports()
		if len(exports) == 0 {
			r.log().Debug("plugin exports no strategies", "plugin", p.Name())
			continue
		}
		for _, e := range exports {
			if err := r.register(e.Name, p.Name(), e.Factory); err != nil {
				r.log().Debug("strategy export ignored", "plugin", p.Name(), "strategy", e.Name, "error", err)
				continue
			}
			r.log().Debug("strategy registered", "plugin", p.Name(), "strategy", e.Name)
			added++
		}
	}
	return added
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NewStrategyNotFound(name, r.Names())
	}
	return f, nil
}

// New builds the strategy registered under name.
func (r *Registry) New(name string, opts Options) (Strategy, error) {
	f, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	s, err := f(opts.Normalize())
	if err != nil {
		return nil, fmt.Errorf("build strategy '%s': %w", name, err)
	}
	return s, nil
}

// Names returns the registered strategy names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Origin returns the plugin that registered name.
func (r *Registry) Origin(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.origin[name]
	return p, ok
}

func (r *Registry) log() *slog.Logger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.logger
}
