// Package handler provides the data handler, the long-lived owner of a
// dataset.
//
// A Handler owns the requested variables, the storage strategy, the
// transform ledger and the per-file metadata. Table operations are
// delegated to the strategy: the handler passes its state in and keeps the
// state the strategy returns.
//
// Handler is safe for concurrent use; public calls are serialised.
package handler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xtxerr/oscana/internal/envfile"
	"github.com/xtxerr/oscana/internal/logging"
	"github.com/xtxerr/oscana/internal/metadata"
	"github.com/xtxerr/oscana/internal/metrics"
	"github.com/xtxerr/oscana/internal/source"
	"github.com/xtxerr/oscana/internal/storage"
	"github.com/xtxerr/oscana/internal/storage/aggregate"
	"github.com/xtxerr/oscana/internal/storage/plugins"
	"github.com/xtxerr/oscana/internal/table"
)

// =============================================================================
// Options
// =============================================================================

type options struct {
	registry    *storage.Registry
	source      source.RecordSource
	logger      *slog.Logger
	metrics     *metrics.Metrics
	observer    storage.Observer
	resolver    *envfile.Resolver
	compression string
	loader      string
}

// Option configures a Handler.
type Option func(*options)

// WithRegistry selects the strategy registry. Defaults to the built-in
// plugins.
func WithRegistry(r *storage.Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithSource replaces the record source. Defaults to the ntuple reader.
func WithSource(s source.RecordSource) Option {
	return func(o *options) { o.source = s }
}

// WithLogger sets the logger diagnostics are written to.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics records ingestion and transform counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithObserver adds a per-file ingestion observer.
func WithObserver(ob storage.Observer) Option {
	return func(o *options) { o.observer = ob }
}

// WithResolver sets the file key resolver used by Load.
func WithResolver(r *envfile.Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithSnapshotCompression sets the codec used by Export.
func WithSnapshotCompression(codec string) Option {
	return func(o *options) { o.compression = codec }
}

// WithLoaderVersion pins the SNTP loader by release date or label.
func WithLoaderVersion(v string) Option {
	return func(o *options) { o.loader = v }
}

// =============================================================================
// Handler
// =============================================================================

// Handler is the data handler.
type Handler struct {
	mu sync.Mutex

	id       string
	strategy storage.Strategy
	makeCuts bool
	state    storage.State

	resolver *envfile.Resolver
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// New creates a handler for vars backed by the named strategy. When
// makeCuts is set, cuts record a boolean mask instead of removing rows.
//
// Duplicate variables fail with ErrDuplicateVariable and an unknown
// strategy with ErrStrategyNotFound.
func New(vars []string, strategy string, makeCuts bool, opts ...Option) (*Handler, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Component("handler")
	}
	if o.registry == nil {
		o.registry = plugins.NewRegistry(o.logger)
	}
	if o.resolver == nil {
		o.resolver = envfile.NewResolver()
	}

	variables, err := source.ParseVariables(vars)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	log := o.logger.With("handler_id", id)

	var observers storage.Observers
	if o.metrics != nil {
		observers = append(observers, o.metrics)
	}
	if o.observer != nil {
		observers = append(observers, o.observer)
	}

	sopts := storage.Options{
		Source:              o.source,
		Logger:              o.logger,
		SnapshotCompression: o.compression,
		LoaderVersion:       o.loader,
	}
	if len(observers) > 0 {
		sopts.Observer = observers
	}

	s, err := o.registry.New(strategy, sopts)
	if err != nil {
		return nil, err
	}

	h := &Handler{
		id:       id,
		strategy: s,
		makeCuts: makeCuts,
		resolver: o.resolver,
		metrics:  o.metrics,
		log:      log,
		state: storage.State{
			Variables: variables,
			Data:      s.InitDataTable(variables),
			Cache:     make(map[string]struct{}),
			Ledger:    metadata.NewLedger(),
		},
	}
	if makeCuts {
		h.state.Cuts = s.InitCutsTable()
	}

	log.Debug("handler created",
		"strategy", s.Name(),
		"variables", len(variables),
		"make_cuts", makeCuts)

	return h, nil
}

// ID returns the handler's unique identifier.
func (h *Handler) ID() string { return h.id }

// Strategy returns the active storage strategy.
func (h *Handler) Strategy() storage.Strategy { return h.strategy }

// =============================================================================
// Ingestion
// =============================================================================

// Load resolves file keys through the env resolver and ingests the files.
// Resolution errors are returned before anything is read.
func (h *Handler) Load(ctx context.Context, kind storage.SourceKind, keys ...string) error {
	paths, err := h.resolver.ResolveAll(keys)
	if err != nil {
		return err
	}
	return h.LoadFiles(ctx, kind, paths...)
}

// LoadFiles ingests files by path. Files already ingested are skipped.
// The batch is all-or-nothing: on error the handler state is unchanged.
func (h *Handler) LoadFiles(ctx context.Context, kind storage.SourceKind, paths ...string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx = logging.ContextWithHandlerID(ctx, h.id)

	start := time.Now()
	next, err := h.strategy.Load(ctx, kind, h.state, paths)
	if h.metrics != nil {
		h.metrics.ObserveLoad(h.strategy.Name(), kind.String(), time.Since(start))
	}
	if err != nil {
		return err
	}
	h.state = next
	return nil
}

// =============================================================================
// Accessors
// =============================================================================

// RowCount returns the number of rows in the data table.
func (h *Handler) RowCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.strategy.DataLength(h.state)
}

// Variables returns the requested variables.
func (h *Handler) Variables() []source.Variable {
	return append([]source.Variable(nil), h.state.Variables...)
}

// Files returns the metadata of every ingested file in ingestion order.
func (h *Handler) Files() []metadata.File {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]metadata.File(nil), h.state.Files...)
}

// Ledger returns a copy of the transform ledger. Entries are recorded only
// by ApplyTransforms and Apply.
func (h *Handler) Ledger() *metadata.Ledger {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.Ledger.Clone()
}

// Data returns the data table in the strategy's representation.
func (h *Handler) Data() table.Data {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.Data
}

// Frame materialises the data table.
func (h *Handler) Frame() (*table.Frame, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.Frame()
}

// Cuts returns the cuts table, or nil when the handler has none.
func (h *Handler) Cuts() *table.Cuts {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.Cuts
}

// HasCutsTable reports whether cuts are recorded as masks.
func (h *Handler) HasCutsTable() bool { return h.makeCuts }

// =============================================================================
// Summaries and export
// =============================================================================

// Describe returns per-column summary statistics.
func (h *Handler) Describe(ctx context.Context) ([]aggregate.ColumnSummary, error) {
	f, err := h.Frame()
	if err != nil {
		return nil, err
	}
	return aggregate.SummariseContext(ctx, f, aggregate.DefaultOptions())
}

// Export writes the handler state to a snapshot at path.
func (h *Handler) Export(ctx context.Context, path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.strategy.Export(ctx, h.state, path)
}
