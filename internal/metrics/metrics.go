// Package metrics exposes pipeline counters on a private Prometheus
// registry. A Metrics value is safe for concurrent use.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	defaults "github.com/xtxerr/oscana/config"
)

// Metrics holds the pipeline collectors.
type Metrics struct {
	reg *prometheus.Registry

	filesIngested  *prometheus.CounterVec
	filesSkipped   *prometheus.CounterVec
	ingestFailures *prometheus.CounterVec
	rowsIngested   *prometheus.CounterVec

	transformsApplied *prometheus.CounterVec
	transformsFailed  *prometheus.CounterVec

	loadDuration *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry. An empty namespace
// uses the default.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = defaults.DefaultMetricsNamespace
	}
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		filesIngested: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_ingested_total",
			Help:      "Files merged into a handler table.",
		}, []string{"strategy"}),
		filesSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_skipped_total",
			Help:      "Files skipped because they were already ingested.",
		}, []string{"strategy"}),
		ingestFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingest_failures_total",
			Help:      "Files that failed to read or were incompatible.",
		}, []string{"strategy"}),
		rowsIngested: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_ingested_total",
			Help:      "Records merged into a handler table.",
		}, []string{"strategy"}),
		transformsApplied: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transforms_applied_total",
			Help:      "Transforms applied successfully.",
		}, []string{"transform"}),
		transformsFailed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transforms_failed_total",
			Help:      "Transforms that returned an error.",
		}, []string{"transform"}),
		loadDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Duration of handler load calls.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
		}, []string{"strategy", "kind"}),
	}
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// FileIngested implements storage.Observer.
func (m *Metrics) FileIngested(strategy, _ string, rows int) {
	m.filesIngested.WithLabelValues(strategy).Inc()
	m.rowsIngested.WithLabelValues(strategy).Add(float64(rows))
}

// FileSkipped implements storage.Observer.
func (m *Metrics) FileSkipped(strategy, _ string) {
	m.filesSkipped.WithLabelValues(strategy).Inc()
}

// FileFailed implements storage.Observer.
func (m *Metrics) FileFailed(strategy, _ string, _ error) {
	m.ingestFailures.WithLabelValues(strategy).Inc()
}

// TransformApplied counts a successful transform.
func (m *Metrics) TransformApplied(name string) {
	m.transformsApplied.WithLabelValues(name).Inc()
}

// TransformFailed counts a failed transform.
func (m *Metrics) TransformFailed(name string) {
	m.transformsFailed.WithLabelValues(name).Inc()
}

// ObserveLoad records the duration of one load call.
func (m *Metrics) ObserveLoad(strategy, kind string, d time.Duration) {
	m.loadDuration.WithLabelValues(strategy, kind).Observe(d.Seconds())
}

// WriteTextfile dumps the registry in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}
