// Package metrics records per-run pipeline counters on a private Prometheus
// registry and writes them in the node_exporter textfile format.
//
// A nil *Recorder is valid; every method on it is a no-op.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultNamespace = "cbbrank"

// Option applies a configuration option to the Recorder.
type Option func(*Recorder)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(r *Recorder) {
		if namespace != "" {
			r.namespace = namespace
		}
	}
}

// Recorder holds the counters for one cbbrank invocation.
type Recorder struct {
	namespace string
	registry  *prometheus.Registry

	rows           *prometheus.CounterVec
	dropped        *prometheus.CounterVec
	unresolved     *prometheus.CounterVec
	duplicates     *prometheus.CounterVec
	collisions     *prometheus.CounterVec
	suggestions    *prometheus.CounterVec
	sourceFailures *prometheus.CounterVec
	runDuration    *prometheus.GaugeVec
	lastRun        *prometheus.GaugeVec
}

// New creates a Recorder backed by its own registry.
func New(opts ...Option) *Recorder {
	r := &Recorder{namespace: defaultNamespace, registry: prometheus.NewRegistry()}
	for _, opt := range opts {
		opt(r)
	}

	auto := promauto.With(r.registry)
	r.rows = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "rank_rows_total",
		Help:      "Rank rows kept after parsing, by source",
	}, []string{"source"})
	r.dropped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "rank_rows_dropped_total",
		Help:      "Rank rows dropped for a missing team or unparseable rank, by source",
	}, []string{"source"})
	r.unresolved = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "names_unresolved_total",
		Help:      "Raw team names that matched no alias or canonical name, by source",
	}, []string{"source"})
	r.duplicates = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "rank_duplicates_total",
		Help:      "Rank rows that resolved to an already ranked team, by source",
	}, []string{"source"})
	r.collisions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "name_collisions_total",
		Help:      "Distinct raw names sharing a normalized key, by source",
	}, []string{"source"})
	r.suggestions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "alias_suggestions_total",
		Help:      "Alias suggestions produced, by review status",
	}, []string{"status"})
	r.sourceFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.namespace,
		Name:      "source_failures_total",
		Help:      "Sources skipped because their table could not be read, by source",
	}, []string{"source"})
	r.runDuration = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of the last run, by mode",
	}, []string{"mode"})
	r.lastRun = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run finished, by mode",
	}, []string{"mode"})
	return r
}

// Registry exposes the underlying registry for tests and custom exporters.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// SourceRows records kept and dropped row counts for source.
func (r *Recorder) SourceRows(source string, kept, dropped int) {
	if r == nil {
		return
	}
	r.rows.WithLabelValues(source).Add(float64(kept))
	r.dropped.WithLabelValues(source).Add(float64(dropped))
}

// Unresolved records raw names that fell through every resolution tier.
func (r *Recorder) Unresolved(source string, count int) {
	if r == nil {
		return
	}
	r.unresolved.WithLabelValues(source).Add(float64(count))
}

// Duplicates records rows dropped by the dedupe policy.
func (r *Recorder) Duplicates(source string, count int) {
	if r == nil {
		return
	}
	r.duplicates.WithLabelValues(source).Add(float64(count))
}

// Collisions records normalized-key collisions found in source.
func (r *Recorder) Collisions(source string, count int) {
	if r == nil {
		return
	}
	r.collisions.WithLabelValues(source).Add(float64(count))
}

// Suggestions records suggestions produced with status.
func (r *Recorder) Suggestions(status string, count int) {
	if r == nil {
		return
	}
	r.suggestions.WithLabelValues(status).Add(float64(count))
}

// SourceFailed records a source whose table could not be used.
func (r *Recorder) SourceFailed(source string) {
	if r == nil {
		return
	}
	r.sourceFailures.WithLabelValues(source).Inc()
}

// RunFinished records the duration and completion time of a run.
func (r *Recorder) RunFinished(mode string, started, finished time.Time) {
	if r == nil {
		return
	}
	r.runDuration.WithLabelValues(mode).Set(finished.Sub(started).Seconds())
	r.lastRun.WithLabelValues(mode).Set(float64(finished.Unix()))
}

// WriteTextfile atomically writes every recorded metric to path. An empty
// path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
