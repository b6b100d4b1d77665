// Package metrics exports engine events as Prometheus metrics.
//
// [Hooks] implements every hook interface from pkg/observability. Hosts
// create one, register it with a Prometheus registerer, and install it:
//
//	m, err := metrics.New(prometheus.DefaultRegisterer)
//	if err != nil { ... }
//	m.Install()
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	errs "github.com/matzehuels/ontoforge/pkg/errors"
	"github.com/matzehuels/ontoforge/pkg/observability"
)

const namespace = "ontoforge"

// Hooks records engine events in Prometheus collectors.
type Hooks struct {
	mutations *prometheus.CounterVec // By op and result (applied/noop/error)

	syncs        *prometheus.CounterVec   // By direction, format and status
	syncDuration *prometheus.HistogramVec // By direction

	validations        *prometheus.CounterVec // By status (ok/error/rejected)
	validationIssues   *prometheus.CounterVec // By severity
	validationDuration prometheus.Histogram
	validating         prometheus.Gauge

	imports     *prometheus.CounterVec // By status
	exports     *prometheus.CounterVec // By status
	exportBytes prometheus.Histogram
	ioDuration  *prometheus.HistogramVec // By operation
}

var (
	_ observability.StoreHooks       = (*Hooks)(nil)
	_ observability.SyncHooks        = (*Hooks)(nil)
	_ observability.ValidationHooks  = (*Hooks)(nil)
	_ observability.PersistenceHooks = (*Hooks)(nil)
)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Hooks, error) {
	m := &Hooks{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "graph",
			Name:      "mutations_total",
			Help:      "Graph store mutations by operation and result",
		}, []string{"op", "result"}),

		syncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dualview",
			Name:      "syncs_total",
			Help:      "Diagram/text synchronizations",
		}, []string{"direction", "format", "status"}),
		syncDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dualview",
			Name:      "sync_duration_seconds",
			Help:      "Synchronization duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"direction"}),

		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "runs_total",
			Help:      "Validation runs by outcome",
		}, []string{"status"}),
		validationIssues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "issues_total",
			Help:      "Issues reported by validation runs",
		}, []string{"severity"}),
		validationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "duration_seconds",
			Help:      "Validation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		validating: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "in_progress",
			Help:      "1 while a validation run is in flight",
		}),

		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "imports_total",
			Help:      "Ontology imports by status",
		}, []string{"status"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "exports_total",
			Help:      "Ontology exports by status",
		}, []string{"status"}),
		exportBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "export_bytes",
			Help:      "Size of exported documents",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		ioDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "persistence",
			Name:      "duration_seconds",
			Help:      "Import and export duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	for _, c := range []prometheus.Collector{
		m.mutations,
		m.syncs, m.syncDuration,
		m.validations, m.validationIssues, m.validationDuration, m.validating,
		m.imports, m.exports, m.exportBytes, m.ioDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "register metrics")
		}
	}
	return m, nil
}

// Install registers m as every observability hook.
func (m *Hooks) Install() {
	observability.SetStoreHooks(m)
	observability.SetSyncHooks(m)
	observability.SetValidationHooks(m)
	observability.SetPersistenceHooks(m)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnMutation implements observability.StoreHooks.
func (m *Hooks) OnMutation(op, _ string, applied bool, err error) {
	result := "applied"
	switch {
	case err != nil:
		result = "error"
	case !applied:
		result = "noop"
	}
	m.mutations.WithLabelValues(op, result).Inc()
}

// OnSync implements observability.SyncHooks.
func (m *Hooks) OnSync(direction, format string, d time.Duration, err error) {
	m.syncs.WithLabelValues(direction, format, status(err)).Inc()
	m.syncDuration.WithLabelValues(direction).Observe(d.Seconds())
}

// OnValidationStart implements observability.ValidationHooks.
func (m *Hooks) OnValidationStart(context.Context, string) {
	m.validating.Set(1)
}

// OnValidationComplete implements observability.ValidationHooks.
func (m *Hooks) OnValidationComplete(_ context.Context, _ string, errors, warnings int, d time.Duration, err error) {
	m.validating.Set(0)
	m.validations.WithLabelValues(status(err)).Inc()
	m.validationDuration.Observe(d.Seconds())
	if err == nil {
		m.validationIssues.WithLabelValues("error").Add(float64(errors))
		m.validationIssues.WithLabelValues("warning").Add(float64(warnings))
	}
}

// OnValidationRejected implements observability.ValidationHooks.
func (m *Hooks) OnValidationRejected(context.Context, string) {
	m.validations.WithLabelValues("rejected").Inc()
}

// OnImport implements observability.PersistenceHooks.
func (m *Hooks) OnImport(_ context.Context, _ string, _, _ int, d time.Duration, err error) {
	m.imports.WithLabelValues(status(err)).Inc()
	m.ioDuration.WithLabelValues("import").Observe(d.Seconds())
}

// OnExport implements observability.PersistenceHooks.
func (m *Hooks) OnExport(_ context.Context, _ string, size int, d time.Duration, err error) {
	m.exports.WithLabelValues(status(err)).Inc()
	m.ioDuration.WithLabelValues("export").Observe(d.Seconds())
	if err == nil {
		m.exportBytes.Observe(float64(size))
	}
}
