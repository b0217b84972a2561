// Package metrics agrupa los collectors Prometheus del proceso.
// Todos los métodos aceptan receptor nil para que los tests no necesiten registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dinopark"

type Metrics struct {
	gatherer prometheus.Gatherer

	published    *prometheus.CounterVec
	publishFails *prometheus.CounterVec
	dropped      *prometheus.CounterVec
	batches      prometheus.Counter
	handled      *prometheus.CounterVec
	writes       *prometheus.CounterVec
	tickFailures prometheus.Counter
	tickDuration prometheus.Histogram
}

// New registra los collectors en un registry propio (evita colisiones entre tests).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		gatherer: reg,
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "published_total",
			Help:      "Events published to the bus, by topic.",
		}, []string{"topic"}),
		publishFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "publish_failures_total",
			Help:      "Events whose publish failed, by topic.",
		}, []string{"topic"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "dropped_total",
			Help:      "Events dropped before publish, by reason.",
		}, []string{"reason"}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "batches_total",
			Help:      "Batches processed by the dispatcher.",
		}),
		handled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "consumers",
			Name:      "handled_total",
			Help:      "Events handled by consumers, by topic and outcome.",
		}, []string{"topic", "outcome"}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "writes_total",
			Help:      "Derived-state writes issued by the reconciler, by kind.",
		}, []string{"kind"}),
		tickFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "entity_failures_total",
			Help:      "Per-entity failures during reconciliation ticks.",
		}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "tick_duration_seconds",
			Help:      "Duration of reconciliation ticks.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.published,
		m.publishFails,
		m.dropped,
		m.batches,
		m.handled,
		m.writes,
		m.tickFailures,
		m.tickDuration,
	)
	return m
}

// Handler expone /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) Published(topic string) {
	if m == nil {
		return
	}
	m.published.WithLabelValues(topic).Inc()
}

func (m *Metrics) PublishFailed(topic string) {
	if m == nil {
		return
	}
	m.publishFails.WithLabelValues(topic).Inc()
}

func (m *Metrics) Dropped(reason string) {
	if m == nil {
		return
	}
	m.dropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) BatchDone() {
	if m == nil {
		return
	}
	m.batches.Inc()
}

func (m *Metrics) Handled(topic string, ok bool) {
	if m == nil {
		return
	}
	outcome := "error"
	if ok {
		outcome = "ok"
	}
	m.handled.WithLabelValues(topic, outcome).Inc()
}

func (m *Metrics) ReconcileWrite(kind string) {
	if m == nil {
		return
	}
	m.writes.WithLabelValues(kind).Inc()
}

func (m *Metrics) ReconcileFailure() {
	if m == nil {
		return
	}
	m.tickFailures.Inc()
}

func (m *Metrics) ObserveTick(d time.Duration) {
	if m == nil {
		return
	}
	m.tickDuration.Observe(d.Seconds())
}
