// Package metrics exposes descriptor table and guest run activity as
// Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/apepkuss/wasmedge-wasi-for-quark/resource"
)

// Metrics holds the host's Prometheus collectors. Instances are independent,
// so each test can register on its own registry.
type Metrics struct {
	DescriptorsOpened *prometheus.CounterVec
	DescriptorsClosed *prometheus.CounterVec
	DescriptorsOpen   *prometheus.GaugeVec

	RunsTotal   *prometheus.CounterVec
	RunDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DescriptorsOpened: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wasihost_descriptors_opened_total",
			Help: "Descriptors bound in a guest descriptor table, by kind.",
		}, []string{"kind"}),

		DescriptorsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wasihost_descriptors_closed_total",
			Help: "Descriptors removed from a guest descriptor table, by kind.",
		}, []string{"kind"}),

		DescriptorsOpen: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wasihost_descriptors_open",
			Help: "Descriptors currently bound, by kind.",
		}, []string{"kind"}),

		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wasihost_runs_total",
			Help: "Guest runs, by result (ok, exit, error).",
		}, []string{"result"}),

		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wasihost_run_duration_seconds",
			Help:    "Wall time of guest runs in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.DescriptorsOpened,
		m.DescriptorsClosed,
		m.DescriptorsOpen,
		m.RunsTotal,
		m.RunDuration,
	)

	return m
}

// OnResourceEvent implements resource.Observer.
func (m *Metrics) OnResourceEvent(e resource.Event) {
	kind := e.Kind.String()
	switch e.Type {
	case resource.EventCreated:
		m.DescriptorsOpened.WithLabelValues(kind).Inc()
		m.DescriptorsOpen.WithLabelValues(kind).Inc()
	case resource.EventDropped:
		m.DescriptorsClosed.WithLabelValues(kind).Inc()
		m.DescriptorsOpen.WithLabelValues(kind).Dec()
	}
}

// ObserveRun records one finished guest run.
func (m *Metrics) ObserveRun(result string, d time.Duration) {
	m.RunsTotal.WithLabelValues(result).Inc()
	m.RunDuration.Observe(d.Seconds())
}
