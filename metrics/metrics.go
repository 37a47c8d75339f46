// Package metrics bundles Prometheus collectors for the signals agent.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors on a dedicated registry.
type Metrics struct {
	Registry        *prometheus.Registry
	TicksTotal      *prometheus.CounterVec
	UpdatesTotal    *prometheus.CounterVec
	EventsTotal     *prometheus.CounterVec
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	ticks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signals_poller_ticks_total",
			Help: "Total cart poller ticks by result.",
		},
		[]string{"result"},
	)
	updates := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signals_cart_updates_total",
			Help: "Total cart property updates by status.",
		},
		[]string{"status"},
	)
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signals_events_total",
			Help: "Total candidate events by outcome.",
		},
		[]string{"outcome"},
	)
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signals_storefront_requests_total",
			Help: "Total storefront HTTP requests by resource and status.",
		},
		[]string{"resource", "status"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "signals_storefront_request_duration_seconds",
			Help:    "Storefront HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
	)

	registry.MustRegister(ticks, updates, events, requests, requestDuration)

	return &Metrics{
		Registry:        registry,
		TicksTotal:      ticks,
		UpdatesTotal:    updates,
		EventsTotal:     events,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
	}
}

// IncTick increments the poller tick counter for a result label.
func (m *Metrics) IncTick(result string) {
	if m == nil {
		return
	}
	m.TicksTotal.WithLabelValues(result).Inc()
}

// IncUpdate increments the cart update counter for a status label.
func (m *Metrics) IncUpdate(status string) {
	if m == nil {
		return
	}
	m.UpdatesTotal.WithLabelValues(status).Inc()
}

// IncEvent increments the event counter for an outcome label.
func (m *Metrics) IncEvent(outcome string) {
	if m == nil {
		return
	}
	m.EventsTotal.WithLabelValues(outcome).Inc()
}

// IncRequest increments the storefront request counter.
func (m *Metrics) IncRequest(resource, status string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(resource, status).Inc()
}

// ObserveDuration records a storefront request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}
