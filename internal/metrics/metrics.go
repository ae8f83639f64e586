// Package metrics exposes Prometheus instrumentation for the API layer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the request-level collectors.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates a Metrics instance with its own registry so tests can build
// isolated instances without collector name collisions.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vps_order_requests_total",
				Help: "Total HTTP requests handled",
			},
			[]string{"method", "route", "status"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vps_order_errors_total",
				Help: "Total HTTP requests answered with 5xx",
			},
			[]string{"route"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vps_order_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	m.registry.MustRegister(m.requestsTotal, m.errorsTotal, m.requestDuration)
	return m
}

// Observe records one handled request.
func (m *Metrics) Observe(method, route string, status int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	if status >= 500 {
		m.errorsTotal.WithLabelValues(route).Inc()
	}
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler returns the /metrics scrape handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
