package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/hashfinder/internal/metrics"
)

// Metrics tracks HTTP requests served by the metrics endpoint itself and
// renders the exposition of the whole registry.
type Metrics struct {
	handler        http.Handler
	activeRequests prometheus.Gauge
	requestsTotal  *prometheus.CounterVec
}

// NewMetrics registers the HTTP collectors on registry.
func NewMetrics(registry *metrics.Registry) *Metrics {
	reg := registry.Prometheus()
	f := promauto.With(reg)
	return &Metrics{
		handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		activeRequests: f.NewGauge(prometheus.GaugeOpts{
			Namespace: metrics.Namespace,
			Name:      "active_requests",
			Help:      "HTTP requests currently being served.",
		}),
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "requests_total",
			Help:      "HTTP requests served, by path.",
		}, []string{"path"}),
	}
}

// IncrementActiveRequests marks the start of a request.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks the end of a request.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// RecordRequest counts a request for path.
func (m *Metrics) RecordRequest(path string) { m.requestsTotal.WithLabelValues(path).Inc() }

// WritePrometheus writes the exposition of the registry.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
