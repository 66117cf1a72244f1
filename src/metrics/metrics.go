// Package metrics exposes Prometheus counters for HTTP traffic and entity store calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forms_http_requests_total",
		Help: "Total number of HTTP requests processed",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "forms_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	storeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "forms_store_operations_total",
		Help: "Entity store calls by backend, entity, operation and outcome",
	}, []string{"backend", "entity", "operation", "outcome"})

	storeLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "forms_store_operation_duration_seconds",
		Help:    "Entity store call duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend", "entity", "operation"})

	backendMode = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "forms_backend_mode",
		Help: "Selected storage backend (1 for the active mode)",
	}, []string{"mode"})
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveStore records one entity store call.
func ObserveStore(backend, entity, operation, outcome string, elapsed time.Duration) {
	storeOperations.WithLabelValues(backend, entity, operation, outcome).Inc()
	storeLatency.WithLabelValues(backend, entity, operation).Observe(elapsed.Seconds())
}

// SetBackendMode marks mode as the active backend.
func SetBackendMode(mode string) {
	backendMode.Reset()
	backendMode.WithLabelValues(mode).Set(1)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
