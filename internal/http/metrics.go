package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instrumentation for the API server. Each
// server owns its registry so tests can spin up independent instances.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	activeSessions  prometheus.GaugeFunc
}

// NewMetrics registers the server's collectors on a fresh registry.
// activeSessions may be nil when session gauging is not wanted.
func NewMetrics(activeSessions func() float64) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		registry: registry,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fintrack",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of HTTP requests processed, by method, path, and status code.",
		}, []string{"method", "path", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fintrack",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "fintrack",
			Subsystem: "dashboard",
			Name:      "cache_hits_total",
			Help:      "Dashboard cache hits.",
		}),
		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "fintrack",
			Subsystem: "dashboard",
			Name:      "cache_misses_total",
			Help:      "Dashboard cache misses.",
		}),
	}

	if activeSessions != nil {
		m.activeSessions = factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "fintrack",
			Name:      "active_sessions",
			Help:      "Number of currently active sessions.",
		}, activeSessions)
	}

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler returns the /metrics endpoint handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
