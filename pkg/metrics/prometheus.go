// Package metrics provides Prometheus metrics for the portfolio backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Aggregation chain metrics, labeled by source tag.
	sourceAttempts *prometheus.CounterVec
	sourceFailures *prometheus.CounterVec
	sourceWins     *prometheus.CounterVec
	fetchDuration  *prometheus.HistogramVec

	// Result cache metrics.
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter

	// HTTP performance metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Contact relay outcomes.
	contactRelay *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "portfolio",
		subsystem:        "contributions",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.sourceAttempts = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_attempts_total",
		Help:      "Fetch attempts per data source",
	}, []string{"source"})

	m.sourceFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_failures_total",
		Help:      "Failed fetch attempts per data source",
	}, []string{"source"})

	m.sourceWins = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "source_wins_total",
		Help:      "Calendars served per winning data source",
	}, []string{"source"})

	m.fetchDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_duration_ms",
		Help:      "Fetch duration per data source in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"source"})

	m.cacheHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_hits_total",
		Help:      "Calendar cache hits",
	})

	m.cacheMisses = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cache_misses_total",
		Help:      "Calendar cache misses",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.contactRelay = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "contact",
		Name:      "relay_total",
		Help:      "Contact form relay outcomes",
	}, []string{"outcome"})
}

// Package-level helpers operating on the global manager.

// RecordSourceAttempt counts a fetch attempt for a source.
func RecordSourceAttempt(source string) {
	if globalManager.enabled {
		globalManager.sourceAttempts.WithLabelValues(source).Inc()
	}
}

// RecordSourceFailure counts a failed fetch attempt for a source.
func RecordSourceFailure(source string) {
	if globalManager.enabled {
		globalManager.sourceFailures.WithLabelValues(source).Inc()
	}
}

// RecordSourceWin counts a calendar served from a source.
func RecordSourceWin(source string) {
	if globalManager.enabled {
		globalManager.sourceWins.WithLabelValues(source).Inc()
	}
}

// RecordFetchDuration records how long a source attempt took.
func RecordFetchDuration(source string, ms float64) {
	if globalManager.enabled {
		globalManager.fetchDuration.WithLabelValues(source).Observe(ms)
	}
}

// RecordCacheHit counts a calendar served from the result cache.
func RecordCacheHit() {
	if globalManager.enabled {
		globalManager.cacheHits.Inc()
	}
}

// RecordCacheMiss counts a calendar that had to be resolved upstream.
func RecordCacheMiss() {
	if globalManager.enabled {
		globalManager.cacheMisses.Inc()
	}
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

// RecordHTTPRequestDuration records an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
	}
}

// RecordContactRelay counts a contact relay outcome ("ok" or "error").
func RecordContactRelay(outcome string) {
	if globalManager.enabled {
		globalManager.contactRelay.WithLabelValues(outcome).Inc()
	}
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
