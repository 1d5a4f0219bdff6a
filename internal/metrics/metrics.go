// Package metrics provides Prometheus metrics collection for the FIPE service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// UpstreamRequestsTotal tracks calls to the pricing service by operation and outcome class.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fipe_upstream_requests_total",
			Help: "Total number of upstream FIPE requests",
		},
		[]string{"operation", "result"},
	)

	// UpstreamRequestDuration tracks upstream latency per operation.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fipe_upstream_request_duration_seconds",
			Help:    "Upstream FIPE request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// UpstreamRetriesTotal tracks retry attempts by error class.
	UpstreamRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fipe_upstream_retries_total",
			Help: "Total number of upstream retry attempts by error class",
		},
		[]string{"error_class"},
	)

	// UpstreamRetryBackoff tracks backoff durations before retries.
	UpstreamRetryBackoff = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fipe_upstream_retry_backoff_seconds",
			Help:    "Backoff duration for upstream retries by error class",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"error_class"},
	)

	// LookupsTotal tracks lookups by operation and cache source.
	LookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fipe_lookups_total",
			Help: "Total number of FIPE lookups",
		},
		[]string{"operation", "source"},
	)

	// SearchDuration tracks aggregated search duration.
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fipe_search_duration_seconds",
			Help:    "Aggregated search duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// SearchSkippedTotal tracks branches skipped during a search because of upstream failures.
	SearchSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fipe_search_skipped_total",
			Help: "Total number of search branches skipped due to failures",
		},
		[]string{"level"},
	)

	// CircuitBreakerState exposes each breaker's state: 0 closed, 1 open, 2 half-open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerTransitionsTotal counts state changes by target state.
	CircuitBreakerTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "to"},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"cache", "operation", "result"},
	)

	// CacheSize tracks current cache size.
	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current cache size",
		},
		[]string{"cache"},
	)

	// CacheCapacity tracks cache capacity.
	CacheCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_capacity",
			Help: "Cache capacity",
		},
		[]string{"cache"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordUpstreamRequest records the outcome and latency of one upstream call.
func RecordUpstreamRequest(operation, result string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(operation, result).Inc()
	UpstreamRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordUpstreamRetry records a retry and the backoff that preceded it.
func RecordUpstreamRetry(errorClass string, backoff time.Duration) {
	UpstreamRetriesTotal.WithLabelValues(errorClass).Inc()
	UpstreamRetryBackoff.WithLabelValues(errorClass).Observe(backoff.Seconds())
}

// RecordLookup records a lookup served from cache or upstream.
func RecordLookup(operation string, cached bool) {
	source := "upstream"
	if cached {
		source = "cache"
	}
	LookupsTotal.WithLabelValues(operation, source).Inc()
}

// RecordSearch records a finished search and its skipped branches.
func RecordSearch(duration time.Duration, skippedTypes, skippedBrands int) {
	SearchDuration.Observe(duration.Seconds())
	if skippedTypes > 0 {
		SearchSkippedTotal.WithLabelValues("type").Add(float64(skippedTypes))
	}
	if skippedBrands > 0 {
		SearchSkippedTotal.WithLabelValues("brand").Add(float64(skippedBrands))
	}
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(cache, operation, result string) {
	CacheOperationsTotal.WithLabelValues(cache, operation, result).Inc()
}

// UpdateCacheMetrics updates cache size and capacity metrics.
func UpdateCacheMetrics(cache string, size, capacity int) {
	CacheSize.WithLabelValues(cache).Set(float64(size))
	CacheCapacity.WithLabelValues(cache).Set(float64(capacity))
}

// RecordCircuitState records the current state of a breaker and, when
// transition is set, counts the change.
func RecordCircuitState(name string, state int, stateName string, transition bool) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
	if transition {
		CircuitBreakerTransitionsTotal.WithLabelValues(name, stateName).Inc()
	}
}
