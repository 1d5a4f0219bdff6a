package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(PrometheusMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/error", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "error")
	})

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{
			name:           "records metrics for successful request",
			path:           "/test",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "records metrics for error request",
			path:           "/error",
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRecordUpstreamRequest(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("fetch_price", "success"))

	RecordUpstreamRequest("fetch_price", "success", 120*time.Millisecond)
	RecordUpstreamRequest("fetch_price", "success", 80*time.Millisecond)

	after := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("fetch_price", "success"))
	assert.Equal(t, before+2, after)
}

func TestRecordUpstreamRetry(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRetriesTotal.WithLabelValues("network"))

	RecordUpstreamRetry("network", 250*time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(UpstreamRetriesTotal.WithLabelValues("network")))
}

func TestRecordLookup(t *testing.T) {
	tests := []struct {
		name   string
		cached bool
		source string
	}{
		{name: "cache hit", cached: true, source: "cache"},
		{name: "upstream fetch", cached: false, source: "upstream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(LookupsTotal.WithLabelValues("brands", tt.source))

			RecordLookup("brands", tt.cached)

			assert.Equal(t, before+1, testutil.ToFloat64(LookupsTotal.WithLabelValues("brands", tt.source)))
		})
	}
}

func TestRecordSearch(t *testing.T) {
	beforeType := testutil.ToFloat64(SearchSkippedTotal.WithLabelValues("type"))
	beforeBrand := testutil.ToFloat64(SearchSkippedTotal.WithLabelValues("brand"))

	RecordSearch(time.Second, 1, 3)
	RecordSearch(time.Second, 0, 0)

	assert.Equal(t, beforeType+1, testutil.ToFloat64(SearchSkippedTotal.WithLabelValues("type")))
	assert.Equal(t, beforeBrand+3, testutil.ToFloat64(SearchSkippedTotal.WithLabelValues("brand")))
}

func TestRecordCacheOperation(t *testing.T) {
	before := testutil.ToFloat64(CacheOperationsTotal.WithLabelValues("lookup", "get", "hit"))

	RecordCacheOperation("lookup", "get", "hit")
	RecordCacheOperation("lookup", "get", "miss")
	RecordCacheOperation("lookup", "set", "success")

	assert.Equal(t, before+1, testutil.ToFloat64(CacheOperationsTotal.WithLabelValues("lookup", "get", "hit")))
}

func TestUpdateCacheMetrics(t *testing.T) {
	UpdateCacheMetrics("lookup", 50, 100)
	UpdateCacheMetrics("lookup", 75, 100)

	assert.Equal(t, float64(75), testutil.ToFloat64(CacheSize.WithLabelValues("lookup")))
	assert.Equal(t, float64(100), testutil.ToFloat64(CacheCapacity.WithLabelValues("lookup")))
}

func TestRecordCircuitState(t *testing.T) {
	const name = "metrics-test-breaker"

	RecordCircuitState(name, 0, "closed", false)
	assert.Equal(t, float64(0), testutil.ToFloat64(CircuitBreakerState.WithLabelValues(name)))
	assert.Equal(t, float64(0), testutil.ToFloat64(CircuitBreakerTransitionsTotal.WithLabelValues(name, "closed")))

	RecordCircuitState(name, 1, "open", true)
	assert.Equal(t, float64(1), testutil.ToFloat64(CircuitBreakerState.WithLabelValues(name)))
	assert.Equal(t, float64(1), testutil.ToFloat64(CircuitBreakerTransitionsTotal.WithLabelValues(name, "open")))
}
