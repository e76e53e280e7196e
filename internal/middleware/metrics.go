package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics holds all Prometheus metrics
type PrometheusMetrics struct {
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Query metrics
	QueryTotal    *prometheus.CounterVec
	QueryDuration prometheus.Histogram
	QueryRowsRead prometheus.Counter
	QueryErrors   *prometheus.CounterVec

	// Store connection metrics
	StoreConnectionsOpen  prometheus.Gauge
	StoreConnectionsInUse prometheus.Gauge
}

var metrics *PrometheusMetrics

// InitMetrics initializes all Prometheus metrics
func InitMetrics() {
	metrics = &PrometheusMetrics{
		HttpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bearquery_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HttpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bearquery_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		QueryTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bearquery_query_total",
				Help: "Total number of queries executed against the store",
			},
			[]string{"status"},
		),
		QueryDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bearquery_query_duration_seconds",
				Help:    "Query execution time in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		QueryRowsRead: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "bearquery_query_rows_read_total",
				Help: "Total number of rows materialized by queries",
			},
		),
		QueryErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bearquery_query_errors_total",
				Help: "Total number of query errors",
			},
			[]string{"error_type"},
		),

		StoreConnectionsOpen: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "bearquery_store_connections_open",
				Help: "Open connections to the underlying store",
			},
		),
		StoreConnectionsInUse: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "bearquery_store_connections_in_use",
				Help: "Store connections currently in use",
			},
		),
	}
}

// GetMetrics returns the initialized metrics
func GetMetrics() *PrometheusMetrics {
	return metrics
}

// PrometheusMiddleware is a Gin middleware that records HTTP metrics
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}

		metrics.HttpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
		metrics.HttpRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
	}
}

// RecordQueryMetrics records query execution metrics
func RecordQueryMetrics(status string, duration time.Duration, rowsRead int64) {
	if metrics == nil {
		return
	}

	metrics.QueryTotal.WithLabelValues(status).Inc()
	metrics.QueryDuration.Observe(duration.Seconds())
	if status == "success" && rowsRead > 0 {
		metrics.QueryRowsRead.Add(float64(rowsRead))
	}
}

// RecordQueryError records a query error
func RecordQueryError(errorType string) {
	if metrics == nil {
		return
	}
	metrics.QueryTotal.WithLabelValues("error").Inc()
	metrics.QueryErrors.WithLabelValues(errorType).Inc()
}

// UpdateStoreConnectionMetrics updates store connection gauges
func UpdateStoreConnectionMetrics(open, inUse int) {
	if metrics == nil {
		return
	}
	metrics.StoreConnectionsOpen.Set(float64(open))
	metrics.StoreConnectionsInUse.Set(float64(inUse))
}
