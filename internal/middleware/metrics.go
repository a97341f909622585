package middleware

import (
	"strconv"
	"time"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "salon",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "salon",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	ledgerMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "salon",
		Name:      "ledger_mutations_total",
		Help:      "Successful appointment, staff and leave writes by action.",
	}, []string{"action"})

	ledgerFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "salon",
		Name:      "ledger_failures_total",
		Help:      "Rejected or failed ledger writes by reason.",
	}, []string{"reason"})
)

// Metrics records request counts and latency per matched route
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler exposes the default Prometheus registry
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// RecordLedgerMutation counts a successful ledger write
func RecordLedgerMutation(action models.LedgerAction) {
	ledgerMutationsTotal.WithLabelValues(string(action)).Inc()
}

// RecordLedgerFailure counts a ledger write that was rejected or could not be saved
func RecordLedgerFailure(reason string) {
	ledgerFailuresTotal.WithLabelValues(reason).Inc()
}
