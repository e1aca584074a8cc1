package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "messagely_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "messagely_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
	LoginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "messagely_login_attempts_total",
		Help: "Login attempts by outcome",
	}, []string{"result"})
	TokenRejectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "messagely_token_rejections_total",
		Help: "Bearer tokens rejected as missing or invalid",
	})
	AccessDeniedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "messagely_access_denied_total",
		Help: "Authorization failures by operation",
	}, []string{"operation"})
	MessagesSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "messagely_messages_sent_total",
		Help: "Total number of messages sent",
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		LoginAttemptsTotal,
		TokenRejectionsTotal,
		AccessDeniedTotal,
		MessagesSentTotal,
	)
}

// GinMiddleware records request counts and latencies per route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HTTPRequestsTotal.With(labels).Inc()
		HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
