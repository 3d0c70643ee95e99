package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "board_http_requests_total", Help: "Total HTTP requests by route and status"},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "board_http_request_duration_seconds", Help: "HTTP request latency", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
	StoriesAllocated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "board_stories_allocated_total", Help: "Total story numbers handed out"},
	)
	TasksCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "board_tasks_completed_total", Help: "Tasks that entered the terminal column for the first time"},
	)
	ResetEmailsFailed = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "board_reset_emails_failed_total", Help: "Password reset emails that could not be sent"},
	)
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests, HTTPDuration, StoriesAllocated, TasksCompleted, ResetEmailsFailed)
}

// Middleware records request counts and latency keyed by the matched route
// template, so path parameters do not explode label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
