package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maidbook/maidbook/internal/metrics"
)

// PrometheusMiddleware records HTTP request duration and count by route pattern.
// Scrapes of /metrics itself are not recorded.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}

		status := strconv.Itoa(c.Writer.Status())
		metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
