package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/metrics"
)

// PrometheusMiddleware records request duration and count per route pattern.
// Unmatched routes share one "unmatched" label.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
