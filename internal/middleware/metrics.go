package middleware

import (
	"strconv"
	"time"

	"rakshak-service/internal/metrics"

	"github.com/gin-gonic/gin"
)

// HTTPMetrics labels by route template so ids do not blow up cardinality.
func HTTPMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
