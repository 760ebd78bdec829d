package middleware

import (
	"time"

	"social_feed/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware 记录请求数、耗时与响应大小，未匹配路由统一记为 unmatched
func MetricsMiddleware(collector *metrics.MetricsCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		collector.RecordHTTPRequest(c.Request.Method, endpoint, c.Writer.Status(), time.Since(start), c.Writer.Size())
	}
}
