package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	TraceHeader    = "X-Trace-ID"
	ContextTraceID = "traceID"
)

// TraceMiddleware 添加请求追踪ID，沿用上游传入的值
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Set(ContextTraceID, traceID)
		c.Header(TraceHeader, traceID)

		c.Next()
	}
}
