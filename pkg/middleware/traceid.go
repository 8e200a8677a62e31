package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ContextTraceID = "trace_id"

// TraceIDMiddleware reuses an incoming X-Trace-ID or mints a new one.
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Trace-ID")
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.New().String()
		}
		c.Set(ContextTraceID, traceID)
		c.Writer.Header().Set("X-Trace-ID", traceID)
		c.Next()
	}
}
