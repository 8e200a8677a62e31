package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coivault/pkg/metrics"
	"coivault/pkg/ratelimit"
	"coivault/pkg/utils"
)

// RateLimitMiddleware throttles by authenticated user, falling back to the
// client IP. Limiter failures let the request through.
func RateLimitMiddleware(limiter ratelimit.Limiter, m *metrics.Metrics, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if userID, ok := UserID(c); ok {
			key = "user:" + userID.String()
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("Rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			if m != nil {
				m.RateLimited(c.FullPath())
			}
			utils.RespondError(c, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}
