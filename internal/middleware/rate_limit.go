// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"strconv"

	"campus-gateway/internal/pkg/ratelimit"
	"campus-gateway/internal/rpc"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit enforces the fixed-window counter keyed by (client IP, route
// path). A denial short-circuits with a 429 envelope carrying the remaining
// budget and window reset.
//
// The body has not been parsed at this stage, so the denial envelope echoes
// a null id.
func RateLimit(limiter ratelimit.Limiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := limiter.Allow(c.Request.Context(), c.ClientIP(), c.FullPath())
		if err != nil {
			// Store errors fail open.
			logger.Warn("rate limiter error, allowing request",
				zap.String("trace_id", GetTraceID(c)),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if !res.Allowed {
			retryAfter := (res.ResetMs + 999) / 1000
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				rpc.EncodeError(rpc.NullID, rpc.RateLimited(res.Remaining, res.ResetMs)))
			return
		}

		c.Next()
	}
}
