// internal/middleware/recovery.go
package middleware

import (
	"net/http"

	"campus-gateway/internal/rpc"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery turns a handler panic into a well-formed internal-error envelope.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("trace_id", GetTraceID(c)),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					rpc.EncodeError(rpc.NullID, rpc.Internal("internal server error")))
			}
		}()
		c.Next()
	}
}
