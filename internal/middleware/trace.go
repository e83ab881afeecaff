// internal/middleware/trace.go
package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

const (
	TraceHeader = "X-Trace-Id"
	traceCtxKey = "trace_id"
)

// Trace assigns every request a trace id: an inbound X-Trace-Id is reused,
// otherwise one is minted. The id is always attached to the response.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" {
			traceID = fmt.Sprintf("%d-%s", time.Now().UnixMilli(), ulid.Make())
		}

		c.Set(traceCtxKey, traceID)
		c.Header(TraceHeader, traceID)
		c.Next()
	}
}

// GetTraceID returns the request's trace id.
func GetTraceID(c *gin.Context) string {
	return c.GetString(traceCtxKey)
}
