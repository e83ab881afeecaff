// internal/app/router.go
package app

import (
	"net/http"
	"time"

	"campus-gateway/internal/dispatch"
	"campus-gateway/internal/middleware"
	"campus-gateway/internal/pkg/ratelimit"
	"campus-gateway/internal/rpc"
	"campus-gateway/internal/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps carries the wired pipeline components. Everything is constructed once
// at process start and passed by reference; nothing is reacquired per call.
type Deps struct {
	Logger          *zap.Logger
	Registry        *dispatch.Registry
	Auth            *middleware.AuthMiddleware
	Limiter         ratelimit.Limiter
	WSHandler       *ws.Handler
	Production      bool
	DispatchTimeout time.Duration
}

func SetupRouter(r *gin.Engine, d *Deps) {
	r.Use(
		middleware.Recovery(d.Logger),
		middleware.Trace(),
		middleware.Logging(d.Logger),
	)

	// ==================== RPC Pipeline ====================
	rpcGroup := r.Group("/rpc")
	rpcGroup.Use(
		d.Auth.Auth(),
		middleware.RateLimit(d.Limiter, d.Logger),
	)
	rpcGroup.POST("/:domain/:action", RPCHandler(d))

	// ==================== WebSocket ====================
	if d.WSHandler != nil {
		r.GET("/ws", d.WSHandler.HandleConnection)
	}

	// ==================== Health Check ====================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// Anything else is an unknown method as far as RPC clients are
	// concerned.
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound,
			rpc.EncodeError(rpc.NullID, &rpc.Error{
				Code:    rpc.CodeMethodNotFound,
				Message: "no such endpoint",
			}))
	})
}
