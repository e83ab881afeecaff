// internal/ws/handler.go
package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	"campus-gateway/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking is enforced by the fronting proxy.
		return true
	},
}

// Authenticator confirms a signed token maps to a live session.
type Authenticator interface {
	ValidateToken(ctx context.Context, signed string) (*session.Session, error)
}

type Handler struct {
	hub    *Hub
	auth   Authenticator
	logger *zap.Logger
}

func NewHandler(hub *Hub, auth Authenticator, logger *zap.Logger) *Handler {
	return &Handler{
		hub:    hub,
		auth:   auth,
		logger: logger,
	}
}

// HandleConnection upgrades an authenticated request to a WebSocket and
// registers it for session events.
func (h *Handler) HandleConnection(c *gin.Context) {
	token := extractToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication token"})
		return
	}

	sess, err := h.auth.ValidateToken(c.Request.Context(), token)
	if err != nil {
		h.logger.Warn("websocket authentication failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		return
	}

	client := NewClient(h.hub, conn, sess.Subject)
	h.hub.Register <- client
	client.Start()

	h.hub.Notify(sess.Subject, Event{
		Type:    EventSessionCreated,
		Subject: sess.Subject,
		At:      time.Now(),
	})

	h.logger.Info("websocket client connected",
		zap.String("subject", sess.Subject),
		zap.Strings("roles", sess.Roles),
	)
}

// extractToken pulls the signed token from the Authorization header or the
// token query parameter (browsers cannot set headers on WebSocket upgrades).
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	return c.Query("token")
}
