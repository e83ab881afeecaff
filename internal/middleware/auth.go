// internal/middleware/auth.go
package middleware

import (
	"context"
	"strings"

	"campus-gateway/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// CookieName is the session cookie set on successful login.
	CookieName = "token"

	sessionCtxKey = "session"
)

// Validator confirms a signed token maps to a live session. The check is
// synchronous; a revoked session rejects the credential even when the
// signature is still valid.
type Validator interface {
	ValidateToken(ctx context.Context, signed string) (*session.Session, error)
}

type AuthMiddleware struct {
	validator Validator
	logger    *zap.Logger
}

func NewAuthMiddleware(validator Validator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		logger:    logger,
	}
}

// Auth attempts bearer-header then cookie extraction and attaches the
// session to the request context. A missing or invalid credential leaves
// the request anonymous; role enforcement happens downstream in handlers.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		signed := extractToken(c)
		if signed == "" {
			c.Next()
			return
		}

		sess, err := m.validator.ValidateToken(c.Request.Context(), signed)
		if err != nil {
			m.logger.Debug("credential rejected",
				zap.String("trace_id", GetTraceID(c)),
				zap.Error(err),
			)
			c.Next()
			return
		}

		c.Set(sessionCtxKey, sess)
		c.Next()
	}
}

// GetSession returns the authenticated session, or nil for anonymous
// requests.
func GetSession(c *gin.Context) *session.Session {
	v, exists := c.Get(sessionCtxKey)
	if !exists {
		return nil
	}

	sess, ok := v.(*session.Session)
	if !ok {
		return nil
	}
	return sess
}

// extractToken extracts the Bearer token from the Authorization header, with
// the session cookie as fallback for browser clients.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}

	return ""
}
