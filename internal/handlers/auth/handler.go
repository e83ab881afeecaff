// internal/handlers/auth/handler.go
package auth

import (
	"context"
	"encoding/json"
	"time"

	"campus-gateway/internal/dispatch"
	"campus-gateway/internal/rpc"
	authUsecase "campus-gateway/internal/service/auth"

	"go.uber.org/zap"
)

type Handler struct {
	authService *authUsecase.AuthService
	logger      *zap.Logger
}

func NewHandler(authService *authUsecase.AuthService, logger *zap.Logger) *Handler {
	return &Handler{
		authService: authService,
		logger:      logger,
	}
}

// Register wires the auth domain into the dispatcher. "signin"/"signout" are
// legacy action names kept for older portal builds.
func (h *Handler) Register(r *dispatch.Registry) {
	r.Register("auth", "login", h.Login)
	r.Register("auth", "logout", h.Logout)
	r.Register("auth", "logoutAll", h.LogoutAll)
	r.Register("auth", "me", h.Me)
	r.Register("auth", "refresh", h.Refresh)
	r.Alias("auth", "signin", "login")
	r.Alias("auth", "signout", "logout")
}

type loginParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials and returns a signed token. Its result carries
// the session cookie the pipeline sets on the response.
func (h *Handler) Login(ctx context.Context, call *dispatch.Call) (interface{}, error) {
	var params loginParams
	if err := json.Unmarshal(call.Params, &params); err != nil {
		return nil, rpc.InvalidParams("params must be an object with username and password")
	}
	if params.Username == "" {
		return nil, rpc.InvalidParams("username is required")
	}
	if params.Password == "" {
		return nil, rpc.InvalidParams("password is required")
	}

	res, err := h.authService.Login(ctx, params.Username, params.Password, call.ClientIP)
	if err != nil {
		h.logger.Warn("login failed",
			zap.String("username", params.Username),
			zap.String("trace_id", call.TraceID),
		)
		return nil, err
	}

	return res, nil
}

// Logout destroys the caller's session.
func (h *Handler) Logout(ctx context.Context, call *dispatch.Call) (interface{}, error) {
	if call.Session == nil {
		return nil, rpc.Unauthorized("login required")
	}

	if err := h.authService.Logout(ctx, call.Session.Token); err != nil {
		return nil, err
	}

	return map[string]bool{"ok": true}, nil
}

// LogoutAll destroys every session for the caller's subject.
func (h *Handler) LogoutAll(ctx context.Context, call *dispatch.Call) (interface{}, error) {
	if call.Session == nil {
		return nil, rpc.Unauthorized("login required")
	}

	if err := h.authService.LogoutAll(ctx, call.Session.Subject); err != nil {
		return nil, err
	}

	return map[string]bool{"ok": true}, nil
}

// Me reports the authenticated principal.
func (h *Handler) Me(ctx context.Context, call *dispatch.Call) (interface{}, error) {
	if call.Session == nil {
		return nil, rpc.Unauthorized("login required")
	}

	return map[string]interface{}{
		"subject":    call.Session.Subject,
		"roles":      call.Session.Roles,
		"expires_at": call.Session.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// Refresh re-issues a signed token against the caller's live session.
func (h *Handler) Refresh(ctx context.Context, call *dispatch.Call) (interface{}, error) {
	if call.Session == nil {
		return nil, rpc.Unauthorized("login required")
	}

	return h.authService.Refresh(ctx, call.Session)
}
