// internal/handlers/directory/handler.go
package directory

import (
	"context"
	"encoding/json"

	"campus-gateway/internal/dispatch"
	domain "campus-gateway/internal/domain/directory"
	"campus-gateway/internal/rpc"

	"go.uber.org/zap"
)

// Handler serves the read-side directory lookups the portals aggregate.
type Handler struct {
	creds  domain.CredentialStore
	logger *zap.Logger
}

func NewHandler(creds domain.CredentialStore, logger *zap.Logger) *Handler {
	return &Handler{
		creds:  creds,
		logger: logger,
	}
}

func (h *Handler) Register(r *dispatch.Registry) {
	r.Register("directory", "getStudent", h.getByRole("student"))
	r.Register("directory", "getTeacher", h.getByRole("teacher"))
	r.Register("directory", "listByRole", h.ListByRole)
}

type subjectParams struct {
	Subject string `json:"subject"`
}

type listParams struct {
	Role  string `json:"role"`
	Limit int    `json:"limit"`
}

// getByRole fetches one account and checks it carries the expected role.
// Self-lookup is always allowed; looking up anyone else requires a staff
// role.
func (h *Handler) getByRole(role string) dispatch.HandlerFunc {
	return func(ctx context.Context, call *dispatch.Call) (interface{}, error) {
		if call.Session == nil {
			return nil, rpc.Unauthorized("login required")
		}

		var params subjectParams
		if err := json.Unmarshal(call.Params, &params); err != nil || params.Subject == "" {
			return nil, rpc.InvalidParams("subject is required")
		}

		if params.Subject != call.Session.Subject && !call.Session.HasAnyRole("teacher", "admin") {
			return nil, rpc.Forbidden("staff role required")
		}

		account, err := h.creds.FindBySubject(ctx, params.Subject)
		if err != nil {
			return nil, err
		}
		if account == nil || !account.HasRole(role) {
			return nil, rpc.InvalidParams("no such " + role)
		}

		return account, nil
	}
}

// ListByRole lists accounts carrying a role; staff only.
func (h *Handler) ListByRole(ctx context.Context, call *dispatch.Call) (interface{}, error) {
	if call.Session == nil {
		return nil, rpc.Unauthorized("login required")
	}
	if !call.Session.HasAnyRole("teacher", "admin") {
		return nil, rpc.Forbidden("staff role required")
	}

	var params listParams
	if err := json.Unmarshal(call.Params, &params); err != nil || params.Role == "" {
		return nil, rpc.InvalidParams("role is required")
	}

	accounts, err := h.creds.ListByRole(ctx, params.Role, params.Limit)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []*domain.Account{}
	}

	return map[string]interface{}{
		"role":     params.Role,
		"accounts": accounts,
	}, nil
}
