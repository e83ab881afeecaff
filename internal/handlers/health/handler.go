// internal/handlers/health/handler.go
package health

import (
	"context"

	"campus-gateway/internal/dispatch"
	"campus-gateway/internal/rpc"
)

// Pinger reports backing-store reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnStats reports live WebSocket connection counts per subject.
type ConnStats interface {
	Stats() map[string]int
}

type Handler struct {
	storeName string
	pinger    Pinger
	conns     ConnStats
}

// NewHandler builds the health domain. pinger may be nil when the in-memory
// fallback is active; conns may be nil when the events hub is disabled.
func NewHandler(storeName string, pinger Pinger, conns ConnStats) *Handler {
	return &Handler{
		storeName: storeName,
		pinger:    pinger,
		conns:     conns,
	}
}

func (h *Handler) Register(r *dispatch.Registry) {
	r.Register("health", "ping", h.Ping)
	r.Register("health", "stats", h.Stats)
}

func (h *Handler) Ping(ctx context.Context, call *dispatch.Call) (interface{}, error) {
	storeStatus := "ok"
	if h.pinger != nil {
		if err := h.pinger.Ping(ctx); err != nil {
			storeStatus = "unreachable"
		}
	}

	return map[string]string{
		"status":       "ok",
		"store":        h.storeName,
		"store_status": storeStatus,
	}, nil
}

// Stats reports per-subject connection counts for the backoffice. Admin only:
// the subject list is not for general callers.
func (h *Handler) Stats(ctx context.Context, call *dispatch.Call) (interface{}, error) {
	if call.Session == nil {
		return nil, rpc.Unauthorized("login required")
	}
	if !call.Session.HasRole("admin") {
		return nil, rpc.Forbidden("admin role required")
	}

	connections := map[string]int{}
	total := 0
	if h.conns != nil {
		connections = h.conns.Stats()
		for _, n := range connections {
			total += n
		}
	}

	return map[string]interface{}{
		"connections": connections,
		"total":       total,
	}, nil
}
