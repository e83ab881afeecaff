// internal/dispatch/dispatcher.go
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"campus-gateway/internal/pkg/session"
)

var (
	ErrUnknownDomain = errors.New("unknown domain")
	ErrUnknownAction = errors.New("unknown action")
)

// Call carries the per-request context a handler sees.
// Session is nil for anonymous requests; handlers that need a principal
// enforce that themselves.
type Call struct {
	TraceID  string
	ClientIP string
	Session  *session.Session
	Params   json.RawMessage
}

// HandlerFunc is a single RPC action implementation. Errors it returns
// propagate to the pipeline unchanged.
type HandlerFunc func(ctx context.Context, call *Call) (interface{}, error)

// SessionIssuer is implemented by login results; the pipeline sets the
// session cookie only when a dispatched result provides one.
type SessionIssuer interface {
	SessionCookie() (value string, expiresAt time.Time)
}

// Registry maps (domain, action) pairs to handlers. It is assembled once at
// process start and read-only during request handling; registration is not
// safe for concurrent use with Dispatch.
type Registry struct {
	domains map[string]map[string]HandlerFunc
	aliases map[string]map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		domains: make(map[string]map[string]HandlerFunc),
		aliases: make(map[string]map[string]string),
	}
}

// Register adds a handler for domain.action. Registering the same pair twice
// is a programming error and panics at startup rather than at request time.
func (r *Registry) Register(domain, action string, h HandlerFunc) {
	actions, ok := r.domains[domain]
	if !ok {
		actions = make(map[string]HandlerFunc)
		r.domains[domain] = actions
	}
	if _, dup := actions[action]; dup {
		panic(fmt.Sprintf("dispatch: duplicate registration for %s.%s", domain, action))
	}
	actions[action] = h
}

// Alias maps a legacy action name to its canonical one within a domain.
// Aliases are resolved before handler lookup.
func (r *Registry) Alias(domain, legacy, canonical string) {
	aliases, ok := r.aliases[domain]
	if !ok {
		aliases = make(map[string]string)
		r.aliases[domain] = aliases
	}
	aliases[legacy] = canonical
}

// Resolve returns the canonical action name for domain.action.
func (r *Registry) Resolve(domain, action string) string {
	if aliases, ok := r.aliases[domain]; ok {
		if canonical, ok := aliases[action]; ok {
			return canonical
		}
	}
	return action
}

// Dispatch looks up and invokes the handler for domain.action.
// It does not catch handler errors; that is the pipeline's job.
func (r *Registry) Dispatch(ctx context.Context, domain, action string, call *Call) (interface{}, error) {
	actions, ok := r.domains[domain]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDomain, domain)
	}

	action = r.Resolve(domain, action)
	h, ok := actions[action]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownAction, domain, action)
	}

	return h(ctx, call)
}
