// internal/pkg/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"time"
)

// Policy configures the fixed window applied to every key.
type Policy struct {
	Window time.Duration
	Max    int64
}

// Result reports a single rate limit decision.
type Result struct {
	Allowed   bool
	Remaining int64
	ResetMs   int64
}

// Limiter applies a fixed-window counter per (identity, resource) key.
// The window admits bursts at its boundaries; that is an accepted trade-off
// for coarse abuse protection.
type Limiter interface {
	Allow(ctx context.Context, identity, resource string) (Result, error)
}
