// internal/pkg/ratelimit/memory.go
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	count   int64
	resetAt time.Time
}

// MemoryLimiter is the in-process fixed-window counter. It is both the
// standalone limiter for single-instance deployments and the degraded
// fallback when Redis is unreachable. Stale buckets are overwritten on the
// next request after their window passes, not actively swept.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	policy  Policy

	now func() time.Time
}

func NewMemoryLimiter(policy Policy) *MemoryLimiter {
	return &MemoryLimiter{
		buckets: make(map[string]*bucket),
		policy:  policy,
		now:     time.Now,
	}
}

func (m *MemoryLimiter) Allow(ctx context.Context, identity, resource string) (Result, error) {
	key := identity + ":" + resource
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.buckets[key]
	if !ok || !now.Before(b.resetAt) {
		b = &bucket{count: 0, resetAt: now.Add(m.policy.Window)}
		m.buckets[key] = b
	}
	b.count++

	remaining := m.policy.Max - b.count
	if remaining < 0 {
		remaining = 0
	}

	return Result{
		Allowed:   b.count <= m.policy.Max,
		Remaining: remaining,
		ResetMs:   b.resetAt.Sub(now).Milliseconds(),
	}, nil
}
