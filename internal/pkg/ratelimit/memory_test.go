package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterFixedWindow(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	l := NewMemoryLimiter(Policy{Window: time.Second, Max: 3})
	l.now = func() time.Time { return base }

	want := []bool{true, true, true, false}
	for i, allowed := range want {
		res, err := l.Allow(ctx, "10.0.0.1", "/rpc/auth/login")
		if err != nil {
			t.Fatalf("Allow #%d: %v", i+1, err)
		}
		if res.Allowed != allowed {
			t.Fatalf("call %d: allowed = %v, want %v", i+1, res.Allowed, allowed)
		}
	}

	// Fourth call exhausted the window.
	res, _ := l.Allow(ctx, "10.0.0.1", "/rpc/auth/login")
	if res.Allowed {
		t.Fatalf("expected denial while window still open")
	}
	if res.Remaining != 0 {
		t.Fatalf("remaining = %d, want 0", res.Remaining)
	}
	if res.ResetMs <= 0 || res.ResetMs > 1000 {
		t.Fatalf("resetMs = %d, want within (0, 1000]", res.ResetMs)
	}

	// After the window elapses the counter resets to 1.
	l.now = func() time.Time { return base.Add(1100 * time.Millisecond) }
	res, err := l.Allow(ctx, "10.0.0.1", "/rpc/auth/login")
	if err != nil {
		t.Fatalf("Allow after window: %v", err)
	}
	if !res.Allowed {
		t.Fatalf("expected allowance after window reset")
	}
	if res.Remaining != 2 {
		t.Fatalf("remaining after reset = %d, want 2", res.Remaining)
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(Policy{Window: time.Minute, Max: 1})

	if res, _ := l.Allow(ctx, "10.0.0.1", "/rpc/auth/login"); !res.Allowed {
		t.Fatalf("first identity should be allowed")
	}
	if res, _ := l.Allow(ctx, "10.0.0.1", "/rpc/auth/login"); res.Allowed {
		t.Fatalf("first identity should now be limited")
	}
	if res, _ := l.Allow(ctx, "10.0.0.2", "/rpc/auth/login"); !res.Allowed {
		t.Fatalf("different identity must have its own window")
	}
	if res, _ := l.Allow(ctx, "10.0.0.1", "/rpc/directory/getStudent"); !res.Allowed {
		t.Fatalf("different resource must have its own window")
	}
}

func TestMemoryLimiterRemainingNeverNegative(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(Policy{Window: time.Minute, Max: 2})

	for i := 0; i < 10; i++ {
		res, _ := l.Allow(ctx, "ip", "path")
		if res.Remaining < 0 {
			t.Fatalf("remaining went negative on call %d", i+1)
		}
	}
}
