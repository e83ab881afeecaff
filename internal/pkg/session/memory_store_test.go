package session

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s, err := store.Create(ctx, "student:42", []string{"student"}, time.Minute)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.Token == "" {
		t.Fatalf("expected non-empty token")
	}

	got, err := store.Get(ctx, s.Token)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatalf("expected session, got absent")
	}
	if got.Subject != "student:42" {
		t.Fatalf("subject = %q, want student:42", got.Subject)
	}
	if !got.HasRole("student") {
		t.Fatalf("expected student role")
	}
}

func TestMemoryStoreLazyExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	s, err := store.Create(ctx, "student:42", nil, time.Second)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get(ctx, s.Token)
	if err != nil || got == nil {
		t.Fatalf("expected live session immediately after create, got %v, %v", got, err)
	}

	store.now = func() time.Time { return base.Add(1100 * time.Millisecond) }

	got, err = store.Get(ctx, s.Token)
	if err != nil {
		t.Fatalf("Get after expiry: %v", err)
	}
	if got != nil {
		t.Fatalf("expected expired session to read as absent")
	}
}

func TestMemoryStoreMissingToken(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	got, err := store.Get(ctx, "no-such-token")
	if err != nil {
		t.Fatalf("Get must not error for a missing record: %v", err)
	}
	if got != nil {
		t.Fatalf("expected absent, got %+v", got)
	}
}

func TestMemoryStoreDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s, err := store.Create(ctx, "teacher:7", []string{"teacher"}, time.Minute)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Delete(ctx, s.Token); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, s.Token); err != nil {
		t.Fatalf("second Delete must be idempotent: %v", err)
	}

	got, _ := store.Get(ctx, s.Token)
	if got != nil {
		t.Fatalf("expected session gone after delete")
	}
}

func TestMemoryStoreDeleteAll(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a, _ := store.Create(ctx, "teacher:7", nil, time.Minute)
	b, _ := store.Create(ctx, "teacher:7", nil, time.Minute)
	other, _ := store.Create(ctx, "student:42", nil, time.Minute)

	if err := store.DeleteAll(ctx, "teacher:7"); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}

	if got, _ := store.Get(ctx, a.Token); got != nil {
		t.Fatalf("expected first session revoked")
	}
	if got, _ := store.Get(ctx, b.Token); got != nil {
		t.Fatalf("expected second session revoked")
	}
	if got, _ := store.Get(ctx, other.Token); got == nil {
		t.Fatalf("expected unrelated subject's session to survive")
	}
}
