package health

import (
	"context"
	"errors"
	"strings"
	"testing"

	"campus-gateway/internal/dispatch"
	"campus-gateway/internal/pkg/session"
	"campus-gateway/internal/rpc"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

type fakeConns struct {
	stats map[string]int
}

func (f fakeConns) Stats() map[string]int { return f.stats }

func TestPingReportsStoreStatus(t *testing.T) {
	h := NewHandler("redis", fakePinger{}, nil)

	res, err := h.Ping(context.Background(), &dispatch.Call{})
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	body := res.(map[string]string)
	if body["status"] != "ok" || body["store"] != "redis" || body["store_status"] != "ok" {
		t.Fatalf("unexpected ping body: %v", body)
	}
}

func TestPingUnreachableStore(t *testing.T) {
	h := NewHandler("redis", fakePinger{err: errors.New("connection refused")}, nil)

	res, err := h.Ping(context.Background(), &dispatch.Call{})
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	if res.(map[string]string)["store_status"] != "unreachable" {
		t.Fatalf("unexpected ping body: %v", res)
	}
}

func TestStatsRequiresAdmin(t *testing.T) {
	h := NewHandler("memory", nil, fakeConns{})

	_, err := h.Stats(context.Background(), &dispatch.Call{})
	var rpcErr *rpc.Error
	if !errors.As(err, &rpcErr) || !strings.HasPrefix(rpcErr.Message, "Unauthorized") {
		t.Fatalf("anonymous stats: got %v, want Unauthorized", err)
	}

	_, err = h.Stats(context.Background(), &dispatch.Call{
		Session: &session.Session{Subject: "student:42", Roles: []string{"student"}},
	})
	if !errors.As(err, &rpcErr) || !strings.HasPrefix(rpcErr.Message, "Forbidden") {
		t.Fatalf("student stats: got %v, want Forbidden", err)
	}
}

func TestStatsCountsConnections(t *testing.T) {
	h := NewHandler("memory", nil, fakeConns{stats: map[string]int{
		"student:42": 2,
		"teacher:7":  1,
	}})

	res, err := h.Stats(context.Background(), &dispatch.Call{
		Session: &session.Session{Subject: "admin:1", Roles: []string{"admin"}},
	})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	body := res.(map[string]interface{})
	if body["total"] != 3 {
		t.Fatalf("total = %v, want 3", body["total"])
	}
	if body["connections"].(map[string]int)["student:42"] != 2 {
		t.Fatalf("unexpected connections: %v", body["connections"])
	}
}

func TestStatsWithoutHub(t *testing.T) {
	h := NewHandler("memory", nil, nil)

	res, err := h.Stats(context.Background(), &dispatch.Call{
		Session: &session.Session{Subject: "admin:1", Roles: []string{"admin"}},
	})
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if res.(map[string]interface{})["total"] != 0 {
		t.Fatalf("total without hub = %v, want 0", res)
	}
}
