package dispatch

import (
	"context"
	"errors"
	"testing"
)

func TestDispatchUnknownDomain(t *testing.T) {
	r := NewRegistry()
	r.Register("auth", "login", func(ctx context.Context, call *Call) (interface{}, error) {
		return "ok", nil
	})

	_, err := r.Dispatch(context.Background(), "nope", "x", &Call{})
	if !errors.Is(err, ErrUnknownDomain) {
		t.Fatalf("expected ErrUnknownDomain, got %v", err)
	}
}

func TestDispatchUnknownAction(t *testing.T) {
	r := NewRegistry()
	r.Register("auth", "login", func(ctx context.Context, call *Call) (interface{}, error) {
		return "ok", nil
	})

	_, err := r.Dispatch(context.Background(), "auth", "nope", &Call{})
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestDispatchInvokesHandler(t *testing.T) {
	r := NewRegistry()
	r.Register("auth", "login", func(ctx context.Context, call *Call) (interface{}, error) {
		return map[string]string{"trace": call.TraceID}, nil
	})

	res, err := r.Dispatch(context.Background(), "auth", "login", &Call{TraceID: "t-1"})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	m, ok := res.(map[string]string)
	if !ok || m["trace"] != "t-1" {
		t.Fatalf("handler did not receive call context, got %#v", res)
	}
}

func TestDispatchAliasResolution(t *testing.T) {
	r := NewRegistry()
	r.Register("auth", "login", func(ctx context.Context, call *Call) (interface{}, error) {
		return "ok", nil
	})
	r.Alias("auth", "signin", "login")

	res, err := r.Dispatch(context.Background(), "auth", "signin", &Call{})
	if err != nil {
		t.Fatalf("Dispatch via alias: %v", err)
	}
	if res != "ok" {
		t.Fatalf("unexpected result %v", res)
	}

	// The alias is scoped to its domain.
	r.Register("directory", "getStudent", func(ctx context.Context, call *Call) (interface{}, error) {
		return "student", nil
	})
	if _, err := r.Dispatch(context.Background(), "directory", "signin", &Call{}); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("alias leaked across domains: %v", err)
	}
}

func TestDispatchHandlerErrorPropagates(t *testing.T) {
	sentinel := errors.New("boom")
	r := NewRegistry()
	r.Register("auth", "login", func(ctx context.Context, call *Call) (interface{}, error) {
		return nil, sentinel
	})

	_, err := r.Dispatch(context.Background(), "auth", "login", &Call{})
	if !errors.Is(err, sentinel) {
		t.Fatalf("handler error must propagate unchanged, got %v", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate registration")
		}
	}()

	r := NewRegistry()
	h := func(ctx context.Context, call *Call) (interface{}, error) { return nil, nil }
	r.Register("auth", "login", h)
	r.Register("auth", "login", h)
}
