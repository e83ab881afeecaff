package rpc

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"campus-gateway/internal/dispatch"
	xerrors "campus-gateway/internal/pkg/errors"
)

func TestParseRequestValid(t *testing.T) {
	body := []byte(`{"jsonrpc":"2.0","id":1,"method":"auth.login","params":{"username":"a"}}`)

	call, rpcErr := ParseRequest(body, "auth", "login")
	if rpcErr != nil {
		t.Fatalf("unexpected parse error: %v", rpcErr)
	}
	if call.Domain != "auth" || call.Action != "login" {
		t.Fatalf("call = %s.%s, want auth.login", call.Domain, call.Action)
	}
	if string(call.ID) != "1" {
		t.Fatalf("id = %s, want 1", call.ID)
	}

	var params struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(call.Params, &params); err != nil || params.Username != "a" {
		t.Fatalf("params not preserved: %s", call.Params)
	}
}

func TestParseRequestMethodFromBodyOnly(t *testing.T) {
	body := []byte(`{"jsonrpc":"2.0","id":"r-1","method":"auth.login"}`)

	call, rpcErr := ParseRequest(body, "", "")
	if rpcErr != nil {
		t.Fatalf("unexpected parse error: %v", rpcErr)
	}
	if call.Domain != "auth" || call.Action != "login" {
		t.Fatalf("call = %s.%s, want auth.login", call.Domain, call.Action)
	}
}

func TestParseRequestInvalidJSON(t *testing.T) {
	call, rpcErr := ParseRequest([]byte(`{"jsonrpc":`), "auth", "login")
	if call != nil {
		t.Fatalf("expected nil call for unparseable body")
	}
	if rpcErr == nil || rpcErr.Code != CodeParseError {
		t.Fatalf("expected CodeParseError, got %v", rpcErr)
	}
	if HTTPStatus(rpcErr) != http.StatusBadRequest {
		t.Fatalf("parse error must map to 400")
	}
}

func TestParseRequestMethodPathDisagreement(t *testing.T) {
	body := []byte(`{"jsonrpc":"2.0","id":7,"method":"auth.logout"}`)

	call, rpcErr := ParseRequest(body, "auth", "login")
	if rpcErr == nil || rpcErr.Code != CodeInvalidRequest {
		t.Fatalf("expected CodeInvalidRequest, got %v", rpcErr)
	}
	// The id survives for the error envelope.
	if string(call.ID) != "7" {
		t.Fatalf("id = %s, want 7", call.ID)
	}
}

func TestParseRequestBadVersion(t *testing.T) {
	body := []byte(`{"jsonrpc":"1.0","id":1,"method":"auth.login"}`)
	_, rpcErr := ParseRequest(body, "auth", "login")
	if rpcErr == nil || rpcErr.Code != CodeInvalidRequest {
		t.Fatalf("expected CodeInvalidRequest for bad version, got %v", rpcErr)
	}
}

func TestParseRequestMissingMethod(t *testing.T) {
	body := []byte(`{"jsonrpc":"2.0","id":1}`)
	_, rpcErr := ParseRequest(body, "", "")
	if rpcErr == nil || rpcErr.Code != CodeInvalidRequest {
		t.Fatalf("expected CodeInvalidRequest for missing method, got %v", rpcErr)
	}
}

func TestParseRequestMalformedMethod(t *testing.T) {
	for _, method := range []string{"login", "auth.", ".login"} {
		body := []byte(`{"jsonrpc":"2.0","id":1,"method":"` + method + `"}`)
		_, rpcErr := ParseRequest(body, "", "")
		if rpcErr == nil || rpcErr.Code != CodeInvalidRequest {
			t.Fatalf("method %q: expected CodeInvalidRequest, got %v", method, rpcErr)
		}
	}
}

func TestEnvelopeIDEcho(t *testing.T) {
	ids := []string{`1`, `"req-abc"`, `null`}

	for _, id := range ids {
		body := []byte(`{"jsonrpc":"2.0","id":` + id + `,"method":"auth.login"}`)
		call, rpcErr := ParseRequest(body, "auth", "login")
		if rpcErr != nil {
			t.Fatalf("id %s: parse error %v", id, rpcErr)
		}

		success, err := json.Marshal(EncodeSuccess(call.ID, map[string]bool{"ok": true}))
		if err != nil {
			t.Fatalf("marshal success: %v", err)
		}
		failure, err := json.Marshal(EncodeError(call.ID, Internal("x")))
		if err != nil {
			t.Fatalf("marshal error: %v", err)
		}

		for _, raw := range [][]byte{success, failure} {
			var echoed struct {
				ID json.RawMessage `json:"id"`
			}
			if err := json.Unmarshal(raw, &echoed); err != nil {
				t.Fatalf("unmarshal envelope: %v", err)
			}
			if string(echoed.ID) != id {
				t.Fatalf("id echo = %s, want %s", echoed.ID, id)
			}
		}
	}
}

func TestEncodeErrorExactlyOneOfResultError(t *testing.T) {
	raw, err := json.Marshal(EncodeError(NullID, MethodNotFound("nope", "x")))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := env["result"]; ok {
		t.Fatalf("error envelope must not carry result: %s", raw)
	}
	if _, ok := env["error"]; !ok {
		t.Fatalf("error envelope missing error: %s", raw)
	}
}

func TestEncodeSuccessNilResultStillCarriesResult(t *testing.T) {
	raw, err := json.Marshal(EncodeSuccess(NullID, nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	result, ok := env["result"]
	if !ok {
		t.Fatalf("success envelope missing result: %s", raw)
	}
	if string(result) != "null" {
		t.Fatalf("nil result = %s, want null", result)
	}
	if _, ok := env["error"]; ok {
		t.Fatalf("success envelope must not carry error: %s", raw)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{ParseFailed("bad json"), http.StatusBadRequest},
		{InvalidRequest("bad envelope"), http.StatusBadRequest},
		{MethodNotFound("nope", "x"), http.StatusNotFound},
		{Forbidden("admin role required"), http.StatusForbidden},
		{Unauthorized("login required"), http.StatusUnauthorized},
		{RateLimited(0, 420), http.StatusTooManyRequests},
		{InvalidParams("username is required"), http.StatusUnprocessableEntity},
		{Internal("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestFromErrSentinelMapping(t *testing.T) {
	if e := FromErr(xerrors.Wrap(xerrors.ErrUnauthorized, "login"), true); HTTPStatus(e) != http.StatusUnauthorized {
		t.Fatalf("ErrUnauthorized must map to 401")
	}
	if e := FromErr(xerrors.Wrap(xerrors.ErrForbidden, "role"), true); HTTPStatus(e) != http.StatusForbidden {
		t.Fatalf("ErrForbidden must map to 403")
	}
	if e := FromErr(dispatch.ErrUnknownDomain, true); e.Code != CodeMethodNotFound {
		t.Fatalf("ErrUnknownDomain must map to MethodNotFound, got %d", e.Code)
	}
	if e := FromErr(dispatch.ErrUnknownAction, true); e.Code != CodeMethodNotFound {
		t.Fatalf("ErrUnknownAction must map to MethodNotFound, got %d", e.Code)
	}
}

func TestFromErrPassesThroughCodedErrors(t *testing.T) {
	coded := RateLimited(0, 100)
	if got := FromErr(coded, true); got != coded {
		t.Fatalf("coded error must pass through unchanged")
	}
}

func TestFromErrHidesDetailInProduction(t *testing.T) {
	internal := errors.New("pg: connection refused for host db-internal")

	prod := FromErr(internal, true)
	if prod.Message != "internal server error" {
		t.Fatalf("production message leaked detail: %q", prod.Message)
	}

	dev := FromErr(internal, false)
	if dev.Message == "internal server error" {
		t.Fatalf("development message should carry detail")
	}
}
