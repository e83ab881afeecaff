// internal/rpc/errors.go
package rpc

import (
	"context"
	"errors"
	"fmt"

	"campus-gateway/internal/dispatch"
	xerrors "campus-gateway/internal/pkg/errors"
	"campus-gateway/internal/pkg/token"
)

// Code is a wire error code drawn from the fixed JSON-RPC enumeration.
// Handlers never invent codes outside this set.
type Code int

const (
	CodeParseError     Code = -32700
	CodeInvalidRequest Code = -32600
	CodeMethodNotFound Code = -32601
	CodeInvalidParams  Code = -32602
	CodeInternalError  Code = -32603
)

// Error is the wire-level failure payload. It satisfies the error interface
// so handlers can return it directly; the pipeline passes it through
// unchanged.
type Error struct {
	Code    Code        `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// ThrottleData is attached to rate-limited failures.
type ThrottleData struct {
	Remaining int64 `json:"remaining"`
	ResetMs   int64 `json:"resetMs"`
}

func ParseFailed(msg string) *Error {
	return &Error{Code: CodeParseError, Message: msg}
}

func InvalidRequest(msg string) *Error {
	return &Error{Code: CodeInvalidRequest, Message: msg}
}

func MethodNotFound(domain, action string) *Error {
	return &Error{Code: CodeMethodNotFound, Message: fmt.Sprintf("method not found: %s.%s", domain, action)}
}

func InvalidParams(msg string) *Error {
	return &Error{Code: CodeInvalidParams, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Code: CodeInvalidParams, Message: "Unauthorized: " + msg}
}

func Forbidden(msg string) *Error {
	return &Error{Code: CodeInvalidParams, Message: "Forbidden: " + msg}
}

func RateLimited(remaining, resetMs int64) *Error {
	return &Error{
		Code:    CodeInvalidParams,
		Message: "Too many requests",
		Data:    &ThrottleData{Remaining: remaining, ResetMs: resetMs},
	}
}

func Internal(msg string) *Error {
	return &Error{Code: CodeInternalError, Message: msg}
}

// FromErr maps an error raised during dispatch to a wire error. A *Error is
// passed through with whatever code it carries; known sentinels map to their
// taxonomy codes; anything else is an internal error. Internal detail leaks
// into the message only outside production.
func FromErr(err error, production bool) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	switch {
	case errors.Is(err, dispatch.ErrUnknownDomain), errors.Is(err, dispatch.ErrUnknownAction):
		return &Error{Code: CodeMethodNotFound, Message: err.Error()}
	case errors.Is(err, xerrors.ErrUnauthorized), errors.Is(err, token.ErrExpired), errors.Is(err, token.ErrInvalidSignature):
		return Unauthorized(err.Error())
	case errors.Is(err, xerrors.ErrForbidden):
		return Forbidden(err.Error())
	case errors.Is(err, xerrors.ErrInvalidInput):
		return InvalidParams(err.Error())
	case errors.Is(err, xerrors.ErrNotFound):
		return InvalidParams(err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return Internal("upstream timeout")
	}

	if production {
		return Internal("internal server error")
	}
	return Internal(err.Error())
}
