// internal/rpc/status.go
package rpc

import (
	"net/http"
	"strings"
)

// HTTPStatus maps a wire error to the HTTP status used at the transport
// boundary. The envelope itself is transport-agnostic; this table is applied
// only when writing the HTTP response.
func HTTPStatus(e *Error) int {
	switch e.Code {
	case CodeParseError, CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeMethodNotFound:
		return http.StatusNotFound
	case CodeInvalidParams:
		if isThrottle(e.Data) {
			return http.StatusTooManyRequests
		}
		msg := strings.ToLower(e.Message)
		if strings.HasPrefix(msg, "forbidden") {
			return http.StatusForbidden
		}
		if strings.HasPrefix(msg, "unauthorized") {
			return http.StatusUnauthorized
		}
		return http.StatusUnprocessableEntity
	case CodeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func isThrottle(data interface{}) bool {
	switch d := data.(type) {
	case *ThrottleData:
		return d != nil
	case ThrottleData:
		return true
	case map[string]interface{}:
		_, hasRemaining := d["remaining"]
		_, hasReset := d["resetMs"]
		return hasRemaining && hasReset
	default:
		return false
	}
}
