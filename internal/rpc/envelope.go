// internal/rpc/envelope.go
package rpc

import (
	"bytes"
	"encoding/json"
	"strings"
)

const Version = "2.0"

// Request is the inbound wire envelope. The id is kept raw so it can be
// echoed verbatim whether it is a string, a number or null.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Call is a parsed request ready for dispatch.
type Call struct {
	ID     json.RawMessage
	Domain string
	Action string
	Params json.RawMessage
}

// Response is the outbound wire envelope. Exactly one of Result and Error is
// present.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// MarshalJSON keeps the exactly-one invariant on the wire: a success envelope
// always carries result, even when the handler returned nil, and a failure
// envelope never does.
func (r *Response) MarshalJSON() ([]byte, error) {
	if r.Error != nil {
		return json.Marshal(struct {
			JSONRPC string          `json:"jsonrpc"`
			ID      json.RawMessage `json:"id"`
			Error   *Error          `json:"error"`
		}{r.JSONRPC, r.ID, r.Error})
	}
	return json.Marshal(struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Result  interface{}     `json:"result"`
	}{r.JSONRPC, r.ID, r.Result})
}

// NullID is the id echoed when the request's id could not be recovered.
var NullID = json.RawMessage("null")

// ParseRequest decodes a request body against the domain and action implied
// by the URL path. It never returns an unstructured failure: a malformed body
// yields an *Error that is directly encodable as a failure envelope, with the
// request id preserved whenever it could be recovered.
func ParseRequest(body []byte, pathDomain, pathAction string) (*Call, *Error) {
	var req Request
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&req); err != nil {
		return nil, ParseFailed("invalid JSON body")
	}

	call := &Call{
		ID:     req.ID,
		Domain: pathDomain,
		Action: pathAction,
		Params: req.Params,
	}
	if call.ID == nil {
		call.ID = NullID
	}

	if req.JSONRPC != "" && req.JSONRPC != Version {
		return call, InvalidRequest("unsupported jsonrpc version: " + req.JSONRPC)
	}

	// The method field is optional; when present it must agree with the URL.
	if req.Method != "" {
		domain, action, ok := splitMethod(req.Method)
		if !ok {
			return call, InvalidRequest("method must have the form domain.action")
		}
		if pathDomain == "" && pathAction == "" {
			call.Domain, call.Action = domain, action
		} else if domain != pathDomain || action != pathAction {
			return call, InvalidRequest("method does not match request path")
		}
	}

	if call.Domain == "" || call.Action == "" {
		return call, InvalidRequest("missing method")
	}

	return call, nil
}

// EncodeSuccess builds a success envelope echoing the request id.
func EncodeSuccess(id json.RawMessage, result interface{}) *Response {
	if id == nil {
		id = NullID
	}
	return &Response{JSONRPC: Version, ID: id, Result: result}
}

// EncodeError builds a failure envelope echoing the request id.
func EncodeError(id json.RawMessage, rpcErr *Error) *Response {
	if id == nil {
		id = NullID
	}
	return &Response{JSONRPC: Version, ID: id, Error: rpcErr}
}

func splitMethod(method string) (domain, action string, ok bool) {
	i := strings.IndexByte(method, '.')
	if i <= 0 || i == len(method)-1 {
		return "", "", false
	}
	return method[:i], method[i+1:], true
}
