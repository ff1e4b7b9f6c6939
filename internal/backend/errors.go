package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Error codes
const (
	CodeNetwork      = "network_error"
	CodeUnauthorized = "unauthorized"
	CodeNotFound     = "not_found"
	CodeBadRequest   = "bad_request"
	CodeServer       = "server_error"
	CodeBadResponse  = "bad_response"
)

// Error is a failed collaborator call. Message is the best message the
// server offered, suitable for showing to the user.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("backend %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func codeFor(status int) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CodeUnauthorized
	case status == http.StatusNotFound:
		return CodeNotFound
	case status >= 500:
		return CodeServer
	default:
		return CodeBadRequest
	}
}

// serverMessage picks "error", "message" or "detail" from a JSON error body
func serverMessage(status int, body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, key := range []string{"error", "message", "detail"} {
			raw, ok := fields[key]
			if !ok {
				continue
			}
			var s string
			if json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != "" {
				return s
			}
			if len(raw) > 0 && string(raw) != "null" {
				return string(raw)
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}
