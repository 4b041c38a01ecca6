package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// RequestError is any failed API call that is not an authorization failure.
// Status is 0 when the request never produced a response.
type RequestError struct {
	Method string
	Path   string
	Status int
	Detail string
	Err    error
}

func (e *RequestError) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Detail)
	default:
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
}

func (e *RequestError) Unwrap() error { return e.Err }

// NotFound reports a 404 from the API.
func (e *RequestError) NotFound() bool { return e.Status == http.StatusNotFound }

// AuthorizationError is a 401/403 on an authenticated call. By the time the
// caller sees it, the session has already been invalidated.
type AuthorizationError struct {
	Method string
	Path   string
	Status int
	Detail string
}

func (e *AuthorizationError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: unauthorized (%d): %s", e.Method, e.Path, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s %s: unauthorized (%d)", e.Method, e.Path, e.Status)
}

// errorBody covers the shapes the API and the development API produce:
//
//	{"detail": "Email already registered"}
//	{"detail": [{"loc": [...], "msg": "field required"}]}
//	{"error": {"code": "...", "message": "..."}}
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// extractDetail pulls a human-readable message out of an error response.
func extractDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if len(eb.Detail) > 0 {
		var s string
		if err := json.Unmarshal(eb.Detail, &s); err == nil {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(eb.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	if eb.Error != nil {
		return eb.Error.Message
	}
	return ""
}
