package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind classifies every failure the client can surface. Callers branch on
// the kind (usually just "is this an auth failure"), not on raw status codes.
type Kind string

const (
	// KindUnreachable is a transport-level failure: connection refused,
	// DNS failure, timeout. Status is 0 and the stored tokens are kept.
	KindUnreachable Kind = "unreachable"
	// KindRateLimited is HTTP 429 that survived the retry budget.
	KindRateLimited Kind = "rate_limited"
	// KindSessionExpired is HTTP 401 that refresh could not resolve. The
	// stored tokens have been cleared by the time the caller sees this.
	KindSessionExpired Kind = "session_expired"
	// KindRequestFailed is any other non-2xx response.
	KindRequestFailed Kind = "request_failed"
)

// Error is the single error shape the client emits. Raw transport and decode
// errors never escape unwrapped.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("api: %s (status %d): %s", e.Kind, e.Status, e.Message)
}

func IsUnreachable(err error) bool    { return hasKind(err, KindUnreachable) }
func IsRateLimited(err error) bool    { return hasKind(err, KindRateLimited) }
func IsSessionExpired(err error) bool { return hasKind(err, KindSessionExpired) }

func hasKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// serverMessage pulls the backend's error text out of a structured body.
// The backend writes {"error": "code"}; some endpoints use "message".
func serverMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return ""
}
