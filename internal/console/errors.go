package console

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrBusy is returned when a mutation is already in flight on the same view.
	ErrBusy = errors.New("another request is in progress")
	// ErrNotLoggedIn is returned when a call needs credentials and none are held.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrTicketNotLoaded is returned when acting on a ticket absent from the local list.
	ErrTicketNotLoaded = errors.New("ticket not in the current list")
	// ErrSessionChanged is returned when the user logged out or switched
	// while a request was in flight; its response is discarded.
	ErrSessionChanged = errors.New("session changed during request")
)

// TransportError wraps failures to reach the backend at all.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-success HTTP response from the backend.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]any
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// ValidationError is raised locally before any request is sent.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// parseAPIError understands the service error envelope as well as the
// {"detail": ...} bodies produced by the portal proxy.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var envelope struct {
		Error *struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		switch {
		case envelope.Error != nil:
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
			apiErr.Details = envelope.Error.Details
		case envelope.Detail != nil:
			if msg, ok := envelope.Detail.(string); ok {
				apiErr.Message = msg
			} else {
				raw, _ := json.Marshal(envelope.Detail)
				apiErr.Message = string(raw)
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
