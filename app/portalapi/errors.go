package portalapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnknownStatus is wrapped by MalformedResponseError when the envelope
// carries a status tag outside success/ok/resent/fail.
var ErrUnknownStatus = errors.New("unknown response status")

// TransportError means no response was received.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a response with a non-success HTTP status, or a "fail" tag
// surfaced through Result.Err.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// MalformedResponseError is a success status whose body could not be
// interpreted.
type MalformedResponseError struct {
	Endpoint string
	Body     string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Endpoint, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Message returns the text to show in an error banner for err.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return http.StatusText(apiErr.StatusCode)
	}

	var malformed *MalformedResponseError
	if errors.As(err, &malformed) {
		if body := strings.TrimSpace(malformed.Body); body != "" {
			return body
		}
		return "The portal sent an unexpected response."
	}

	var transport *TransportError
	if errors.As(err, &transport) {
		return fmt.Sprintf("Could not reach the portal: %v", transport.Err)
	}

	return err.Error()
}
