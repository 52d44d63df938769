package portalapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Status is the tag of a backend response envelope.
type Status int

const (
	StatusSuccess Status = iota + 1
	StatusResent
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusResent:
		return "resent"
	case StatusFail:
		return "fail"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is a parsed backend response.
type Result struct {
	Status  Status
	Message string
	// Data is the envelope's "data" member, or the whole body when the
	// response is not enveloped.
	Data json.RawMessage

	Endpoint   string
	StatusCode int
}

// Err returns an *APIError for a fail-tagged result and nil otherwise.
func (r Result) Err() error {
	if r.Status != StatusFail {
		return nil
	}
	return &APIError{Endpoint: r.Endpoint, StatusCode: r.StatusCode, Message: r.Message}
}

// Decode unmarshals Data into v.
func (r Result) Decode(v any) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("response has no data")
	}
	return json.Unmarshal(r.Data, v)
}

type envelope struct {
	Status  *string         `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// message prefers the top-level message and falls back to data.message.
func (e envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	var inner struct {
		Message string `json:"message"`
	}
	if len(e.Data) > 0 && e.Data[0] == '{' && json.Unmarshal(e.Data, &inner) == nil {
		return inner.Message
	}
	return ""
}

func parseStatus(tag string) (Status, error) {
	switch tag {
	case "success", "ok":
		return StatusSuccess, nil
	case "resent":
		return StatusResent, nil
	case "fail":
		return StatusFail, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, tag)
	}
}

// ParseResult interprets a 2xx response body. Bodies without a status tag
// (an empty body, a bare array, an untagged object) are successes.
func ParseResult(body []byte) (Result, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Result{Status: StatusSuccess}, nil
	}
	if trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			return Result{}, fmt.Errorf("invalid JSON body")
		}
		return Result{Status: StatusSuccess, Data: json.RawMessage(trimmed)}, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Result{}, fmt.Errorf("failed to decode envelope: %w", err)
	}

	res := Result{Status: StatusSuccess, Message: env.message(), Data: env.Data}
	if len(res.Data) == 0 || bytes.Equal(res.Data, []byte("null")) {
		res.Data = json.RawMessage(trimmed)
	}
	if env.Status == nil {
		return res, nil
	}

	status, err := parseStatus(*env.Status)
	if err != nil {
		return Result{}, err
	}
	res.Status = status
	return res, nil
}

// failureMessage pulls {message} out of an error body, falling back to the
// raw text.
func failureMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if msg := env.message(); msg != "" {
			return msg
		}
	}
	return string(bytes.TrimSpace(body))
}
