package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrRequestFailed     = errors.New("request failed")
	ErrMalformedResponse = errors.New("malformed response")
	ErrFormDataRequired  = errors.New("form data body required")
)

// Error describes a failed gateway call. Err is one of the sentinel errors
// above (possibly joined with the transport cause); Status is 0 when no HTTP
// response was received.
type Error struct {
	Method  string
	URL     string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "request error"
	}
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %v: %s", e.Method, e.URL, e.Err, e.Message)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ServerMessage returns the message the server attached to a failed call,
// or "" when err carries none.
func ServerMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
