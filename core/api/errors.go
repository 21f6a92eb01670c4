package api

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/pkg/errors"
)

// Error is a failed API call: a non-2xx status or an envelope with success=false.
type Error struct {
	StatusCode int
	Message    string
	Code       string // errorCode, when the backend sends one
	RequestID  string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, msg)
}

// AsError returns the *Error behind err, if any.
func AsError(err error) (*Error, bool) {
	apiErr, ok := errors.Cause(err).(*Error)
	return apiErr, ok
}

// IsUnauthorized reports whether err means the session is gone.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	apiErr, ok := AsError(err)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// IsTransport reports whether err happened on the way to or from the backend.
func IsTransport(err error) bool {
	cause := errors.Cause(err)
	if cause == context.Canceled || cause == context.DeadlineExceeded {
		return true
	}
	_, ok := cause.(net.Error)
	return ok
}

// Message returns the backend message carried by err, or err's text for transport failures.
func Message(err error) string {
	if apiErr, ok := AsError(err); ok {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return http.StatusText(apiErr.StatusCode)
	}
	return err.Error()
}

func errSessionExpired(requestID string) *Error {
	return &Error{StatusCode: http.StatusUnauthorized, Message: "session expired", RequestID: requestID}
}
