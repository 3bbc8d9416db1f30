package scan

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrEmptyResult means the scan produced no usable items. Callers should
	// fall back to manual entry.
	ErrEmptyResult = errors.New("no usable items found on the receipt")

	// ErrPayloadTooLarge means the image could not be brought under the
	// payload limit.
	ErrPayloadTooLarge = errors.New("image exceeds the maximum payload size")

	// ErrInvalidImage means the image bytes could not be decoded.
	ErrInvalidImage = errors.New("image could not be decoded")
)

// FailureClass normalizes why the scanning service failed.
type FailureClass string

const (
	ClassBadRequest      FailureClass = "bad_request"
	ClassForbiddenOrigin FailureClass = "forbidden_origin"
	ClassPayloadTooLarge FailureClass = "payload_too_large"
	ClassRateLimited     FailureClass = "rate_limited"
	ClassTimeout         FailureClass = "timeout"
	ClassUnavailable     FailureClass = "unavailable"
	ClassBadData         FailureClass = "bad_data"
)

// UpstreamError wraps a failed call to the scanning service.
// It is always recoverable: the user can enter items by hand.
type UpstreamError struct {
	Class      FailureClass
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("scan service [%s]", e.Class)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" status %d", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Retryable reports whether trying again later may succeed.
func (e *UpstreamError) Retryable() bool {
	return e.Class == ClassTimeout || e.Class == ClassUnavailable || e.Class == ClassRateLimited
}

// classify maps a non-2xx status from the scanning service to a failure class.
func classify(status int) FailureClass {
	switch status {
	case http.StatusBadRequest:
		return ClassBadRequest
	case http.StatusForbidden:
		return ClassForbiddenOrigin
	case http.StatusRequestEntityTooLarge:
		return ClassPayloadTooLarge
	case http.StatusTooManyRequests:
		return ClassRateLimited
	case http.StatusGatewayTimeout:
		return ClassTimeout
	default:
		return ClassUnavailable
	}
}
