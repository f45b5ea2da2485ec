package core

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for classification. Every error returned by the client
// matches exactly one of them via errors.Is, except context errors which are
// returned as-is.
var (
	ErrValidation = errors.New("validation error")
	ErrHTTP       = errors.New("http transport error")
	ErrAPI        = errors.New("api error")
	ErrTimeout    = errors.New("operation timed out")
)

// DefaultOperationFailureMessage is used when a failed operation reports an
// error object without a usable message.
const DefaultOperationFailureMessage = "OCR operation failed."

// ValidationError reports malformed caller input or a response that is
// missing a required field. It is never retried.
type ValidationError struct {
	Message string
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// HTTPError wraps a transport-level failure (connection refused, DNS, TLS).
type HTTPError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying transport error.
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrHTTP.
func (e *HTTPError) Is(target error) bool {
	return target == ErrHTTP
}

// APIError represents a non-2xx HTTP response or a business-level error
// reported in an operation payload. For the latter Status is the status of
// the poll that reported it and OperationID is set.
type APIError struct {
	Status      int
	RequestID   string
	OperationID string
	Message     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.OperationID != "" && e.RequestID != "":
		return fmt.Sprintf("%s (operation_id=%s, request_id=%s)", e.Message, e.OperationID, e.RequestID)
	case e.OperationID != "":
		return fmt.Sprintf("%s (operation_id=%s)", e.Message, e.OperationID)
	case e.RequestID != "":
		return fmt.Sprintf("%s (status=%d, request_id=%s)", e.Message, e.Status, e.RequestID)
	default:
		return e.Message
	}
}

// Is reports whether target is ErrAPI.
func (e *APIError) Is(target error) bool {
	return target == ErrAPI
}

// TimeoutError reports that the wait deadline passed while the operation was
// still running. The server did not reject the operation.
type TimeoutError struct {
	OperationID string
	Timeout     time.Duration
	Attempts    int
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("OCR operation timed out (operation_id=%s, timeout=%s, polls=%d)",
		e.OperationID, e.Timeout, e.Attempts)
}

// Is reports whether target is ErrTimeout.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}
