package errors

import (
	"errors"
	"fmt"
)

// Failure taxonomy for story operations.
var (
	// ErrInvalidMedia marks bad local input rejected before any network call.
	ErrInvalidMedia = errors.New("invalid media")
	// ErrAuth marks a missing token or a 401 from the backend.
	ErrAuth = errors.New("unauthorized")
	// ErrPayloadTooLarge marks a 413 from the backend.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrServer marks any other non-2xx response.
	ErrServer = errors.New("server error")
	// ErrNetwork marks a transport failure or timeout.
	ErrNetwork = errors.New("network error")
	// ErrUnknownMediaKind marks a record whose media kind could not be determined.
	ErrUnknownMediaKind = errors.New("unknown media kind")
)

// Error represents a custom error type
type Error struct {
	Code    string
	Message string
	Err     error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new error with a message
func New(message string) error {
	return &Error{
		Message: message,
	}
}

// Wrap wraps an error with additional message
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Message: message,
		Err:     err,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetMessage returns the error message
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInvalidMedia returns true if the error is an invalid media error
func IsInvalidMedia(err error) bool {
	return errors.Is(err, ErrInvalidMedia)
}

// IsAuth returns true if the error is an authorization error
func IsAuth(err error) bool {
	return errors.Is(err, ErrAuth)
}

// IsPayloadTooLarge returns true if the error is a payload too large error
func IsPayloadTooLarge(err error) bool {
	return errors.Is(err, ErrPayloadTooLarge)
}

// IsServer returns true if the error is a server error
func IsServer(err error) bool {
	return errors.Is(err, ErrServer)
}

// IsNetwork returns true if the error is a network error
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}
