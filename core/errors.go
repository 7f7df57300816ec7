package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return fmt.Sprintf("%s: %s", err.Fields[0].Field, err.Fields[0].Error)
		}
		return ""
	}
	return err.Err.Error()
}

// NetworkError reports a failed call to a remote collaborator.
// Op names the call, e.g. "GET /courses/1".
type NetworkError struct {
	Op     string
	Status int // 0 when no response was received
	Err    error
}

func NewNetworkError(op string, status int, err error) error {
	return &NetworkError{Op: op, Status: status, Err: err}
}

func (err *NetworkError) Error() string {
	if err.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", err.Op, err.Status, err.Err)
	}
	return fmt.Sprintf("%s: %v", err.Op, err.Err)
}

func (err *NetworkError) Unwrap() error { return err.Err }

func IsNetworkError(err error) bool {
	_, ok := errors.Cause(err).(*NetworkError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
