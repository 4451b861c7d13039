package core

import "github.com/pkg/errors"

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
		return ""
	}
	return err.Err.Error()
}

// ConflictError is returned by storage implementations when a record was
// modified concurrently (compare-and-swap on status failed). The caller may
// re-read and retry.
type ConflictError struct {
	Resource string
	ID       string
}

func NewConflictError(resource, id string) error {
	return &ConflictError{Resource: resource, ID: id}
}

func (err ConflictError) Error() string {
	return err.Resource + " " + err.ID + " was modified concurrently"
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
