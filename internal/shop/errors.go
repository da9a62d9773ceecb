package shop

import (
	"errors"

	"github.com/you/storefront/internal/store"
)

// ValidationError means the request itself was wrong and retrying it
// unchanged will fail again.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func invalid(msg string) error { return &ValidationError{Message: msg} }

// classify turns store sentinels into service errors. Anything else is a
// store failure and passes through untouched.
func classify(err error, resource string) error {
	if err == nil {
		return nil
	}
	if store.IsNotFound(err) {
		return &NotFoundError{Resource: resource}
	}
	if store.IsInvalidInput(err) {
		var se *store.Error
		if errors.As(err, &se) {
			return &ValidationError{Message: se.Cause.Error()}
		}
		return &ValidationError{Message: err.Error()}
	}
	return err
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
