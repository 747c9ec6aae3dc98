package service

import (
	"errors"
	"fmt"
	"net/http"

	"talehub/internal/microservices/http-api/repository"
)

// HTTPError is implemented by every domain error that maps onto a status code.
type HTTPError interface {
	error
	StatusCode() int
}

type (
	// ValidationError indicates missing or malformed input.
	ValidationError struct {
		Message string
	}

	// NotFoundError indicates an id that does not resolve.
	NotFoundError struct {
		Message string
	}

	// ForbiddenError indicates the actor may not mutate the resource.
	ForbiddenError struct {
		Message string
	}
)

func (e *ValidationError) Error() string { return e.Message }
func (e *NotFoundError) Error() string   { return e.Message }
func (e *ForbiddenError) Error() string  { return e.Message }

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }
func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ForbiddenError) StatusCode() int  { return http.StatusForbidden }

// Sentinel errors, use with errors.Is()
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
)

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ForbiddenError) Is(target error) bool  { return target == ErrForbidden }

func newValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func newNotFoundError(resource string) error {
	return &NotFoundError{Message: resource + " not found"}
}

func newForbiddenError(format string, args ...any) error {
	return &ForbiddenError{Message: fmt.Sprintf(format, args...)}
}

// lookupError turns a repository miss into a NotFoundError for resource and
// wraps anything else.
func lookupError(err error, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return newNotFoundError(resource)
	}
	return fmt.Errorf("failed to load %s: %w", resource, err)
}

// validate runs the request's rules and reports failures as a ValidationError.
func validate(v interface{ Validate() error }) error {
	if err := v.Validate(); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return nil
}
