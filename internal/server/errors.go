// Package server provides the HTTP API for resume analysis.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-analyzer/internal/pipeline"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates the requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnsupportedMedia indicates an upload in a format the service cannot read
type ErrUnsupportedMedia struct {
	Filename string
	Cause    error
}

func (e *ErrUnsupportedMedia) Error() string {
	return fmt.Sprintf("unsupported media: %s", e.Filename)
}

func (e *ErrUnsupportedMedia) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr  *ErrValidation
		notFoundErr    *ErrNotFound
		unsupportedErr *ErrUnsupportedMedia
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr), errors.Is(err, pipeline.ErrEmptyResume):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &unsupportedErr):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}
