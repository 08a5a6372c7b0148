package domain

import (
	"errors"
	"strings"
)

var (
	ErrForbidden  = errors.New("access forbidden")
	ErrValidation = errors.New("validation failed")
)

// ValidationError lists the field constraints an input violated.
type ValidationError struct {
	Fields []string
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return strings.Join(e.Fields, "; ")
}

// Is makes errors.Is(err, ErrValidation) hold for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
