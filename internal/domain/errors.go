// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// ValidationError and ValidationErrors both match it with errors.Is.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for the given field.
// If err is nil the error unwraps to ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying cause, defaulting to ErrValidation.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}

// Is reports whether target is ErrValidation, so that specific causes
// (e.g. ErrEmptyRecipeTitle) and the generic sentinel both match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidationErrors collects the field errors found while validating one entity.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes every field error to errors.Is and errors.As.
func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(v))
	for _, e := range v {
		errs = append(errs, e)
	}
	return errs
}

// Fields returns the errors keyed by field name. When a field failed more
// than once, the first message wins.
func (v ValidationErrors) Fields() map[string]string {
	fields := make(map[string]string, len(v))
	for _, e := range v {
		if _, exists := fields[e.Field]; !exists {
			fields[e.Field] = e.Message
		}
	}
	return fields
}

// ErrOrNil returns nil for an empty collection, so callers can
// `return errs.ErrOrNil()` without producing a typed-nil error.
func (v ValidationErrors) ErrOrNil() error {
	if len(v) == 0 {
		return nil
	}
	sort.SliceStable(v, func(i, j int) bool { return v[i].Field < v[j].Field })
	return v
}

// FieldErrors extracts a field→message map from any error that carries
// validation details. The second result is false if err holds none.
func FieldErrors(err error) (map[string]string, bool) {
	var multi ValidationErrors
	if errors.As(err, &multi) {
		return multi.Fields(), true
	}
	var single *ValidationError
	if errors.As(err, &single) {
		return map[string]string{single.Field: single.Message}, true
	}
	return nil, false
}
