package store

import (
	"errors"
	"fmt"

	"github.com/phrazzld/recipe-api/internal/domain"
)

// Common store errors
var (
	// ErrNotFound indicates that the requested entity does not exist, or that it
	// exists but is not owned by the requesting user. Callers cannot tell the two apart.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate indicates that an entity with the same unique key already exists.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity indicates that the entity was rejected by a database constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInternal indicates an unexpected storage failure.
	ErrInternal = errors.New("internal store error")

	// Entity-specific not found errors. All of them match ErrNotFound.

	ErrUserNotFound       = fmt.Errorf("%w: user", ErrNotFound)
	ErrRecipeNotFound     = fmt.Errorf("%w: recipe", ErrNotFound)
	ErrTagNotFound        = fmt.Errorf("%w: tag", ErrNotFound)
	ErrIngredientNotFound = fmt.Errorf("%w: ingredient", ErrNotFound)

	// Entity-specific duplicate errors. All of them match ErrDuplicate.

	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
	ErrLabelExists = fmt.Errorf("%w: label name", ErrDuplicate)
)

// LabelNotFoundError returns the not-found sentinel for a label kind.
func LabelNotFoundError(kind domain.LabelKind) error {
	if kind == domain.LabelKindIngredient {
		return ErrIngredientNotFound
	}
	return ErrTagNotFound
}

// IsNotFoundError reports whether err is, or wraps, any not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is, or wraps, any duplicate error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsInternalError reports whether err is, or wraps, ErrInternal.
func IsInternalError(err error) bool {
	return errors.Is(err, ErrInternal)
}

// StoreError provides context about a failed store operation while keeping
// the underlying error available to errors.Is and errors.As.
type StoreError struct {
	Entity    string // The entity type (e.g., "user", "recipe")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
