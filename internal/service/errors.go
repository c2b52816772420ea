package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Store-level errors (not-found, duplicate) and domain validation errors are
// never replaced: they stay reachable through errors.Is/errors.As so the API
// layer can map them to status codes.
var (
	// ErrInvalidCredentials indicates an unknown e-mail or a wrong password.
	// The two cases are deliberately indistinguishable.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ServiceError records which service operation failed.
type ServiceError struct {
	// Service is the service name (e.g. "recipe", "tag")
	Service string
	// Op is the operation that failed (e.g. "create", "update")
	Op string
	// Err is the underlying error
	Err error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
	}
	return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err with the service and operation that failed.
func NewServiceError(service, op string, err error) error {
	return &ServiceError{
		Service: service,
		Op:      op,
		Err:     err,
	}
}
