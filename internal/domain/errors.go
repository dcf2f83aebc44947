package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreNotFound signals a missing store.
	ErrStoreNotFound = errors.New("store not found")
	// ErrUserNotFound signals a missing user.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotOwner signals a mutation attempt by a caller that does not own the store.
	ErrNotOwner = errors.New("not the store owner")
	// ErrValidation signals malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrSlugTaken signals a slug uniqueness conflict at persist time.
	ErrSlugTaken = errors.New("slug already taken")
	// ErrUnauthenticated signals a caller without an identity on an operation that requires one.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError wraps ErrValidation with the offending field and reason.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidation creates a validation error for a single field.
func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
