package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrRoomUnavailable    = errors.New("room unavailable")
	ErrNotFound           = errors.New("not found")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// Specific not-found errors; errors.Is(err, ErrNotFound) holds for all of them.
var (
	ErrUserNotFound  = fmt.Errorf("user %w", ErrNotFound)
	ErrHotelNotFound = fmt.Errorf("hotel %w", ErrNotFound)
	ErrRoomNotFound  = fmt.Errorf("room %w", ErrNotFound)
)

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError returns a *ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error { return ErrValidation }
