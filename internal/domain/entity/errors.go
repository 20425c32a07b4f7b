package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no record exists for the requested telegram id
	ErrNotFound = errors.New("telegram user not found")
	// ErrConflict is returned when a record with the same telegram id already exists
	ErrConflict = errors.New("telegram user already exists")
	// ErrUnauthorized is returned when a request carries no valid credentials
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError describes a single rejected attribute.
type ValidationError struct {
	Field    string
	Expected string
	Actual   string
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// TypeMismatch reports an attribute whose JSON type is wrong.
func TypeMismatch(field, expected, actual string) *ValidationError {
	return &ValidationError{
		Field:    field,
		Expected: expected,
		Actual:   actual,
		Message:  fmt.Sprintf("The type of the %q attribute must be %q, %q given.", field, expected, actual),
	}
}

func TooLong(field string, max int) *ValidationError {
	return &ValidationError{
		Field:    field,
		Expected: fmt.Sprintf("string(max=%d)", max),
		Actual:   "string",
		Message:  fmt.Sprintf("This value is too long. It should have %d characters or less.", max),
	}
}

func Required(field, expected string) *ValidationError {
	return &ValidationError{
		Field:    field,
		Expected: expected,
		Actual:   "null",
		Message:  "This value should not be null.",
	}
}

func Immutable(field string) *ValidationError {
	return &ValidationError{
		Field:    field,
		Expected: "unchanged",
		Message:  fmt.Sprintf("The %q attribute cannot be changed.", field),
	}
}
