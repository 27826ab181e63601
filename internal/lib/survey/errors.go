package survey

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every validation failure
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError describes one rejected parameter
type InvalidInputError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field string, value interface{}, reason string) error {
	return &InvalidInputError{Field: field, Value: value, Reason: reason}
}
