package appointments

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingRequiredField = errors.New("missing required fields")
	ErrInvalidValue         = errors.New("invalid field value")
	ErrPastDate             = errors.New("appointment date cannot be in the past")
	ErrInvalidMobile        = errors.New("please enter a valid 10-digit mobile number")
	ErrDuplicateSlot        = errors.New("an appointment already exists at this date and time")
	ErrNotFound             = errors.New("appointment not found")
	ErrPersistence          = errors.New("failed to save appointments")
)

// ValidationError is a rejected create/update. It unwraps to one of the
// validation sentinels above.
type ValidationError struct {
	Kind   error
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return e.Kind }

func invalid(kind error, fields ...string) *ValidationError {
	return &ValidationError{Kind: kind, Fields: fields}
}
