package commands

import (
	"errors"
	"fmt"
)

// ErrUnauthorized means the acting user is neither the todo's owner nor an
// admin. It surfaces as HTTP 401.
var ErrUnauthorized = errors.New("not authorized for todo owner")

// ValidationError reports a malformed payload: a missing required field or
// an unrecognized enum value. It surfaces as HTTP 400.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
