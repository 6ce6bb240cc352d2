package helpers

import (
	"errors"
	"fmt"
)

// SystemError wraps external errors (such as the document store) and lets the
// caller add additional context information. These are the retryable errors;
// the store primitives are all-or-nothing, so a failed call left no partial state.
type SystemError struct {
	Context string // eg. Function Name
	Err     error
}

func (se *SystemError) Error() string {
	return fmt.Sprintf("%s: %v", se.Context, se.Err)
}

func (se *SystemError) Unwrap() error {
	return se.Err
}

// WrapError lets the caller add context information to another error
// (eg. after receiving a DB error)
func WrapError(err error, info string) *SystemError {
	return &SystemError{
		Context: info,
		Err:     err,
	}
}

// IsSystemError tells whether an error came from the store boundary (retryable)
// rather than from domain validation (terminal)
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}
