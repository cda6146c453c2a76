package repository

import (
	"errors"
	"fmt"
)

// ErrTransactionTimeout is returned when a transaction could not get a slot
// within its wait budget or did not finish within its execution timeout.
var ErrTransactionTimeout = errors.New("repository: transaction timed out")

// UniqueViolationError reports a unique constraint violation. Column is empty
// when the violated column could not be determined.
type UniqueViolationError struct {
	Constraint string
	Column     string
	Err        error
}

func (e *UniqueViolationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Column != "" {
		return fmt.Sprintf("unique constraint %q violated on column %s", e.Constraint, e.Column)
	}
	return fmt.Sprintf("unique constraint %q violated", e.Constraint)
}

func (e *UniqueViolationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// AsUniqueViolation returns the unique violation in err's chain, if any.
func AsUniqueViolation(err error) (*UniqueViolationError, bool) {
	var uv *UniqueViolationError
	if errors.As(err, &uv) {
		return uv, true
	}
	return nil, false
}
