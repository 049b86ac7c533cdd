package smoke

import (
	"errors"
	"fmt"
)

// Failure kinds. Every error returned by a case wraps exactly one of them.
var (
	ErrAssertion = errors.New("assertion failed")
	ErrOperation = errors.New("operation failed")
)

// AssertionError reports a check whose observed value did not match
type AssertionError struct {
	What     string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %s to match %q, got %q", ErrAssertion, e.What, e.Expected, e.Actual)
}

func (e *AssertionError) Unwrap() error {
	return ErrAssertion
}

// operationError wraps a driver failure as ErrOperation
func operationError(action string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrOperation, action, err)
}

// Kind names the failure class of err: "assertion", "operation" or "" for nil.
// Errors outside both classes, such as context cancellation, are reported as operation failures.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAssertion):
		return "assertion"
	default:
		return "operation"
	}
}
