package agg

import (
	"errors"
	"fmt"

	"github.com/roach88/sidx/internal/value"
)

// ErrStep is wrapped by every StepError.
var ErrStep = errors.New("aggregate step failed")

// StepError reports an input row an aggregate could not consume.
type StepError struct {
	// Func is the aggregate name, e.g. "sum".
	Func string

	// Row is the zero-based position of the row in the input stream.
	Row int

	// Kind is the kind of the offending value.
	Kind value.Kind

	// Err is the underlying cause.
	Err error
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("%s: row %d: cannot aggregate %s value", e.Func, e.Row, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns both ErrStep and the cause.
func (e *StepError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStep}
	}
	return []error{ErrStep, e.Err}
}

// IsStepError returns true if err is or wraps a StepError.
func IsStepError(err error) bool {
	var se *StepError
	return errors.As(err, &se)
}
