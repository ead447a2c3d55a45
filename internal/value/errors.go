package value

import (
	"errors"
	"fmt"
)

// ParseReason categorizes parse failures.
type ParseReason string

const (
	// ReasonNoDigits indicates an empty span or one with no digits at all.
	ReasonNoDigits ParseReason = "NO_DIGITS"

	// ReasonOverflow indicates a number above the target kind's range.
	ReasonOverflow ParseReason = "OVERFLOW"

	// ReasonUnderflow indicates a number below the target kind's range.
	ReasonUnderflow ParseReason = "UNDERFLOW"

	// ReasonSyntax indicates digits mixed with bytes the kind does not allow.
	ReasonSyntax ParseReason = "SYNTAX"

	// ReasonBadBool indicates a token other than 1/0/true/false.
	ReasonBadBool ParseReason = "BAD_BOOL"

	// ReasonBadFloat indicates text that is not a floating point literal.
	ReasonBadFloat ParseReason = "BAD_FLOAT"

	// ReasonUnsupported indicates a kind that cannot be parsed from text.
	ReasonUnsupported ParseReason = "UNSUPPORTED_KIND"
)

// ParseError reports text that does not conform to a kind's lexical rules.
type ParseError struct {
	Kind   Kind
	Input  string
	Reason ParseReason
	Err    error // Underlying strconv error, if any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %s", e.Kind, e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CastReason categorizes cast failures.
type CastReason string

const (
	// ReasonSourceMismatch indicates the value's kind is not the cast's source kind.
	ReasonSourceMismatch CastReason = "SOURCE_MISMATCH"

	// ReasonUnsupportedTarget indicates no conversion exists to the target kind.
	ReasonUnsupportedTarget CastReason = "UNSUPPORTED_TARGET"

	// ReasonNotNumeric indicates a non-numeric value in a numeric context.
	ReasonNotNumeric CastReason = "NOT_NUMERIC"

	// ReasonParseFailed indicates a String source whose text did not parse.
	ReasonParseFailed CastReason = "PARSE_FAILED"
)

// CastError reports a conversion that was refused. The value is never
// mutated when a CastError is returned.
type CastError struct {
	From   Kind
	To     Kind
	Reason CastReason
	Err    error
}

func (e *CastError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cast %s to %s: %s: %v", e.From, e.To, e.Reason, e.Err)
	}
	return fmt.Sprintf("cast %s to %s: %s", e.From, e.To, e.Reason)
}

func (e *CastError) Unwrap() error {
	return e.Err
}

// ErrIncomparable is returned by Compare for kinds with no common ordering.
var ErrIncomparable = errors.New("incomparable values")

// ErrOffsetOutOfRange is returned by Tuple accessors given a bad offset.
var ErrOffsetOutOfRange = errors.New("tuple offset out of range")

// IsParseError returns true if err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsCastError returns true if err is or wraps a *CastError.
func IsCastError(err error) bool {
	var ce *CastError
	return errors.As(err, &ce)
}
