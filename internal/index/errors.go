package index

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes index errors.
type ErrorCode string

const (
	// ErrCodeInvalidChange indicates a malformed change record.
	ErrCodeInvalidChange ErrorCode = "INVALID_CHANGE"

	// ErrCodeDuplicateID indicates an Add for an identifier already indexed.
	ErrCodeDuplicateID ErrorCode = "DUPLICATE_ID"

	// ErrCodeMissingID indicates a Delete or lookup of an absent identifier.
	ErrCodeMissingID ErrorCode = "MISSING_ID"

	// ErrCodeSchemaViolation indicates a row that does not satisfy the Spec.
	ErrCodeSchemaViolation ErrorCode = "SCHEMA_VIOLATION"

	// ErrCodeInvalidQuery indicates a query that cannot run against the Spec.
	ErrCodeInvalidQuery ErrorCode = "INVALID_QUERY"

	// ErrCodeBackend indicates a failure of the underlying storage.
	ErrCodeBackend ErrorCode = "BACKEND"
)

// IndexError reports a failed batch, lookup or query.
// A batch that fails with an IndexError left the index unchanged.
type IndexError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// ID is the affected identifier, if any.
	ID ID

	// Change is the offending position in the batch, or -1.
	Change int

	// Err is the underlying cause, if any.
	Err error
}

func (e *IndexError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	switch {
	case e.ID != "" && e.Change >= 0:
		msg = fmt.Sprintf("%s (id=%s, change=%d)", msg, e.ID, e.Change)
	case e.ID != "":
		msg = fmt.Sprintf("%s (id=%s)", msg, e.ID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

// NewChangeError creates an IndexError for change i of a batch.
func NewChangeError(code ErrorCode, i int, id ID, err error) *IndexError {
	return &IndexError{Code: code, Message: changeMessage(code), ID: id, Change: i, Err: err}
}

// NewQueryError creates an IndexError for a rejected query.
func NewQueryError(err error) *IndexError {
	return &IndexError{Code: ErrCodeInvalidQuery, Message: "query rejected", Change: -1, Err: err}
}

// NewBackendError creates an IndexError wrapping a storage failure.
func NewBackendError(message string, err error) *IndexError {
	return &IndexError{Code: ErrCodeBackend, Message: message, Change: -1, Err: err}
}

func changeMessage(code ErrorCode) string {
	switch code {
	case ErrCodeDuplicateID:
		return "id already indexed"
	case ErrCodeMissingID:
		return "id not indexed"
	case ErrCodeSchemaViolation:
		return "row violates spec"
	default:
		return "invalid change"
	}
}

// HasCode returns true if err is or wraps an IndexError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var ie *IndexError
	if errors.As(err, &ie) {
		return ie.Code == code
	}
	return false
}
