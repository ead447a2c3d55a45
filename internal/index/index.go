package index

import (
	"github.com/google/uuid"

	"github.com/roach88/sidx/internal/query"
	"github.com/roach88/sidx/internal/value"
)

// ID identifies an indexed entity.
type ID string

// NewID returns a fresh time-sortable identifier (UUIDv7).
//
// Panics if UUID generation fails (should never happen in practice).
func NewID() ID {
	return ID(uuid.Must(uuid.NewV7()).String())
}

// SIIndex is the secondary index contract.
type SIIndex interface {
	// Apply applies an ordered batch of changes. Either every change is
	// applied or none is; a failed batch returns an *IndexError.
	Apply(changes []Change) error

	// Find returns a cursor over the identifiers matching q, in ascending
	// identifier order. A nil q matches everything. Failures surface through
	// the cursor's error flag.
	Find(q query.ParseNode) *Cursor

	// Len returns the number of indexed identifiers.
	Len() int
}

// Backend is an SIIndex that can also materialize rows and be closed.
type Backend interface {
	SIIndex

	// Row returns the values indexed for id. The caller owns the returned
	// values and must release them.
	Row(id ID) ([]value.SIValue, error)

	// Close releases everything the backend holds.
	Close() error
}
