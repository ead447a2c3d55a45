package index

import (
	"fmt"

	"github.com/roach88/sidx/internal/value"
)

// ChangeKind is the operation of a change record.
type ChangeKind int

const (
	ChangeAdd ChangeKind = iota
	ChangeDelete
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdd:
		return "add"
	case ChangeDelete:
		return "delete"
	}
	return fmt.Sprintf("change(%d)", int(k))
}

// ParseChangeKind resolves "add" or "delete".
func ParseChangeKind(s string) (ChangeKind, error) {
	switch s {
	case "add", "ADD":
		return ChangeAdd, nil
	case "delete", "DELETE", "del":
		return ChangeDelete, nil
	}
	return 0, fmt.Errorf("unknown change kind %q", s)
}

// Change is the atomic unit of index mutation.
//
// For ChangeAdd, Values holds one value per indexed property, in Spec order.
// The index never takes ownership of Values; it retains what it stores.
// For ChangeDelete, Values is ignored.
type Change struct {
	Kind   ChangeKind
	ID     ID
	Values []value.SIValue
}

// Add creates an Add change record.
func Add(id ID, vals ...value.SIValue) Change {
	return Change{Kind: ChangeAdd, ID: id, Values: vals}
}

// Delete creates a Delete change record.
func Delete(id ID) Change {
	return Change{Kind: ChangeDelete, ID: id}
}
