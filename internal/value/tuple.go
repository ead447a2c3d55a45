package value

import "fmt"

// Tuple is a fixed-length sequence of values (SITuple). New slots hold Null.
type Tuple struct {
	vals []SIValue
}

// NewTuple creates a tuple of n Null values.
func NewTuple(n int) *Tuple {
	vals := make([]SIValue, n)
	for i := range vals {
		vals[i] = SINull{}
	}
	return &Tuple{vals: vals}
}

// TupleOf creates a tuple holding vals. The tuple takes ownership of them.
func TupleOf(vals ...SIValue) *Tuple {
	t := &Tuple{vals: make([]SIValue, len(vals))}
	copy(t.vals, vals)
	return t
}

// Len returns the fixed length.
func (t *Tuple) Len() int { return len(t.vals) }

// Set stores v at offset i, releasing the value it replaces.
// An offset outside [0, Len) is rejected and nothing changes.
func (t *Tuple) Set(i int, v SIValue) error {
	if i < 0 || i >= len(t.vals) {
		return fmt.Errorf("set %d of %d: %w", i, len(t.vals), ErrOffsetOutOfRange)
	}
	Release(t.vals[i])
	t.vals[i] = v
	return nil
}

// Get returns the value at offset i.
func (t *Tuple) Get(i int) (SIValue, error) {
	if i < 0 || i >= len(t.vals) {
		return nil, fmt.Errorf("get %d of %d: %w", i, len(t.vals), ErrOffsetOutOfRange)
	}
	return t.vals[i], nil
}

// Values returns the contents. The slice aliases the tuple's storage.
func (t *Tuple) Values() []SIValue { return t.vals }

// Free releases every element.
func (t *Tuple) Free() {
	for i, v := range t.vals {
		Release(v)
		t.vals[i] = SINull{}
	}
}
