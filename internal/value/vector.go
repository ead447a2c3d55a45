package value

// maxGrowStep caps how many slots a single Vector growth adds.
const maxGrowStep = 1024

// Vector is a growable, insertion-ordered sequence of values (SIValueVector).
//
// Capacity grows 0 -> 1 -> 2 -> 4 ..., doubling until a single step would
// add more than maxGrowStep slots, then by maxGrowStep at a time.
type Vector struct {
	vals []SIValue
}

// NewVector creates an empty vector with the given initial capacity.
func NewVector(capacity int) *Vector {
	if capacity < 0 {
		capacity = 0
	}
	return &Vector{vals: make([]SIValue, 0, capacity)}
}

// Append adds val at the end. The vector takes ownership of val.
func (v *Vector) Append(val SIValue) {
	if len(v.vals) == cap(v.vals) {
		v.grow()
	}
	v.vals = append(v.vals, val)
}

func (v *Vector) grow() {
	c := cap(v.vals)
	next := 1
	if c > 0 {
		next = c + min(c, maxGrowStep)
	}
	grown := make([]SIValue, len(v.vals), next)
	copy(grown, v.vals)
	v.vals = grown
}

// Len returns the number of values.
func (v *Vector) Len() int { return len(v.vals) }

// Cap returns the current capacity.
func (v *Vector) Cap() int { return cap(v.vals) }

// At returns the value at offset i. It panics if i is out of range.
func (v *Vector) At(i int) SIValue { return v.vals[i] }

// Values returns the contents in insertion order. The slice aliases the
// vector's storage and is invalidated by Append and Free.
func (v *Vector) Values() []SIValue { return v.vals[:len(v.vals):len(v.vals)] }

// Free releases every element, then the backing storage.
func (v *Vector) Free() {
	for _, val := range v.vals {
		Release(val)
	}
	v.vals = nil
}
