// Package value provides the dynamically-typed scalar values stored in and
// queried from secondary indexes.
//
// This package is the foundation layer: every other internal package imports
// value; value imports nothing internal.
//
// SIValue is a sealed interface. Each kind has exactly one Go type, so the
// active kind can never disagree with the payload being read:
//
//	SIInt32, SIInt64, SIUInt64, SIFloat32, SIFloat64,
//	SIBool, SITime, SIString, SINull, SIPosInf, SINegInf
//
// OWNERSHIP:
//
// Scalars are plain Go values and are copied freely. SIString is a handle to
// a shared, reference-counted byte buffer:
//   - Copy shares the buffer and increments its count (no byte copy)
//   - DeepCopy allocates a new buffer with a count of 1
//   - Release decrements the count; the buffer is freed when it reaches 0
//
// Containers (Vector, Tuple) own their elements and release every string
// they hold when freed.
//
// Reference counts are atomic, so handles may cross goroutines. Nothing else
// in this package is safe for concurrent mutation.
package value
