package value

import (
	"bytes"
	"sync/atomic"
)

// stringBuffer is the shared storage behind SIString handles.
type stringBuffer struct {
	data  []byte
	refs  atomic.Int32
	frees atomic.Int32 // Must never exceed 1
}

// SIString is a handle to a shared, reference-counted byte buffer.
//
// Assigning an SIString copies the handle, not the count. Use Copy when a
// second owner needs to keep the buffer alive, and Release once per owner.
// The zero SIString is an empty string with no buffer.
type SIString struct {
	buf *stringBuffer
}

// newSIString takes ownership of b.
func newSIString(b []byte) SIString {
	buf := &stringBuffer{data: b}
	buf.refs.Store(1)
	return SIString{buf: buf}
}

// StringVal creates a string value owning a fresh copy of s.
func StringVal(s string) SIString {
	return newSIString([]byte(s))
}

// StringValBytes creates a string value owning a fresh copy of b.
// The caller keeps ownership of b.
func StringValBytes(b []byte) SIString {
	return newSIString(bytes.Clone(b))
}

// Copy returns a handle sharing the same buffer and increments its count.
// Copying a released buffer is a contract violation and panics.
func (s SIString) Copy() SIString {
	if s.buf == nil {
		return s
	}
	for {
		n := s.buf.refs.Load()
		if n <= 0 {
			panic("value: copy of released string buffer")
		}
		if s.buf.refs.CompareAndSwap(n, n+1) {
			return s
		}
	}
}

// DeepCopy returns a handle to a new buffer holding the same bytes.
func (s SIString) DeepCopy() SIString {
	return newSIString(bytes.Clone(s.Bytes()))
}

// Release decrements the count and frees the buffer when it reaches zero.
// Releasing more times than the buffer was owned panics.
func (s SIString) Release() {
	if s.buf == nil {
		return
	}
	n := s.buf.refs.Add(-1)
	switch {
	case n == 0:
		s.buf.data = nil
		s.buf.frees.Add(1)
	case n < 0:
		panic("value: release of freed string buffer")
	}
}

// Bytes returns the buffer contents, or nil once the buffer is freed.
// The returned slice must not be modified.
func (s SIString) Bytes() []byte {
	if s.buf == nil {
		return nil
	}
	return s.buf.data
}

// Text returns the contents as a Go string.
func (s SIString) Text() string {
	return string(s.Bytes())
}

// Len returns the exact byte length of the contents.
func (s SIString) Len() int {
	return len(s.Bytes())
}

// Refs returns the current reference count (0 once freed).
func (s SIString) Refs() int32 {
	if s.buf == nil {
		return 0
	}
	return s.buf.refs.Load()
}

// Live reports whether the buffer is still held by at least one owner.
func (s SIString) Live() bool {
	return s.Refs() > 0
}

// SameBuffer reports whether both handles share one buffer.
func (s SIString) SameBuffer(o SIString) bool {
	return s.buf != nil && s.buf == o.buf
}
