package index

// Source produces identifiers for a Cursor.
type Source interface {
	// Next returns the next identifier, ok=false once exhausted, or an error.
	Next() (id ID, ok bool, err error)

	// Close releases the source. It is called exactly once.
	Close() error
}

// Cursor is a single-pass, lazy iterator over identifiers (SICursor).
type Cursor struct {
	offset int
	total  int
	err    error
	done   bool
	src    Source
}

// NewCursor creates a cursor over src. total is the number of candidates
// the source will examine, used for progress reporting only.
func NewCursor(src Source, total int) *Cursor {
	return &Cursor{src: src, total: total}
}

// FailedCursor returns a cursor whose first Next fails with err.
func FailedCursor(err error) *Cursor {
	return &Cursor{src: failedSource{err: err}}
}

// SliceCursor returns a cursor over a fixed list of identifiers.
func SliceCursor(ids []ID) *Cursor {
	return NewCursor(&sliceSource{ids: ids}, len(ids))
}

// Next advances the cursor. It returns ("", false) when the results are
// exhausted or when the backend failed; check Err to distinguish them.
// Once Next has returned false it keeps doing so.
func (c *Cursor) Next() (ID, bool) {
	if c.done {
		return "", false
	}
	id, ok, err := c.src.Next()
	if err != nil {
		c.err = err
		c.finish()
		return "", false
	}
	if !ok {
		c.finish()
		return "", false
	}
	c.offset++
	return id, true
}

func (c *Cursor) finish() {
	c.done = true
	if cerr := c.src.Close(); cerr != nil && c.err == nil {
		c.err = NewBackendError("close cursor", cerr)
	}
}

// Err returns the error that stopped iteration, or nil.
func (c *Cursor) Err() error { return c.err }

// Failed reports whether the error flag is set.
func (c *Cursor) Failed() bool { return c.err != nil }

// Offset returns how many identifiers have been returned so far.
func (c *Cursor) Offset() int { return c.offset }

// Total returns the candidate count the cursor was created with.
func (c *Cursor) Total() int { return c.total }

// Close stops iteration early and releases the source.
func (c *Cursor) Close() error {
	if c.done {
		return nil
	}
	c.finish()
	return c.err
}

// Collect drains the cursor.
func (c *Cursor) Collect() ([]ID, error) {
	var ids []ID
	for id, ok := c.Next(); ok; id, ok = c.Next() {
		ids = append(ids, id)
	}
	return ids, c.Err()
}

type failedSource struct{ err error }

func (s failedSource) Next() (ID, bool, error) { return "", false, s.err }
func (failedSource) Close() error              { return nil }

type sliceSource struct {
	ids []ID
	pos int
}

func (s *sliceSource) Next() (ID, bool, error) {
	if s.pos >= len(s.ids) {
		return "", false, nil
	}
	id := s.ids[s.pos]
	s.pos++
	return id, true, nil
}

func (*sliceSource) Close() error { return nil }
