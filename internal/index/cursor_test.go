package index

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakySource yields ids, then fails.
type flakySource struct {
	ids    []ID
	err    error
	closed int
}

func (s *flakySource) Next() (ID, bool, error) {
	if len(s.ids) == 0 {
		return "", false, s.err
	}
	id := s.ids[0]
	s.ids = s.ids[1:]
	return id, true, nil
}

func (s *flakySource) Close() error {
	s.closed++
	return nil
}

func TestCursor_EmptyIsNotAnError(t *testing.T) {
	cur := SliceCursor(nil)
	id, ok := cur.Next()
	assert.False(t, ok)
	assert.Equal(t, ID(""), id)
	assert.False(t, cur.Failed())
	assert.Equal(t, 0, cur.Total())
}

func TestCursor_MidIterationFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	src := &flakySource{ids: []ID{"a", "b"}, err: boom}
	cur := NewCursor(src, 5)

	ids, err := cur.Collect()
	assert.Equal(t, []ID{"a", "b"}, ids)
	require.ErrorIs(t, err, boom)
	assert.True(t, cur.Failed())
	assert.Equal(t, 2, cur.Offset())
	assert.Equal(t, 5, cur.Total())
	assert.Equal(t, 1, src.closed)

	// Still failed, source not closed twice.
	_, ok := cur.Next()
	assert.False(t, ok)
	assert.Equal(t, 1, src.closed)
	assert.NoError(t, cur.Close())
}

func TestCursor_FailedCursor(t *testing.T) {
	cur := FailedCursor(NewQueryError(errors.New("bad")))
	_, ok := cur.Next()
	assert.False(t, ok)
	assert.True(t, HasCode(cur.Err(), ErrCodeInvalidQuery))
}

func TestCursor_CloseBeforeExhaustion(t *testing.T) {
	src := &flakySource{ids: []ID{"a", "b"}}
	cur := NewCursor(src, 2)

	_, ok := cur.Next()
	require.True(t, ok)
	require.NoError(t, cur.Close())
	assert.Equal(t, 1, src.closed)

	_, ok = cur.Next()
	assert.False(t, ok)
	assert.False(t, cur.Failed())
}
