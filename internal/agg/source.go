package agg

import (
	"fmt"
	"io"

	"github.com/roach88/sidx/internal/index"
	"github.com/roach88/sidx/internal/value"
)

// RowsSource yields a fixed list of rows. Each row is handed out with its
// string values retained, so the source keeps its own references.
type RowsSource struct {
	rows [][]value.SIValue
	pos  int
}

// NewRowsSource creates a source over rows.
func NewRowsSource(rows ...[]value.SIValue) *RowsSource {
	return &RowsSource{rows: rows}
}

// Values builds a source of single-value rows.
func Values(vals ...value.SIValue) *RowsSource {
	rows := make([][]value.SIValue, len(vals))
	for i, v := range vals {
		rows[i] = []value.SIValue{v}
	}
	return NewRowsSource(rows...)
}

func (s *RowsSource) Next() ([]value.SIValue, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	src := s.rows[s.pos]
	s.pos++
	row := make([]value.SIValue, len(src))
	for i, v := range src {
		row[i] = value.Retain(v)
	}
	return row, nil
}

// RowResolver materializes the values indexed for an identifier.
// index.Backend satisfies it.
type RowResolver interface {
	Row(id index.ID) ([]value.SIValue, error)
}

// CursorSource resolves the identifiers of an index cursor into rows,
// optionally projecting a subset of properties.
type CursorSource struct {
	cur     *index.Cursor
	rows    RowResolver
	columns []int
}

// NewCursorSource creates a source over cur. columns selects and orders the
// properties of each row; nil keeps all of them.
func NewCursorSource(cur *index.Cursor, rows RowResolver, columns ...int) *CursorSource {
	return &CursorSource{cur: cur, rows: rows, columns: columns}
}

// Next returns the row of the next matching identifier. A cursor failure is
// returned as an error, never as io.EOF.
func (s *CursorSource) Next() ([]value.SIValue, error) {
	id, ok := s.cur.Next()
	if !ok {
		if err := s.cur.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	row, err := s.rows.Row(id)
	if err != nil {
		s.cur.Close()
		return nil, err
	}
	if s.columns == nil {
		return row, nil
	}

	out := make([]value.SIValue, len(s.columns))
	for i, c := range s.columns {
		if c < 0 || c >= len(row) {
			releaseRow(out[:i])
			releaseRow(row)
			return nil, fmt.Errorf("column %d out of range for %s (%d properties)", c, id, len(row))
		}
		out[i] = value.Retain(row[c])
	}
	releaseRow(row)
	return out, nil
}

// Close stops the underlying cursor.
func (s *CursorSource) Close() error {
	return s.cur.Close()
}
