package index

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/roach88/sidx/internal/query"
	"github.com/roach88/sidx/internal/value"
)

// SimpleIndex is an in-memory SIIndex that answers queries by scanning rows
// in identifier order.
//
// Batch semantics:
//   - Add of an identifier that is already indexed fails the batch (DUPLICATE_ID)
//   - Delete of an identifier that is not indexed fails the batch (MISSING_ID)
//   - Later changes see earlier ones, so Delete then Add of one id replaces it
//
// The index retains every string it stores and releases it on Delete/Close.
type SimpleIndex struct {
	spec  Spec
	kinds []value.Kind
	rows  map[ID][]value.SIValue
}

var _ Backend = (*SimpleIndex)(nil)

// NewSimpleIndex creates an empty in-memory index for spec.
func NewSimpleIndex(spec Spec) *SimpleIndex {
	return &SimpleIndex{
		spec:  spec,
		kinds: spec.Kinds(),
		rows:  make(map[ID][]value.SIValue),
	}
}

// Spec returns the schema the index was created with.
func (s *SimpleIndex) Spec() Spec { return s.spec }

// Len returns the number of indexed identifiers.
func (s *SimpleIndex) Len() int { return len(s.rows) }

// Apply stages the whole batch, then commits it only if every change is valid.
func (s *SimpleIndex) Apply(changes []Change) error {
	// staged maps touched ids to their post-batch row; nil means deleted.
	staged := make(map[ID][]value.SIValue)

	for i, ch := range changes {
		if ch.ID == "" {
			return NewChangeError(ErrCodeInvalidChange, i, ch.ID, nil)
		}
		_, present := s.lookup(staged, ch.ID)

		switch ch.Kind {
		case ChangeAdd:
			if present {
				return NewChangeError(ErrCodeDuplicateID, i, ch.ID, nil)
			}
			if err := s.spec.CheckRow(ch.Values); err != nil {
				return NewChangeError(ErrCodeSchemaViolation, i, ch.ID, err)
			}
			if err := s.checkUnique(staged, ch.ID, ch.Values); err != nil {
				return NewChangeError(ErrCodeSchemaViolation, i, ch.ID, err)
			}
			staged[ch.ID] = ch.Values
		case ChangeDelete:
			if !present {
				return NewChangeError(ErrCodeMissingID, i, ch.ID, nil)
			}
			staged[ch.ID] = nil
		default:
			return NewChangeError(ErrCodeInvalidChange, i, ch.ID, nil)
		}
	}

	s.commit(staged)
	slog.Debug("index batch applied", "changes", len(changes), "rows", len(s.rows))
	return nil
}

// lookup resolves id through the staged overlay first.
func (s *SimpleIndex) lookup(staged map[ID][]value.SIValue, id ID) ([]value.SIValue, bool) {
	if row, ok := staged[id]; ok {
		return row, row != nil
	}
	row, ok := s.rows[id]
	return row, ok
}

func (s *SimpleIndex) checkUnique(staged map[ID][]value.SIValue, id ID, vals []value.SIValue) error {
	for p, prop := range s.spec.Properties {
		if !prop.Has(FlagUnique) || value.IsNull(vals[p]) {
			continue
		}
		conflict := func(other ID, row []value.SIValue) bool {
			return other != id && row != nil && value.Equal(row[p], vals[p])
		}
		for other, row := range staged {
			if conflict(other, row) {
				return uniqueError(s.spec, p, other)
			}
		}
		for other, row := range s.rows {
			if _, touched := staged[other]; !touched && conflict(other, row) {
				return uniqueError(s.spec, p, other)
			}
		}
	}
	return nil
}

func (s *SimpleIndex) commit(staged map[ID][]value.SIValue) {
	for id, row := range staged {
		if old, ok := s.rows[id]; ok {
			releaseRow(old)
			delete(s.rows, id)
		}
		if row != nil {
			s.rows[id] = retainRow(row)
		}
	}
}

// Find validates q against the spec and returns a lazy scan cursor.
// Rows deleted after Find returns are skipped.
func (s *SimpleIndex) Find(q query.ParseNode) *Cursor {
	res := query.Validate(q, s.kinds)
	if err := res.Err(); err != nil {
		return FailedCursor(NewQueryError(err))
	}
	for _, w := range res.Warnings {
		slog.Debug("query warning", "warning", w)
	}
	ids := slices.Sorted(maps.Keys(s.rows))
	return NewCursor(&scanSource{idx: s, q: q, ids: ids}, len(ids))
}

// Row returns retained copies of the values indexed for id.
func (s *SimpleIndex) Row(id ID) ([]value.SIValue, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, &IndexError{Code: ErrCodeMissingID, Message: "id not indexed", ID: id, Change: -1}
	}
	return retainRow(row), nil
}

// Close releases every stored row.
func (s *SimpleIndex) Close() error {
	for id, row := range s.rows {
		releaseRow(row)
		delete(s.rows, id)
	}
	return nil
}

// scanSource evaluates the query one row at a time.
type scanSource struct {
	idx *SimpleIndex
	q   query.ParseNode
	ids []ID
	pos int
}

func (src *scanSource) Next() (ID, bool, error) {
	for src.pos < len(src.ids) {
		id := src.ids[src.pos]
		src.pos++
		row, ok := src.idx.rows[id]
		if !ok {
			continue
		}
		match, err := query.Eval(src.q, row)
		if err != nil {
			return "", false, &IndexError{Code: ErrCodeInvalidQuery, Message: "evaluation failed", ID: id, Change: -1, Err: err}
		}
		if match {
			return id, true, nil
		}
	}
	return "", false, nil
}

func (*scanSource) Close() error { return nil }

func retainRow(row []value.SIValue) []value.SIValue {
	out := make([]value.SIValue, len(row))
	for i, v := range row {
		if v == nil {
			v = value.NullVal()
		}
		out[i] = value.Retain(v)
	}
	return out
}

func releaseRow(row []value.SIValue) {
	for _, v := range row {
		value.Release(v)
	}
}
