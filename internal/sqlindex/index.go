package sqlindex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/sidx/internal/index"
	"github.com/roach88/sidx/internal/query"
	"github.com/roach88/sidx/internal/value"
)

// Index is an index.Backend stored in a SQLite database.
//
// Find reads every matching id before returning, so the cursor holds no
// database resources and the index may be modified while it is iterated.
type Index struct {
	db    *sql.DB
	spec  index.Spec
	kinds []value.Kind

	insertSQL string
	rowSQL    string

	rows atomic.Int64 // committed row count
}

var _ index.Backend = (*Index)(nil)

// Open creates or opens the index database at path for spec.
// Use MemoryPath for a private in-memory index.
func Open(path string, spec index.Spec) (*Index, error) {
	return OpenContext(context.Background(), path, spec)
}

// OpenContext is Open with a context for schema setup.
func OpenContext(ctx context.Context, path string, spec index.Spec) (*Index, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid spec: %w", err)
	}

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := applySchema(ctx, db, spec); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	cols := make([]string, spec.Len())
	marks := make([]string, spec.Len())
	for i := range cols {
		cols[i] = column(i)
		marks[i] = "?"
	}

	var n int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}

	slog.Debug("sqlite index opened", "path", path, "properties", spec.Len(), "rows", n)
	x := &Index{
		db:    db,
		spec:  spec,
		kinds: spec.Kinds(),
		insertSQL: fmt.Sprintf("INSERT INTO entries (id, %s) VALUES (?, %s)",
			strings.Join(cols, ", "), strings.Join(marks, ", ")),
		rowSQL: fmt.Sprintf("SELECT %s FROM entries WHERE id = ?", strings.Join(cols, ", ")),
	}
	x.rows.Store(n)
	return x, nil
}

// Spec returns the schema the index was opened with.
func (x *Index) Spec() index.Spec { return x.spec }

// Apply applies the batch in a single transaction.
func (x *Index) Apply(changes []index.Change) error {
	return x.ApplyContext(context.Background(), changes)
}

// ApplyContext applies the batch in a single transaction. The first failing
// change rolls back the whole batch.
func (x *Index) ApplyContext(ctx context.Context, changes []index.Change) error {
	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return index.NewBackendError("begin batch", err)
	}
	defer tx.Rollback()

	var delta int64
	for i, ch := range changes {
		if err := x.applyChange(ctx, tx, i, ch); err != nil {
			return err
		}
		if ch.Kind == index.ChangeAdd {
			delta++
		} else {
			delta--
		}
	}

	if err := tx.Commit(); err != nil {
		return index.NewBackendError("commit batch", err)
	}
	x.rows.Add(delta)
	slog.Debug("index batch applied", "changes", len(changes), "backend", "sqlite")
	return nil
}

func (x *Index) applyChange(ctx context.Context, tx *sql.Tx, i int, ch index.Change) error {
	if ch.ID == "" {
		return index.NewChangeError(index.ErrCodeInvalidChange, i, ch.ID, nil)
	}

	switch ch.Kind {
	case index.ChangeAdd:
		var one int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM entries WHERE id = ?", string(ch.ID)).Scan(&one)
		switch {
		case err == nil:
			return index.NewChangeError(index.ErrCodeDuplicateID, i, ch.ID, nil)
		case !errors.Is(err, sql.ErrNoRows):
			return index.NewBackendError("lookup id", err)
		}

		if err := x.spec.CheckRow(ch.Values); err != nil {
			return index.NewChangeError(index.ErrCodeSchemaViolation, i, ch.ID, err)
		}
		args := make([]any, 0, len(ch.Values)+1)
		args = append(args, string(ch.ID))
		for _, v := range ch.Values {
			param, err := bindValue(v)
			if err != nil {
				return index.NewChangeError(index.ErrCodeSchemaViolation, i, ch.ID, err)
			}
			args = append(args, param)
		}
		if _, err := tx.ExecContext(ctx, x.insertSQL, args...); err != nil {
			return insertError(i, ch.ID, err)
		}

	case index.ChangeDelete:
		res, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", string(ch.ID))
		if err != nil {
			return index.NewBackendError("delete row", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return index.NewBackendError("delete row", err)
		}
		if n == 0 {
			return index.NewChangeError(index.ErrCodeMissingID, i, ch.ID, nil)
		}

	default:
		return index.NewChangeError(index.ErrCodeInvalidChange, i, ch.ID, nil)
	}
	return nil
}

// insertError maps constraint failures to index error codes.
func insertError(i int, id index.ID, err error) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
		switch serr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey:
			return index.NewChangeError(index.ErrCodeDuplicateID, i, id, err)
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintNotNull:
			return index.NewChangeError(index.ErrCodeSchemaViolation, i, id, err)
		}
	}
	return index.NewBackendError("insert row", err)
}

// Find returns a cursor over the ids matching q.
func (x *Index) Find(q query.ParseNode) *index.Cursor {
	return x.FindContext(context.Background(), q)
}

// FindContext validates q, runs it and returns a cursor over the matching
// ids. Total is the number of matches.
func (x *Index) FindContext(ctx context.Context, q query.ParseNode) *index.Cursor {
	res := query.Validate(q, x.kinds)
	if err := res.Err(); err != nil {
		return index.FailedCursor(index.NewQueryError(err))
	}
	for _, w := range res.Warnings {
		slog.Debug("query warning", "warning", w)
	}

	stmt, params, err := SelectIDs(q)
	if err != nil {
		return index.FailedCursor(index.NewQueryError(err))
	}
	slog.Debug("query compiled", "sql", stmt, "params", len(params))

	ids, err := x.selectIDs(ctx, stmt, params)
	if err != nil {
		return index.FailedCursor(index.NewBackendError("run query", err))
	}
	return index.SliceCursor(ids)
}

func (x *Index) selectIDs(ctx context.Context, stmt string, params []any) ([]index.ID, error) {
	rows, err := x.db.QueryContext(ctx, stmt, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []index.ID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, index.ID(id))
	}
	return ids, rows.Err()
}

// Len returns the number of indexed identifiers. The count is kept in
// memory and updated on every committed batch.
func (x *Index) Len() int {
	return int(x.rows.Load())
}

// Row returns the values indexed for id. The caller owns them.
func (x *Index) Row(id index.ID) ([]value.SIValue, error) {
	return x.RowContext(context.Background(), id)
}

// RowContext is Row with a context.
func (x *Index) RowContext(ctx context.Context, id index.ID) ([]value.SIValue, error) {
	raw := make([]any, len(x.kinds))
	dest := make([]any, len(x.kinds))
	for i := range raw {
		dest[i] = &raw[i]
	}

	err := x.db.QueryRowContext(ctx, x.rowSQL, string(id)).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &index.IndexError{Code: index.ErrCodeMissingID, Message: "id not indexed", ID: id, Change: -1}
	}
	if err != nil {
		return nil, index.NewBackendError("read row", err)
	}

	row := make([]value.SIValue, len(x.kinds))
	for i, k := range x.kinds {
		v, err := decodeValue(k, raw[i])
		if err != nil {
			for _, done := range row[:i] {
				value.Release(done)
			}
			return nil, index.NewBackendError(fmt.Sprintf("decode %s", x.spec.PropertyName(i)), err)
		}
		row[i] = v
	}
	return row, nil
}

// Close closes the database.
func (x *Index) Close() error {
	if x.db == nil {
		return nil
	}
	err := x.db.Close()
	x.db = nil
	return err
}
