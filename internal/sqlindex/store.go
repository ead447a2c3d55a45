package sqlindex

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/sidx/internal/index"
	"github.com/roach88/sidx/internal/value"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - properties table plus generated entries table
const currentSchemaVersion = 1

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// openDB opens the database at path and applies pragmas.
func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Every connection to :memory: is a separate database, and SQLite has a
	// single writer anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db, path); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	return db, nil
}

func applyPragmas(db *sql.DB, path string) error {
	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	if path != MemoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode = WAL")
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates the tables for spec, or checks that an existing
// database was created for the same spec. It is idempotent.
func applySchema(ctx context.Context, db *sql.DB, spec index.Spec) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	stored, err := loadSpec(ctx, db)
	if err != nil {
		return err
	}
	if stored.Len() == 0 {
		if err := saveSpec(ctx, db, spec); err != nil {
			return err
		}
	} else if err := sameSpec(stored, spec); err != nil {
		return err
	}

	for _, stmt := range entriesDDL(spec) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create entries: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

func loadSpec(ctx context.Context, db *sql.DB) (index.Spec, error) {
	rows, err := db.QueryContext(ctx, "SELECT name, kind, flags FROM properties ORDER BY pos ASC")
	if err != nil {
		return index.Spec{}, fmt.Errorf("load spec: %w", err)
	}
	defer rows.Close()

	var spec index.Spec
	for rows.Next() {
		var (
			p    index.Property
			kind string
		)
		if err := rows.Scan(&p.Name, &kind, &p.Flags); err != nil {
			return index.Spec{}, fmt.Errorf("scan property: %w", err)
		}
		if p.Type, err = value.ParseKind(kind); err != nil {
			return index.Spec{}, fmt.Errorf("stored property %d: %w", len(spec.Properties), err)
		}
		spec.Properties = append(spec.Properties, p)
	}
	return spec, rows.Err()
}

func saveSpec(ctx context.Context, db *sql.DB, spec index.Spec) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save spec: %w", err)
	}
	defer tx.Rollback()

	for i, p := range spec.Properties {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO properties (pos, name, kind, flags) VALUES (?, ?, ?, ?)",
			i, p.Name, p.Type.String(), p.Flags)
		if err != nil {
			return fmt.Errorf("save property %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func sameSpec(stored, want index.Spec) error {
	if stored.Len() != want.Len() {
		return fmt.Errorf("database holds %d properties, spec has %d", stored.Len(), want.Len())
	}
	for i := range stored.Properties {
		s, w := stored.Properties[i], want.Properties[i]
		if s.Type != w.Type || s.Flags != w.Flags {
			return fmt.Errorf("property %d: database has %s (flags %d), spec has %s (flags %d)",
				i, s.Type, s.Flags, w.Type, w.Flags)
		}
	}
	return nil
}

// entriesDDL returns the statements creating the entries table and one
// secondary index per property.
func entriesDDL(spec index.Spec) []string {
	cols := []string{"id TEXT PRIMARY KEY"}
	for i, p := range spec.Properties {
		col := fmt.Sprintf("%s %s", column(i), columnType(p.Type))
		if p.Has(index.FlagNotNull) {
			col += " NOT NULL"
		}
		if p.Has(index.FlagUnique) {
			col += " UNIQUE"
		}
		cols = append(cols, col)
	}

	stmts := []string{fmt.Sprintf("CREATE TABLE IF NOT EXISTS entries (%s)", strings.Join(cols, ", "))}
	for i, p := range spec.Properties {
		if p.Has(index.FlagUnique) {
			continue // UNIQUE already creates an index
		}
		stmts = append(stmts, fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_entries_%s ON entries(%s)", column(i), column(i)))
	}
	return stmts
}

func column(i int) string {
	return fmt.Sprintf("p%d", i)
}

func columnType(k value.Kind) string {
	switch k {
	case value.KindFloat32, value.KindFloat64:
		return "REAL"
	case value.KindString:
		return "TEXT"
	}
	return "INTEGER"
}
