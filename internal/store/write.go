package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/dbcore/internal/record"
)

// Insert stores a record and returns its id.
//
// Fields that are native columns go into the item table; every other field
// becomes a row of the attribute table. Missing values are skipped. A
// non-zero r.ID is used as the row id, otherwise SQLite assigns one.
func (s *Store) Insert(ctx context.Context, r record.Record) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("insert: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var (
		cols []string
		args []any
	)
	if r.ID != 0 {
		cols = append(cols, "id")
		args = append(args, r.ID)
	}
	for _, c := range s.schema.Columns {
		v := r.Get(c.Name)
		if record.IsMissing(v) {
			continue
		}
		cols = append(cols, c.Name)
		args = append(args, record.Param(v))
	}

	var stmt string
	if len(cols) == 0 {
		stmt = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", s.schema.Table)
	} else {
		stmt = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			s.schema.Table,
			strings.Join(cols, ", "),
			placeholders(len(cols)))
	}

	result, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert: get id: %w", err)
	}

	attrs := 0
	for _, key := range r.Keys() {
		if key == "id" || s.schema.HasColumn(key) {
			continue
		}
		v := r.Get(key)
		if record.IsMissing(v) {
			continue
		}
		if err := s.setAttribute(ctx, tx, id, key, v); err != nil {
			return 0, fmt.Errorf("insert: %w", err)
		}
		attrs++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("insert: commit: %w", err)
	}

	slog.Debug("record inserted", "id", id, "columns", len(cols), "attributes", attrs)
	return id, nil
}

// SetAttribute stores a flexible attribute for an existing record,
// replacing any previous value for the key.
func (s *Store) SetAttribute(ctx context.Context, id int64, key string, v record.Value) error {
	if s.schema.HasColumn(key) {
		return fmt.Errorf("set attribute: %q is a native column", key)
	}
	return s.setAttribute(ctx, s.db, id, key, v)
}

// execContexter is satisfied by *sql.DB and *sql.Tx.
type execContexter interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) setAttribute(ctx context.Context, db execContexter, id int64, key string, v record.Value) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (entity_id, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT(entity_id, key) DO UPDATE SET value = excluded.value
	`, s.schema.AttributeTable), id, key, record.Param(v))
	if err != nil {
		return fmt.Errorf("set attribute %s on %d: %w", key, id, err)
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
