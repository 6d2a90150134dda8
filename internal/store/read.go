package store

import (
	"context"
	"fmt"

	"github.com/roach88/dbcore/internal/querysql"
	"github.com/roach88/dbcore/internal/record"
)

// attributeBatch bounds the number of ids bound in one attribute lookup,
// well below SQLite's host parameter limit.
const attributeBatch = 500

// Execute runs a compiled statement and returns the matching records in
// the order the store produced them.
//
// Native columns are read from the result set; extra select columns added
// by sorts are dropped. Flexible attributes are then loaded for the returned
// ids and merged in. A native column wins over an attribute with the same
// name.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) Execute(ctx context.Context, stmt querysql.Statement) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx, stmt.SQL, stmt.Params...)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("execute: columns: %w", err)
	}

	records := []record.Record{}
	byID := make(map[int64]int)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("execute: scan: %w", err)
		}

		r, err := s.scanRecord(cols, values)
		if err != nil {
			return nil, err
		}
		byID[r.ID] = len(records)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("execute: iterate: %w", err)
	}
	// Release the single connection before the attribute queries.
	rows.Close()

	if err := s.mergeAttributes(ctx, records, byID); err != nil {
		return nil, err
	}
	return records, nil
}

// scanRecord turns one result row into a record. Only the id column and
// the schema's columns are kept.
func (s *Store) scanRecord(cols []string, values []any) (record.Record, error) {
	r := record.New()
	for i, col := range cols {
		if col == "id" {
			id, ok := values[i].(int64)
			if !ok {
				return record.Record{}, fmt.Errorf("execute: id column holds %T", values[i])
			}
			r.ID = id
			continue
		}
		if !s.schema.HasColumn(col) {
			continue
		}
		v := record.FromDriver(values[i])
		if record.IsMissing(v) {
			continue
		}
		r.Set(col, v)
	}
	if r.ID == 0 {
		return record.Record{}, fmt.Errorf("execute: result has no id column")
	}
	return r, nil
}

// mergeAttributes loads the flexible attributes of records in batches.
func (s *Store) mergeAttributes(ctx context.Context, records []record.Record, byID map[int64]int) error {
	ids := make([]int64, 0, len(byID))
	for _, r := range records {
		ids = append(ids, r.ID)
	}

	for start := 0; start < len(ids); start += attributeBatch {
		end := min(start+attributeBatch, len(ids))
		if err := s.mergeBatch(ctx, ids[start:end], records, byID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) mergeBatch(ctx context.Context, ids []int64, records []record.Record, byID map[int64]int) error {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT entity_id, key, value
		FROM %s
		WHERE entity_id IN (%s)
		ORDER BY entity_id ASC, key ASC
	`, s.schema.AttributeTable, placeholders(len(ids))), args...)
	if err != nil {
		return fmt.Errorf("query attributes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entityID int64
			key      string
			value    any
		)
		if err := rows.Scan(&entityID, &key, &value); err != nil {
			return fmt.Errorf("scan attribute: %w", err)
		}
		i, ok := byID[entityID]
		if !ok {
			continue
		}
		if s.schema.HasColumn(key) {
			continue
		}
		v := record.FromDriver(value)
		if record.IsMissing(v) {
			continue
		}
		records[i].Set(key, v)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate attributes: %w", err)
	}
	return nil
}

// Get returns the record with the given id. The second result is false
// when there is no such record.
func (s *Store) Get(ctx context.Context, id int64) (record.Record, bool, error) {
	records, err := s.Execute(ctx, querysql.Statement{
		SQL:    fmt.Sprintf("SELECT %s.* FROM %s WHERE id = ?", s.schema.Table, s.schema.Table),
		Params: []any{id},
	})
	if err != nil {
		return record.Record{}, false, err
	}
	if len(records) == 0 {
		return record.Record{}, false, nil
	}
	return records[0], true, nil
}

// Count returns the number of records in the item table.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.schema.Table)
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}
