// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/dbcore/internal/config"
	"github.com/roach88/dbcore/internal/record"
	"github.com/roach88/dbcore/internal/store"
)

// MusicSchema is the schema of the default configuration.
func MusicSchema() store.Schema {
	return config.Default().Schema()
}

// OpenStore opens a store with schema in a temporary directory. The store
// is closed when the test ends.
func OpenStore(t *testing.T, schema store.Schema) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), schema)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// OpenMusicStore opens an empty store with MusicSchema.
func OpenMusicStore(t *testing.T) *store.Store {
	t.Helper()
	return OpenStore(t, MusicSchema())
}

// Record builds a record from plain Go values, converted the way values
// read from the database are.
func Record(fields map[string]any) record.Record {
	r := record.New()
	for k, v := range fields {
		r.Set(k, record.FromDriver(v))
	}
	return r
}

// Insert stores records and returns their ids in order.
func Insert(t *testing.T, s *store.Store, records ...record.Record) []int64 {
	t.Helper()
	ids := make([]int64, len(records))
	for i, r := range records {
		id, err := s.Insert(context.Background(), r)
		require.NoError(t, err)
		ids[i] = id
	}
	return ids
}

// IDs returns the ids of records in order.
func IDs(records []record.Record) []int64 {
	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

// SortedIDs returns the ids of records in ascending order.
func SortedIDs(records []record.Record) []int64 {
	ids := IDs(records)
	slices.Sort(ids)
	return ids
}

// Years stores one record per year value and returns their ids.
func Years(t *testing.T, s *store.Store, years ...int64) []int64 {
	t.Helper()
	records := make([]record.Record, len(years))
	for i, y := range years {
		records[i] = Record(map[string]any{"year": y})
	}
	return Insert(t, s, records...)
}
