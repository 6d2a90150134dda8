package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/dbcore/internal/query"
	"github.com/roach88/dbcore/internal/querysql"
	"github.com/roach88/dbcore/internal/record"
	"github.com/roach88/dbcore/internal/sorting"
	"github.com/roach88/dbcore/internal/store"
)

// DefaultMaxScan is the default maximum number of rows a slow search may
// pull from the store before filtering them in memory. Zero disables the
// limit.
const DefaultMaxScan = 0

// Engine searches one store.
//
// Thread-safety: Search and Import are safe from any goroutine; the store
// serializes access to SQLite.
type Engine struct {
	store   *store.Store
	builder *querysql.Builder
	ids     SearchIDGenerator
	maxScan int
}

// Result is the outcome of one search.
type Result struct {
	// Records are the matching records in their final order.
	Records []record.Record

	// Statement is what the store executed.
	Statement querysql.Statement

	// SearchID correlates the search's log lines.
	SearchID string

	// Scanned is the number of rows the store returned before any
	// post-filter.
	Scanned int
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithSearchIDGenerator replaces the UUIDv7 search id generator.
func WithSearchIDGenerator(gen SearchIDGenerator) EngineOption {
	return func(e *Engine) {
		e.ids = gen
	}
}

// WithMaxScan limits how many rows a slow search may scan.
//
// Default: no limit (DefaultMaxScan)
// A post-filtered search selects the whole table, so large libraries can
// use this to fail fast instead of loading every row.
func WithMaxScan(rows int) EngineOption {
	return func(e *Engine) {
		e.maxScan = rows
	}
}

// New creates an Engine over s.
func New(s *store.Store, opts ...EngineOption) (*Engine, error) {
	builder, err := querysql.NewBuilder(s.Schema().Table)
	if err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}

	e := &Engine{
		store:   s,
		builder: builder,
		ids:     UUIDv7Generator{},
		maxScan: DefaultMaxScan,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Store returns the engine's store.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Fast reports whether field is a native column. Leaves on other fields
// must be built with Fast false; their values live in the attribute table
// and can only be tested in memory.
func (e *Engine) Fast(field string) bool {
	return e.store.Schema().HasColumn(field)
}

// Plan compiles q and s without running them.
func (e *Engine) Plan(q query.Query, s sorting.Sort) querysql.Statement {
	return e.builder.Build(q, s)
}

// Search runs q sorted by s. Either may be nil.
func (e *Engine) Search(ctx context.Context, q query.Query, s sorting.Sort) (Result, error) {
	searchID := e.ids.Generate()
	stmt := e.builder.Build(q, s)

	slog.Info("search starting",
		"search_id", searchID,
		"sql", stmt.SQL,
		"params", len(stmt.Params),
		"post_filter", stmt.PostFilter,
		"post_sort", stmt.PostSort)

	records, err := e.store.Execute(ctx, stmt)
	if err != nil {
		return Result{}, &SearchError{
			Code:     ErrCodeExecute,
			SearchID: searchID,
			SQL:      stmt.SQL,
			Err:      err,
		}
	}
	scanned := len(records)

	if stmt.PostFilter {
		if e.maxScan > 0 && scanned > e.maxScan {
			slog.Error("scan limit exceeded",
				"search_id", searchID,
				"rows", scanned,
				"limit", e.maxScan)
			return Result{}, &SearchError{
				Code:     ErrCodeScanLimit,
				SearchID: searchID,
				SQL:      stmt.SQL,
				Err:      &ScanLimitError{Rows: scanned, Limit: e.maxScan},
			}
		}
		records = filter(records, q)
		slog.Debug("post-filter applied",
			"search_id", searchID,
			"scanned", scanned,
			"kept", len(records))
	}

	if stmt.PostSort {
		s.Sort(records)
		slog.Debug("post-sort applied",
			"search_id", searchID,
			"records", len(records))
	}

	slog.Info("search finished",
		"search_id", searchID,
		"records", len(records),
		"slow", stmt.Slow())

	return Result{
		Records:   records,
		Statement: stmt,
		SearchID:  searchID,
		Scanned:   scanned,
	}, nil
}

// filter keeps the records q matches, in order, reusing the slice.
func filter(records []record.Record, q query.Query) []record.Record {
	kept := records[:0]
	for _, r := range records {
		if q.Match(r) {
			kept = append(kept, r)
		}
	}
	return kept
}

// Import stores records in order and returns their ids. It stops at the
// first failure; records before it stay stored.
func (e *Engine) Import(ctx context.Context, records []record.Record) ([]int64, error) {
	ids := make([]int64, 0, len(records))
	for i, r := range records {
		id, err := e.store.Insert(ctx, r)
		if err != nil {
			return ids, fmt.Errorf("import record %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	slog.Info("records imported", "count", len(ids))
	return ids, nil
}
