package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/dbcore/internal/query"
	"github.com/roach88/dbcore/internal/sorting"
)

// Statement is a compiled SELECT over the item table.
//
// Params bind positionally to the "?" placeholders in SQL; the store must
// keep their order. PostFilter and PostSort tell the caller which parts of
// the request the statement could not express.
type Statement struct {
	SQL    string
	Params []any

	// PostFilter is true when the filter did not compile. The statement then
	// selects every row and the caller must apply query.Query.Match.
	PostFilter bool

	// PostSort is true when the sort compiled only partially. The caller
	// must apply sorting.Sort.Sort to the results.
	PostSort bool
}

// Builder composes filters and sorts into statements for one table.
//
// CRITICAL: values are always parameters, never interpolated. Only
// identifiers validated by package query reach the SQL text.
type Builder struct {
	table string
}

// NewBuilder creates a Builder for table.
func NewBuilder(table string) (*Builder, error) {
	if !query.ValidField(table) {
		return nil, fmt.Errorf("table name: %w", &query.FieldError{Field: table})
	}
	return &Builder{table: table}, nil
}

// Table returns the table the builder selects from.
func (b *Builder) Table() string {
	return b.table
}

// Build compiles q and s into one statement. A nil q selects every row and
// a nil s leaves the order to the store.
//
// Shape:
//
//	SELECT <table>.*[, <extra>] FROM <table>[ <joins>] WHERE <filter>[ ORDER BY <order>]
//
// Join params come before filter params, the order they appear in the text.
func (b *Builder) Build(q query.Query, s sorting.Sort) Statement {
	if q == nil {
		q = query.TrueQuery{}
	}

	var stmt Statement
	clause, ok := q.Clause()
	if !ok {
		clause = query.Clause{SQL: "1"}
		stmt.PostFilter = true
	}

	var frag sorting.Fragment
	if s != nil {
		frag = s.Compile()
		stmt.PostSort = frag.Slow
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(b.table)
	sb.WriteString(".*")
	for _, col := range frag.Select {
		sb.WriteString(", ")
		sb.WriteString(col)
	}
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)
	for _, join := range frag.Joins {
		sb.WriteString(" ")
		sb.WriteString(join)
	}
	sb.WriteString(" WHERE ")
	sb.WriteString(clause.SQL)
	if frag.Order != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(frag.Order)
	}

	stmt.SQL = sb.String()
	stmt.Params = make([]any, 0, len(frag.Params)+len(clause.Params))
	stmt.Params = append(stmt.Params, frag.Params...)
	stmt.Params = append(stmt.Params, clause.Params...)
	return stmt
}

// Slow reports whether the caller has work left after executing the
// statement.
func (s Statement) Slow() bool {
	return s.PostFilter || s.PostSort
}
