package query

import (
	"regexp"
	"strings"

	"github.com/roach88/dbcore/internal/record"
)

// SQL literals for constant clauses.
const (
	sqlTrue  = "1"
	sqlFalse = "0"
)

// Query is a node of the filter tree.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	// Clause compiles the node into a SQL WHERE fragment. The second result
	// is false when the node has no compiled form.
	Clause() (Clause, bool)

	// Match evaluates the node against a single record.
	Match(r record.FieldAccessible) bool

	queryNode() // Marker method - seals interface to this package
}

// Clause is a compiled filter fragment. Params bind, in order, to the "?"
// placeholders in SQL.
type Clause struct {
	SQL    string
	Params []any
}

// identifier matches field names that may be interpolated into SQL text.
// Values are always bound as parameters; only names go into the text.
var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidField reports whether name can be used as a field in a clause.
func ValidField(name string) bool {
	return identifier.MatchString(name)
}

func checkField(name string) error {
	if !ValidField(name) {
		return &FieldError{Field: name}
	}
	return nil
}

// FieldQuery holds the attributes shared by all leaves.
type FieldQuery struct {
	// Field is the record field the leaf tests.
	Field string

	// Pattern is the raw pattern string the leaf was built from.
	Pattern string

	// Fast is false for fields that are not native columns. Such leaves
	// refuse to compile and are evaluated in memory only.
	Fast bool
}

func (f *FieldQuery) base() *FieldQuery { return f }

// leaf is implemented by every leaf through the embedded FieldQuery.
type leaf interface {
	Query
	base() *FieldQuery
}

// fast wraps a compiled clause with the Fast flag check.
func (f *FieldQuery) fast(c Clause) (Clause, bool) {
	if !f.Fast {
		return Clause{}, false
	}
	return c, true
}

// TrueQuery matches every record.
type TrueQuery struct{}

func (TrueQuery) queryNode() {}

// Clause implements Query.
func (TrueQuery) Clause() (Clause, bool) { return Clause{SQL: sqlTrue}, true }

// Match implements Query.
func (TrueQuery) Match(record.FieldAccessible) bool { return true }

// FalseQuery matches no record.
type FalseQuery struct{}

func (FalseQuery) queryNode() {}

// Clause implements Query.
func (FalseQuery) Clause() (Clause, bool) { return Clause{SQL: sqlFalse}, true }

// Match implements Query.
func (FalseQuery) Match(record.FieldAccessible) bool { return false }

// foldASCII lower-cases ASCII letters only, as SQLite's LIKE does.
func foldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
