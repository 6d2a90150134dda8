package query

import (
	"strings"

	"github.com/roach88/dbcore/internal/record"
)

// NumericQuery matches numeric fields against a point or a range.
//
// Pattern forms:
//
//	"5"       point, <field> = 5
//	"1..10"   closed range, <field> >= 1 AND <field> <= 10
//	"1.."     lower bound only
//	"..10"    upper bound only
//
// Each side is parsed as an integer, then as a float; a side that is neither
// is unbounded. With no bound and no point the query matches everything.
type NumericQuery struct {
	FieldQuery

	// Point, Min and Max are Int or Float values, or nil when unset.
	Point record.Value
	Min   record.Value
	Max   record.Value
}

func (*NumericQuery) queryNode() {}

// NewNumericQuery parses pattern into a numeric leaf. Unparseable sides are
// left unset rather than reported.
func NewNumericQuery(field, pattern string, fast bool) (*NumericQuery, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	q := &NumericQuery{FieldQuery: FieldQuery{Field: field, Pattern: pattern, Fast: fast}}

	lo, hi, isRange := strings.Cut(pattern, "..")
	if !isRange {
		q.Point = parseBound(pattern)
		return q, nil
	}
	q.Min = parseBound(lo)
	q.Max = parseBound(hi)
	return q, nil
}

func parseBound(s string) record.Value {
	n, ok := record.ParseNumber(s)
	if !ok {
		return nil
	}
	return n
}

// Unbounded reports whether the query matches every record.
func (q *NumericQuery) Unbounded() bool {
	return q.Point == nil && q.Min == nil && q.Max == nil
}

// Clause implements Query.
func (q *NumericQuery) Clause() (Clause, bool) {
	switch {
	case q.Point != nil:
		return q.fast(Clause{
			SQL:    q.Field + " = ?",
			Params: []any{record.Param(q.Point)},
		})
	case q.Min != nil && q.Max != nil:
		return q.fast(Clause{
			SQL:    q.Field + " >= ? AND " + q.Field + " <= ?",
			Params: []any{record.Param(q.Min), record.Param(q.Max)},
		})
	case q.Min != nil:
		return q.fast(Clause{
			SQL:    q.Field + " >= ?",
			Params: []any{record.Param(q.Min)},
		})
	case q.Max != nil:
		return q.fast(Clause{
			SQL:    q.Field + " <= ?",
			Params: []any{record.Param(q.Max)},
		})
	default:
		return q.fast(Clause{SQL: sqlTrue})
	}
}

// Match implements Query. Text values are parsed with the same parser as
// the pattern. Text that is not a number and binary values are ordered the
// way SQLite orders storage classes: after every number.
func (q *NumericQuery) Match(r record.FieldAccessible) bool {
	if q.Unbounded() {
		return true
	}
	v, ok := orderable(r.Get(q.Field))
	if !ok {
		return false
	}
	if q.Point != nil {
		return record.Compare(v, q.Point) == 0
	}
	if q.Min != nil && record.Compare(v, q.Min) < 0 {
		return false
	}
	if q.Max != nil && record.Compare(v, q.Max) > 0 {
		return false
	}
	return true
}

// orderable prepares a field value for comparison with a numeric bound.
// Numbers and numeric text become Int or Float; other text and bytes are
// returned unchanged. Missing values compare as SQL NULL and never match.
func orderable(v record.Value) (record.Value, bool) {
	if record.IsMissing(v) {
		return nil, false
	}
	if n, err := record.AsNumber(v); err == nil {
		return n, true
	}
	return v, true
}
