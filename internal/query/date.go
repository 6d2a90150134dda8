package query

import (
	"fmt"

	"github.com/roach88/dbcore/internal/period"
	"github.com/roach88/dbcore/internal/record"
)

// DateQuery matches dates in an interval.
//
// The pattern is "P1..P2" or "P" where each P is "YYYY", "YYYY-MM" or
// "YYYY-MM-DD". Either side of ".." may be empty. The field holds a unix
// timestamp in seconds.
type DateQuery struct {
	FieldQuery
	Interval period.DateInterval
}

func (*DateQuery) queryNode() {}

// NewDateQuery parses pattern into a date leaf. Bad calendar strings yield a
// *period.ParseError and empty intervals a *period.RangeError.
func NewDateQuery(field, pattern string, fast bool) (*DateQuery, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	start, end, err := period.ParseRange(pattern)
	if err != nil {
		return nil, fmt.Errorf("date query on %s: %w", field, err)
	}
	interval, err := period.FromPeriods(start, end)
	if err != nil {
		return nil, fmt.Errorf("date query on %s: %w", field, err)
	}
	return &DateQuery{
		FieldQuery: FieldQuery{Field: field, Pattern: pattern, Fast: fast},
		Interval:   interval,
	}, nil
}

// Clause implements Query.
func (q *DateQuery) Clause() (Clause, bool) {
	var (
		sql    string
		params []any
	)
	if q.Interval.Start != nil {
		sql = q.Field + " >= ?"
		params = append(params, period.Epoch(*q.Interval.Start))
	}
	if q.Interval.End != nil {
		if sql != "" {
			sql += " AND "
		}
		sql += q.Field + " < ?"
		params = append(params, period.Epoch(*q.Interval.End))
	}
	if sql == "" {
		sql = sqlTrue
	}
	return q.fast(Clause{SQL: sql, Params: params})
}

// Match implements Query. Numeric values are converted to instants and
// tested for containment. Other values follow SQLite's storage class order,
// so text and bytes sort after every timestamp.
func (q *DateQuery) Match(r record.FieldAccessible) bool {
	if q.Interval.Start == nil && q.Interval.End == nil {
		return true
	}
	v, ok := orderable(r.Get(q.Field))
	if !ok {
		return false
	}
	secs, err := record.AsFloat(v)
	if err == nil {
		return q.Interval.Contains(period.FromEpoch(secs))
	}
	// Past any finite bound: at or after the start, never before the end.
	return q.Interval.End == nil
}
