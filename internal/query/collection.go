package query

import (
	"fmt"
	"strings"

	"github.com/roach88/dbcore/internal/record"
)

// collection is an ordered list of subqueries shared by AndQuery and
// OrQuery. Edits are not safe for concurrent use; callers that share a tree
// across goroutines must lock around edits or copy the tree.
type collection struct {
	subqueries []Query
}

// Len returns the number of subqueries.
func (c *collection) Len() int {
	return len(c.subqueries)
}

// Get returns the subquery at index i.
func (c *collection) Get(i int) (Query, error) {
	if i < 0 || i >= len(c.subqueries) {
		return nil, fmt.Errorf("get %d of %d: %w", i, len(c.subqueries), ErrIndexOutOfRange)
	}
	return c.subqueries[i], nil
}

// Subqueries returns a copy of the subquery list.
func (c *collection) Subqueries() []Query {
	out := make([]Query, len(c.subqueries))
	copy(out, c.subqueries)
	return out
}

// Delete removes the subquery at index i, keeping the order of the rest.
func (c *collection) Delete(i int) error {
	if i < 0 || i >= len(c.subqueries) {
		return fmt.Errorf("delete %d of %d: %w", i, len(c.subqueries), ErrIndexOutOfRange)
	}
	c.subqueries = append(c.subqueries[:i], c.subqueries[i+1:]...)
	return nil
}

func (c *collection) set(self Query, i int, q Query) error {
	if i < 0 || i >= len(c.subqueries) {
		return fmt.Errorf("set %d of %d: %w", i, len(c.subqueries), ErrIndexOutOfRange)
	}
	if err := checkChild(self, q); err != nil {
		return err
	}
	c.subqueries[i] = q
	return nil
}

func (c *collection) append(self Query, qs ...Query) error {
	for _, q := range qs {
		if err := checkChild(self, q); err != nil {
			return err
		}
	}
	c.subqueries = append(c.subqueries, qs...)
	return nil
}

// clause compiles every subquery and joins the parenthesized fragments.
// Any refusal refuses the whole collection.
func (c *collection) clause(joiner, empty string) (Clause, bool) {
	if len(c.subqueries) == 0 {
		return Clause{SQL: empty}, true
	}
	parts := make([]string, 0, len(c.subqueries))
	var params []any
	for _, sub := range c.subqueries {
		cl, ok := sub.Clause()
		if !ok {
			return Clause{}, false
		}
		parts = append(parts, "("+cl.SQL+")")
		params = append(params, cl.Params...)
	}
	return Clause{SQL: strings.Join(parts, " "+joiner+" "), Params: params}, true
}

func checkChild(self, q Query) error {
	if q == nil {
		return ErrNilQuery
	}
	if contains(q, self) {
		return ErrCycle
	}
	return nil
}

// contains reports whether target is root or one of its descendants.
// Only combinators can close a cycle, so only they are compared.
func contains(root, target Query) bool {
	switch n := root.(type) {
	case *AndQuery:
		if Query(n) == target {
			return true
		}
		for _, sub := range n.subqueries {
			if contains(sub, target) {
				return true
			}
		}
	case *OrQuery:
		if Query(n) == target {
			return true
		}
		for _, sub := range n.subqueries {
			if contains(sub, target) {
				return true
			}
		}
	}
	return false
}

// AndQuery matches records that match every subquery.
type AndQuery struct {
	collection
}

func (*AndQuery) queryNode() {}

// NewAndQuery builds a conjunction. A nil subquery yields ErrNilQuery.
func NewAndQuery(subqueries ...Query) (*AndQuery, error) {
	q := &AndQuery{}
	if err := q.append(q, subqueries...); err != nil {
		return nil, err
	}
	return q, nil
}

// Set replaces the subquery at index i.
func (q *AndQuery) Set(i int, sub Query) error { return q.set(q, i, sub) }

// Append adds subqueries at the end.
func (q *AndQuery) Append(subs ...Query) error { return q.append(q, subs...) }

// Clause implements Query. An empty conjunction is always true.
func (q *AndQuery) Clause() (Clause, bool) {
	return q.clause("AND", sqlTrue)
}

// Match implements Query. It stops at the first subquery that fails.
func (q *AndQuery) Match(r record.FieldAccessible) bool {
	for _, sub := range q.subqueries {
		if !sub.Match(r) {
			return false
		}
	}
	return true
}

// OrQuery matches records that match at least one subquery.
type OrQuery struct {
	collection
}

func (*OrQuery) queryNode() {}

// NewOrQuery builds a disjunction. A nil subquery yields ErrNilQuery.
func NewOrQuery(subqueries ...Query) (*OrQuery, error) {
	q := &OrQuery{}
	if err := q.append(q, subqueries...); err != nil {
		return nil, err
	}
	return q, nil
}

// Set replaces the subquery at index i.
func (q *OrQuery) Set(i int, sub Query) error { return q.set(q, i, sub) }

// Append adds subqueries at the end.
func (q *OrQuery) Append(subs ...Query) error { return q.append(q, subs...) }

// Clause implements Query. An empty disjunction is always false.
func (q *OrQuery) Clause() (Clause, bool) {
	return q.clause("OR", sqlFalse)
}

// Match implements Query. It stops at the first subquery that matches.
func (q *OrQuery) Match(r record.FieldAccessible) bool {
	for _, sub := range q.subqueries {
		if sub.Match(r) {
			return true
		}
	}
	return false
}

// AnyFieldQuery matches a pattern against any of several fields. Every
// per-field leaf is fast.
type AnyFieldQuery struct {
	Pattern string
	Fields  []string
	Kind    Kind

	or *OrQuery
}

func (*AnyFieldQuery) queryNode() {}

// NewAnyFieldQuery builds one leaf of the given kind per field.
func NewAnyFieldQuery(pattern string, fields []string, kind Kind) (*AnyFieldQuery, error) {
	or := &OrQuery{}
	for _, field := range fields {
		leaf, err := New(kind, field, pattern, true)
		if err != nil {
			return nil, fmt.Errorf("any-field query: %w", err)
		}
		or.subqueries = append(or.subqueries, leaf)
	}
	return &AnyFieldQuery{
		Pattern: pattern,
		Fields:  append([]string(nil), fields...),
		Kind:    kind,
		or:      or,
	}, nil
}

// Subqueries returns the per-field leaves.
func (q *AnyFieldQuery) Subqueries() []Query {
	return q.or.Subqueries()
}

// Clause implements Query.
func (q *AnyFieldQuery) Clause() (Clause, bool) {
	return q.or.Clause()
}

// Match implements Query.
func (q *AnyFieldQuery) Match(r record.FieldAccessible) bool {
	return q.or.Match(r)
}
