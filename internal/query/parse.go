package query

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadTerm is returned by ParseTerm for terms it cannot read.
var ErrBadTerm = errors.New("bad query term")

// Term is one parsed "kind:field=pattern" filter term.
type Term struct {
	Kind    Kind
	Field   string
	Pattern string
}

// ParseTerm reads "kind:field=pattern". The kind may be left out, in which
// case the term is an exact match. The pattern is everything after the
// first "=" and may be empty.
func ParseTerm(s string) (Term, error) {
	left, pattern, ok := strings.Cut(s, "=")
	if !ok {
		return Term{}, fmt.Errorf("%w: %q: missing \"=\"", ErrBadTerm, s)
	}
	t := Term{Kind: KindMatch, Field: strings.TrimSpace(left), Pattern: pattern}
	if kind, field, hasKind := strings.Cut(left, ":"); hasKind {
		k, err := ParseKind(strings.TrimSpace(kind))
		if err != nil {
			return Term{}, fmt.Errorf("%w: %q: %w", ErrBadTerm, s, err)
		}
		t.Kind, t.Field = k, strings.TrimSpace(field)
	}
	if t.Field == "" {
		return Term{}, fmt.Errorf("%w: %q: empty field", ErrBadTerm, s)
	}
	return t, nil
}

// Build creates the leaf for t. fast reports whether a field is a native
// column; nil treats every field as one.
func (t Term) Build(fast func(field string) bool) (Query, error) {
	isFast := fast == nil || fast(t.Field)
	return New(t.Kind, t.Field, t.Pattern, isFast)
}

// ParseTerms parses and builds every term in order.
func ParseTerms(terms []string, fast func(field string) bool) ([]Query, error) {
	qs := make([]Query, 0, len(terms))
	for _, s := range terms {
		t, err := ParseTerm(s)
		if err != nil {
			return nil, err
		}
		q, err := t.Build(fast)
		if err != nil {
			return nil, fmt.Errorf("term %q: %w", s, err)
		}
		qs = append(qs, q)
	}
	return qs, nil
}

// Combine joins qs with AND, or with OR when or is set. No queries yield
// nil, which callers treat as matching everything, and a single query is
// returned as is.
func Combine(or bool, qs ...Query) (Query, error) {
	switch len(qs) {
	case 0:
		return nil, nil
	case 1:
		if qs[0] == nil {
			return nil, ErrNilQuery
		}
		return qs[0], nil
	}
	if or {
		return NewOrQuery(qs...)
	}
	return NewAndQuery(qs...)
}
