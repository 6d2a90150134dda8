package sorting

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrBadSortTerm is returned by Parse for terms it cannot read.
var ErrBadSortTerm = errors.New("bad sort term")

// specials maps names that are not fields to the sorts they build.
var specials = map[string]func(schema Schema, ascending bool) Sort{
	"smartartist": func(schema Schema, ascending bool) Sort {
		return NewSmartArtistSort(schema, ascending)
	},
}

// Special builds a named sort such as "smartartist". The second result is
// false for unknown names.
func Special(name string, schema Schema, ascending bool) (Sort, bool) {
	build, ok := specials[name]
	if !ok {
		return nil, false
	}
	return build(schema, ascending), true
}

// SpecialNames returns the registered special sort names in order.
func SpecialNames() []string {
	names := make([]string, 0, len(specials))
	for name := range specials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Term is one parsed "field[:asc|desc]" sort term.
type Term struct {
	Field     string
	Ascending bool
}

// ParseTerm reads "field", "field:asc" or "field:desc".
func ParseTerm(s string) (Term, error) {
	field, dir, hasDir := strings.Cut(strings.TrimSpace(s), ":")
	t := Term{Field: field, Ascending: true}
	if hasDir {
		switch strings.ToLower(dir) {
		case "asc":
		case "desc":
			t.Ascending = false
		default:
			return Term{}, fmt.Errorf("%w: %q: direction must be asc or desc", ErrBadSortTerm, s)
		}
	}
	if field == "" {
		return Term{}, fmt.Errorf("%w: %q: empty field", ErrBadSortTerm, s)
	}
	return t, nil
}

// Parse builds a sort from terms. Special names come first, then native
// columns (fixed sorts, always fast) and everything else is a flexible
// attribute. No terms yields a nil Sort; one term yields that sort alone.
func Parse(terms []string, schema Schema) (Sort, error) {
	sorts := make([]Sort, 0, len(terms))
	for _, s := range terms {
		t, err := ParseTerm(s)
		if err != nil {
			return nil, err
		}
		built, err := build(t, schema)
		if err != nil {
			return nil, fmt.Errorf("sort %q: %w", s, err)
		}
		sorts = append(sorts, built)
	}
	switch len(sorts) {
	case 0:
		return nil, nil
	case 1:
		return sorts[0], nil
	default:
		return NewMultipleSort(sorts...), nil
	}
}

func build(t Term, schema Schema) (Sort, error) {
	if s, ok := Special(t.Field, schema, t.Ascending); ok {
		return s, nil
	}
	if t.Field == "id" || schema.HasColumn(t.Field) {
		return NewFixedFieldSort(t.Field, t.Ascending, true)
	}
	return NewFlexFieldSort(schema, t.Field, t.Ascending)
}
