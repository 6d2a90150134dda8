package query

import (
	"fmt"
	"sort"
)

// Kind names a leaf type in the registry.
type Kind string

// Registered leaf kinds.
const (
	KindMatch     Kind = "match"
	KindSubstring Kind = "substring"
	KindRegexp    Kind = "regexp"
	KindBool      Kind = "bool"
	KindBytes     Kind = "bytes"
	KindNumeric   Kind = "numeric"
	KindDate      Kind = "date"
)

// Constructor builds a leaf from a field, a raw pattern and the fast flag.
type Constructor func(field, pattern string, fast bool) (Query, error)

var constructors = map[Kind]Constructor{
	KindMatch: func(field, pattern string, fast bool) (Query, error) {
		return NewMatchQuery(field, pattern, fast)
	},
	KindSubstring: func(field, pattern string, fast bool) (Query, error) {
		return NewSubstringQuery(field, pattern, fast)
	},
	KindRegexp: func(field, pattern string, fast bool) (Query, error) {
		return NewRegexpQuery(field, pattern, fast)
	},
	KindBool: func(field, pattern string, fast bool) (Query, error) {
		return NewBooleanQuery(field, pattern, fast)
	},
	KindBytes: func(field, pattern string, fast bool) (Query, error) {
		q, err := NewBytesQuery(field, []byte(pattern))
		if err != nil {
			return nil, err
		}
		q.Fast = fast
		return q, nil
	},
	KindNumeric: func(field, pattern string, fast bool) (Query, error) {
		return NewNumericQuery(field, pattern, fast)
	},
	KindDate: func(field, pattern string, fast bool) (Query, error) {
		return NewDateQuery(field, pattern, fast)
	},
}

// New builds a leaf of the given kind.
func New(kind Kind, field, pattern string, fast bool) (Query, error) {
	ctor, ok := constructors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return ctor(field, pattern, fast)
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := constructors[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Kinds returns the registered kinds in name order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(constructors))
	for k := range constructors {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// KindOf reports the registry kind of a leaf. The second result is false
// for combinators and constants.
func KindOf(q Query) (Kind, bool) {
	switch q.(type) {
	case *MatchQuery:
		return KindMatch, true
	case *SubstringQuery:
		return KindSubstring, true
	case *RegexpQuery:
		return KindRegexp, true
	case *BooleanQuery:
		return KindBool, true
	case *BytesQuery:
		return KindBytes, true
	case *NumericQuery:
		return KindNumeric, true
	case *DateQuery:
		return KindDate, true
	default:
		return "", false
	}
}
