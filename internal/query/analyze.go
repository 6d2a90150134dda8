package query

import (
	"fmt"
)

// Analysis describes how much of a tree compiles.
type Analysis struct {
	// Fast is true when the whole tree compiles to a single clause.
	Fast bool

	// Slow lists, in tree order, why nodes are evaluated in memory.
	// Empty when Fast is true.
	Slow []string
}

// Analyze walks q and reports every leaf that refuses to compile.
//
// A combinator refuses as a whole when any child refuses, so a single slow
// leaf is enough to send the full tree to the in-memory path. Analyze names
// each of them so callers can explain that outcome.
//
// Analyze is a pure function with no side effects.
func Analyze(q Query) Analysis {
	a := &analyzer{slow: []string{}}
	a.walk(q)
	return Analysis{
		Fast: len(a.slow) == 0,
		Slow: a.slow,
	}
}

// analyzer accumulates slow reasons during traversal.
type analyzer struct {
	slow []string
}

func (a *analyzer) add(format string, args ...any) {
	a.slow = append(a.slow, fmt.Sprintf(format, args...))
}

func (a *analyzer) walk(q Query) {
	switch n := q.(type) {
	case nil:
		a.add("nil query")
	case *AndQuery:
		for _, sub := range n.subqueries {
			a.walk(sub)
		}
	case *OrQuery:
		for _, sub := range n.subqueries {
			a.walk(sub)
		}
	case *AnyFieldQuery:
		a.walk(n.or)
	case TrueQuery, FalseQuery, *TrueQuery, *FalseQuery:
	case *RegexpQuery:
		a.add("regexp on %s: no compiled form", n.Field)
	case leaf:
		if !n.base().Fast {
			kind, _ := KindOf(n)
			a.add("%s on %s: not a native column", kind, n.base().Field)
		}
	default:
		a.add("unknown query type %T", q)
	}
}
