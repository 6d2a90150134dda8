// Package query implements the filter half of the dual-path query compiler.
//
// A query is a tree of nodes. Leaves test one field of a record; combinators
// aggregate other nodes. Every node can be evaluated two ways:
//
//	Clause()  compile to a SQL filter fragment with positional parameters
//	Match()   evaluate directly against one record in memory
//
// Both paths must agree on every record. Clause may refuse (second result
// false) when no faithful SQL form exists; the caller then evaluates that
// subtree with Match after running a looser statement.
//
// # Sealed Interfaces
//
// Query is sealed with an unexported marker method. The set of
// leaf behaviours is closed: MatchQuery, SubstringQuery, RegexpQuery,
// BooleanQuery, BytesQuery, NumericQuery and DateQuery, registered by Kind in
// a constructor table used by New and AnyFieldQuery.
//
// # Refusal
//
// A leaf refuses to compile when its Fast flag is false (the field is a
// flexible attribute that has no column), and RegexpQuery always refuses.
// AndQuery and OrQuery refuse when any child refuses; there is no partial
// push-down.
//
// # Concurrency
//
// Clause and Match have no side effects, so distinct trees (and the same
// tree, while nobody edits it) can be evaluated from several goroutines.
// The edit methods of AndQuery and OrQuery are not safe for concurrent use.
package query
