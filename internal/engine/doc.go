// Package engine runs searches against a store.
//
// A search compiles the filter and sort into one statement, executes it,
// and then finishes in memory whatever the statement could not express:
//
//  1. querysql.Builder compiles the query tree and sort.
//  2. The store executes the statement with its params in order.
//  3. If the filter refused to compile, every returned record is checked
//     with Query.Match (post-filter).
//  4. If the sort is slow, the records are sorted with Sort.Sort
//     (post-sort), which applies every key.
//
// Each search gets a UUIDv7 id that tags its log lines.
//
// CRITICAL PATTERNS:
//
// Same answer on both paths:
// For any tree, the records selected by the compiled statement equal the
// records selected by Match over the whole table. The engine relies on this
// when it falls back to the slow path, and the tests check it leaf by leaf.
package engine
