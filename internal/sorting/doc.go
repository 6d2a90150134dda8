// Package sorting compiles sort orders for the item table.
//
// Like filters in package query, every Sort has two forms. Compile returns
// the SQL pieces needed to order rows in the store: extra select columns,
// join clauses, the ORDER BY text and the parameters the joins bind. Compare
// and Sort order records in memory for sorts the store cannot perform.
//
// A Fragment with Slow set means the order text covers only a prefix of the
// requested keys. The caller must then sort the rows again in memory with
// Sort, which always applies every key in a stable multi-key sort.
package sorting
