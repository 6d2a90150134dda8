// Package store provides SQLite-backed storage for items and their flexible
// attributes, and executes statements compiled by package querysql.
//
// # Layout
//
// Each store has two tables, both named by its Schema:
//   - The item table: "id INTEGER PRIMARY KEY" plus one column per native
//     field, with the declared SQLite type.
//   - The attribute table: (id, entity_id, key, value) rows holding fields
//     that have no column. The value column is untyped, so values keep the
//     storage class they were written with.
//
// Queries filter on native columns in SQL. Filters on attributes are slow
// and run in memory after Execute has merged attributes into each record.
//
// # Parameter Order
//
// Execute binds Statement.Params positionally, in order. Builders must emit
// params in the order their placeholders appear in the text.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Attributes are deleted with their item
package store
