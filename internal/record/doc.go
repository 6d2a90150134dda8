// Package record defines the typed field values and the record contract
// shared by the query compiler, the sort engine and the store.
//
// A record exposes read access by field name through FieldAccessible. Every
// read returns a Value, which is one of a closed set of variants:
//
//	Text     UTF-8 string (SQLite TEXT)
//	Int      64-bit integer (SQLite INTEGER)
//	Float    64-bit float (SQLite REAL)
//	Bool     boolean, stored by SQLite as INTEGER 0/1
//	Bytes    raw bytes (SQLite BLOB), never conflated with Text
//	Missing  the field is absent or NULL
//
// Value is a sealed interface: only the types in this package implement it,
// which keeps type switches over values exhaustive.
//
// The coercions in this package (AsString, AsFloat, Compare) mirror the
// conversions SQLite applies when it evaluates a compiled clause, so that a
// predicate evaluated in memory agrees with the same predicate executed by
// the store.
package record
