package record

import (
	"fmt"
	"sort"
)

// FieldAccessible is the read side of a record: access by field name.
// Get returns Missing for absent fields, never nil.
type FieldAccessible interface {
	Get(field string) Value
}

// Record is a row of the item table together with its flexible attributes.
type Record struct {
	// ID is the row id. Zero means the record has not been stored yet.
	ID int64

	// Fields maps field names to values. Native columns and flexible
	// attributes share this map.
	Fields map[string]Value
}

// New creates an empty record.
func New() Record {
	return Record{Fields: make(map[string]Value)}
}

// Get returns the value of field, or Missing if absent.
// The pseudo-field "id" resolves to the row id.
func (r Record) Get(field string) Value {
	if field == "id" && r.ID != 0 {
		return Int(r.ID)
	}
	v, ok := r.Fields[field]
	if !ok || v == nil {
		return Missing{}
	}
	return v
}

// Has reports whether field is present and not Missing.
func (r Record) Has(field string) bool {
	return !IsMissing(r.Get(field))
}

// Set assigns a field value. It allocates Fields on first use.
func (r *Record) Set(field string, v Value) {
	if r.Fields == nil {
		r.Fields = make(map[string]Value)
	}
	r.Fields[field] = v
}

// Keys returns the field names in lexical order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FromMap builds a record from decoded values such as YAML or JSON
// documents. An "id" entry becomes the row id and must be an integer.
func FromMap(fields map[string]any) (Record, error) {
	r := New()
	for k, v := range fields {
		if k != "id" {
			r.Set(k, FromDriver(v))
			continue
		}
		switch id := FromDriver(v).(type) {
		case Int:
			r.ID = int64(id)
		case Missing:
		default:
			return Record{}, fmt.Errorf("field id: %w", &TypeError{Want: "integer", Got: id})
		}
	}
	return r, nil
}
