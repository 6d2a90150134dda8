package sorting

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/dbcore/internal/query"
	"github.com/roach88/dbcore/internal/record"
)

// Schema is the part of the store layout that sorts need to know about.
type Schema interface {
	// TableName is the item table.
	TableName() string

	// AttributeTableName is the table of flexible attributes, keyed by
	// (entity_id, key).
	AttributeTableName() string

	// HasColumn reports whether name is a native column of the item table.
	HasColumn(name string) bool
}

// Fragment is the compiled form of a sort. Params bind to the "?"
// placeholders in Joins, in order.
type Fragment struct {
	Select []string
	Joins  []string
	Order  string
	Params []any

	// Slow is true when Order does not cover every key of the sort.
	Slow bool
}

// Sort orders records.
type Sort interface {
	// Compile returns the SQL form of the sort.
	Compile() Fragment

	// Compare orders two records: negative when a sorts first.
	Compare(a, b record.FieldAccessible) int

	// Sort orders records in place. The sort is stable.
	Sort(records []record.Record)
}

func direction(ascending bool) string {
	if ascending {
		return "ASC"
	}
	return "DESC"
}

func orient(c int, ascending bool) int {
	if ascending {
		return c
	}
	return -c
}

func sortStable(s Sort, records []record.Record) {
	slices.SortStableFunc(records, func(a, b record.Record) int {
		return s.Compare(a, b)
	})
}

func checkField(field string) error {
	if !query.ValidField(field) {
		return &query.FieldError{Field: field}
	}
	return nil
}

// FixedFieldSort orders by a native column.
type FixedFieldSort struct {
	Field     string
	Ascending bool

	// Fast is false for computed fields with no column. Such sorts have no
	// order text and are applied in memory.
	Fast bool
}

// NewFixedFieldSort creates a sort on a native column.
func NewFixedFieldSort(field string, ascending, fast bool) (*FixedFieldSort, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	return &FixedFieldSort{Field: field, Ascending: ascending, Fast: fast}, nil
}

// Compile implements Sort.
func (s *FixedFieldSort) Compile() Fragment {
	if !s.Fast {
		return Fragment{Slow: true}
	}
	return Fragment{Order: s.Field + " " + direction(s.Ascending)}
}

// Compare implements Sort.
func (s *FixedFieldSort) Compare(a, b record.FieldAccessible) int {
	return orient(record.Compare(a.Get(s.Field), b.Get(s.Field)), s.Ascending)
}

// Sort implements Sort.
func (s *FixedFieldSort) Sort(records []record.Record) { sortStable(s, records) }

// FlexFieldSort orders by a flexible attribute. The attribute table is
// joined once per field under the alias sort_attr_<field>.
type FlexFieldSort struct {
	Field     string
	Ascending bool

	table string
	attrs string
}

// NewFlexFieldSort creates a sort on a flexible attribute of schema.
func NewFlexFieldSort(schema Schema, field string, ascending bool) (*FlexFieldSort, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	return &FlexFieldSort{
		Field:     field,
		Ascending: ascending,
		table:     schema.TableName(),
		attrs:     schema.AttributeTableName(),
	}, nil
}

func (s *FlexFieldSort) alias() string  { return "sort_attr_" + s.Field }
func (s *FlexFieldSort) column() string { return "flex_" + s.Field }

// Compile implements Sort. The attribute table is joined through a
// subquery so that only names with the sort_attr_ and flex_ prefixes enter
// the outer statement; unqualified item columns such as id stay
// unambiguous.
func (s *FlexFieldSort) Compile() Fragment {
	alias, col := s.alias(), s.column()
	return Fragment{
		Select: []string{fmt.Sprintf("%s.%s AS %s", alias, col, col)},
		Joins: []string{fmt.Sprintf(
			"LEFT JOIN (SELECT entity_id AS %[1]s_entity, value AS %[2]s FROM %[3]s WHERE key = ?) AS %[1]s ON %[4]s.id = %[1]s.%[1]s_entity",
			alias, col, s.attrs, s.table,
		)},
		Order:  col + " " + direction(s.Ascending),
		Params: []any{s.Field},
	}
}

// Compare implements Sort.
func (s *FlexFieldSort) Compare(a, b record.FieldAccessible) int {
	return orient(record.Compare(a.Get(s.Field), b.Get(s.Field)), s.Ascending)
}

// Sort implements Sort.
func (s *FlexFieldSort) Sort(records []record.Record) { sortStable(s, records) }

// SmartArtistSort orders by the artist sort name, falling back to the
// artist name when the sort name is empty. Album artist fields are preferred
// over track artist fields when the table has them.
type SmartArtistSort struct {
	Ascending bool

	sortField string // "" when the table has neither pair
	nameField string
}

// NewSmartArtistSort picks the artist fields from the schema's columns.
func NewSmartArtistSort(schema Schema, ascending bool) *SmartArtistSort {
	s := &SmartArtistSort{Ascending: ascending}
	switch {
	case schema.HasColumn("albumartist_sort"):
		s.sortField, s.nameField = "albumartist_sort", "albumartist"
	case schema.HasColumn("artist_sort"):
		s.sortField, s.nameField = "artist_sort", "artist"
	}
	return s
}

// Compile implements Sort. Without artist fields the fragment is empty.
func (s *SmartArtistSort) Compile() Fragment {
	if s.sortField == "" {
		return Fragment{}
	}
	return Fragment{Order: fmt.Sprintf(
		"(CASE WHEN %[1]s IS NULL OR %[1]s = '' THEN %[2]s ELSE %[1]s END) %[3]s",
		s.sortField, s.nameField, direction(s.Ascending),
	)}
}

func (s *SmartArtistSort) key(r record.FieldAccessible) record.Value {
	v := r.Get(s.sortField)
	if record.IsMissing(v) || v == record.Text("") {
		return r.Get(s.nameField)
	}
	return v
}

// Compare implements Sort.
func (s *SmartArtistSort) Compare(a, b record.FieldAccessible) int {
	if s.sortField == "" {
		return 0
	}
	return orient(record.Compare(s.key(a), s.key(b)), s.Ascending)
}

// Sort implements Sort.
func (s *SmartArtistSort) Sort(records []record.Record) { sortStable(s, records) }

// MultipleSort chains sorts. Earlier sorts take precedence.
type MultipleSort struct {
	sorts []Sort
}

// NewMultipleSort creates a chain of sorts.
func NewMultipleSort(sorts ...Sort) *MultipleSort {
	return &MultipleSort{sorts: append([]Sort(nil), sorts...)}
}

// Add appends a sort to the chain.
func (s *MultipleSort) Add(sort Sort) {
	s.sorts = append(s.sorts, sort)
}

// Sorts returns a copy of the chain.
func (s *MultipleSort) Sorts() []Sort {
	return append([]Sort(nil), s.sorts...)
}

// Compile implements Sort. Select columns, joins and params come from
// every sort in the chain; a join repeated by a later sort on the same
// attribute is emitted once. The order text stops before the first slow
// sort, since keys after it can only be applied in memory.
func (s *MultipleSort) Compile() Fragment {
	var (
		out    Fragment
		orders []string
		joined = make(map[string]bool)
	)
	for _, sort := range s.sorts {
		f := sort.Compile()
		if len(f.Joins) > 0 {
			key := strings.Join(f.Joins, "\n")
			if !joined[key] {
				joined[key] = true
				out.Select = append(out.Select, f.Select...)
				out.Joins = append(out.Joins, f.Joins...)
				out.Params = append(out.Params, f.Params...)
			}
		} else {
			out.Select = append(out.Select, f.Select...)
			out.Params = append(out.Params, f.Params...)
		}
		if out.Slow {
			continue
		}
		if f.Slow {
			out.Slow = true
			continue
		}
		if f.Order != "" {
			orders = append(orders, f.Order)
		}
	}
	out.Order = strings.Join(orders, ", ")
	return out
}

// Compare implements Sort. The first sort that tells a and b apart wins.
func (s *MultipleSort) Compare(a, b record.FieldAccessible) int {
	for _, sort := range s.sorts {
		if c := sort.Compare(a, b); c != 0 {
			return c
		}
	}
	return 0
}

// Sort implements Sort with a stable sort over every key in the chain.
func (s *MultipleSort) Sort(records []record.Record) { sortStable(s, records) }

// Raw is a pre-formatted ORDER BY text passed to the store unchanged.
// It never sorts in memory.
type Raw string

// Compile implements Sort.
func (r Raw) Compile() Fragment { return Fragment{Order: string(r)} }

// Compare implements Sort.
func (Raw) Compare(a, b record.FieldAccessible) int { return 0 }

// Sort implements Sort.
func (Raw) Sort([]record.Record) {}
