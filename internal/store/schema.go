package store

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/roach88/dbcore/internal/query"
)

//go:embed schema.sql.tmpl
var schemaTemplate string

var schemaDDL = template.Must(template.New("schema").Parse(schemaTemplate))

// ErrInvalidSchema is returned for schemas that cannot be created.
var ErrInvalidSchema = errors.New("invalid schema")

// reservedPrefixes begin the names that sort joins add to a statement.
var reservedPrefixes = []string{"sort_attr_", "flex_"}

// columnTypes are the declared types a native column may have.
var columnTypes = map[string]bool{
	"TEXT":    true,
	"INTEGER": true,
	"REAL":    true,
	"NUMERIC": true,
	"BLOB":    true,
}

// Column is a native column of the item table.
type Column struct {
	Name string
	Type string
}

// Schema describes the item table and its flexible attribute table.
//
// Every item table has an implicit "id INTEGER PRIMARY KEY". Fields that are
// not columns are stored as rows of the attribute table, keyed by
// (entity_id, key).
type Schema struct {
	Table          string
	AttributeTable string
	Columns        []Column
}

// TableName returns the item table name.
func (s Schema) TableName() string { return s.Table }

// AttributeTableName returns the attribute table name.
func (s Schema) AttributeTableName() string { return s.AttributeTable }

// HasColumn reports whether name is a native column. The id column counts.
func (s Schema) HasColumn(name string) bool {
	if name == "id" {
		return true
	}
	for _, c := range s.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// ColumnNames returns the declared column names in order, without id.
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Validate checks that every name is an identifier and every type is known.
func (s Schema) Validate() error {
	if !query.ValidField(s.Table) {
		return fmt.Errorf("%w: table name %q", ErrInvalidSchema, s.Table)
	}
	if !query.ValidField(s.AttributeTable) {
		return fmt.Errorf("%w: attribute table name %q", ErrInvalidSchema, s.AttributeTable)
	}
	if s.Table == s.AttributeTable {
		return fmt.Errorf("%w: table and attribute table are both %q", ErrInvalidSchema, s.Table)
	}
	seen := map[string]bool{"id": true}
	for _, c := range s.Columns {
		if !query.ValidField(c.Name) {
			return fmt.Errorf("%w: column name %q", ErrInvalidSchema, c.Name)
		}
		for _, prefix := range reservedPrefixes {
			if strings.HasPrefix(c.Name, prefix) {
				return fmt.Errorf("%w: column %s uses the reserved prefix %q", ErrInvalidSchema, c.Name, prefix)
			}
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate column %q", ErrInvalidSchema, c.Name)
		}
		seen[c.Name] = true
		if !columnTypes[strings.ToUpper(c.Type)] {
			return fmt.Errorf("%w: column %s has type %q", ErrInvalidSchema, c.Name, c.Type)
		}
	}
	return nil
}

// DDL renders the CREATE statements for the schema.
func (s Schema) DDL() (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder
	if err := schemaDDL.Execute(&b, s); err != nil {
		return "", fmt.Errorf("render schema: %w", err)
	}
	return b.String(), nil
}
