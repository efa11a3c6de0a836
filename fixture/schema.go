package fixture

import (
	"fmt"
	"slices"
	"strings"
)

// Column is a named, typed column. Names must match the storage exactly.
type Column struct {
	Name string
	Type ColumnType
}

// Table is a fully qualified table name (e.g. "public.users") with its ordered columns.
type Table struct {
	Name    string
	Columns []Column
}

// ColumnNames returns the column names in declaration order.
func (t Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}

	return names
}

// SchemaName returns the part before the first dot, "" for unqualified names.
func (t Table) SchemaName() string {
	schema, _, found := strings.Cut(t.Name, ".")
	if !found {
		return ""
	}

	return schema
}

func (t Table) validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyTableName
	}

	if len(t.Columns) == 0 {
		return fmt.Errorf("%w: %q", ErrTableWithoutColumns, t.Name)
	}

	seen := make(map[string]struct{}, len(t.Columns))

	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("%w: table %q", ErrEmptyColumnName, t.Name)
		}

		if !c.Type.Valid() {
			return fmt.Errorf("%w: %q on %s.%s", ErrUnknownColumnType, string(c.Type), t.Name, c.Name)
		}

		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: %s.%s", ErrDuplicateColumn, t.Name, c.Name)
		}

		seen[c.Name] = struct{}{}
	}

	return nil
}

// Schema is a named set of tables in dependency order: referenced tables first.
// Seeding follows that order and clearing reverses it.
type Schema struct {
	name   string
	tables []Table
}

// NewSchema validates names, column types and uniqueness.
func NewSchema(name string, tables ...Table) (Schema, error) {
	if strings.TrimSpace(name) == "" {
		return Schema{}, ErrEmptySchemaName
	}

	seen := make(map[string]struct{}, len(tables))
	copied := make([]Table, 0, len(tables))

	for _, t := range tables {
		if err := t.validate(); err != nil {
			return Schema{}, err
		}

		if _, dup := seen[t.Name]; dup {
			return Schema{}, fmt.Errorf("%w: %q", ErrDuplicateTable, t.Name)
		}

		seen[t.Name] = struct{}{}
		copied = append(copied, Table{Name: t.Name, Columns: slices.Clone(t.Columns)})
	}

	return Schema{name: name, tables: copied}, nil
}

// MustNewSchema is like NewSchema but panics on an invalid definition.
func MustNewSchema(name string, tables ...Table) Schema {
	schema, err := NewSchema(name, tables...)
	if err != nil {
		panic(err)
	}

	return schema
}

func (s Schema) Name() string {
	return s.name
}

// Tables returns copies of the tables in declaration order.
func (s Schema) Tables() []Table {
	tables := make([]Table, 0, len(s.tables))
	for _, t := range s.tables {
		tables = append(tables, Table{Name: t.Name, Columns: slices.Clone(t.Columns)})
	}

	return tables
}

func (s Schema) Table(name string) (Table, bool) {
	for _, t := range s.tables {
		if t.Name == name {
			return Table{Name: t.Name, Columns: slices.Clone(t.Columns)}, true
		}
	}

	return Table{}, false
}
