package fixture

import (
	"fmt"
	"slices"
)

// Row holds one value per column, in column order.
type Row []any

// Snapshot holds the typed rows of every table of a Schema.
// Referential integrity between tables is not checked, storage decides at seed time.
type Snapshot struct {
	schema Schema
	rows   map[string][]Row
}

// NewSnapshot creates an empty Snapshot of schema.
func NewSnapshot(schema Schema) *Snapshot {
	rows := make(map[string][]Row, len(schema.tables))
	for _, t := range schema.tables {
		rows[t.Name] = make([]Row, 0)
	}

	return &Snapshot{schema: schema, rows: rows}
}

func (s *Snapshot) Schema() Schema {
	return s.schema
}

// Tables returns the schema tables in declaration order.
func (s *Snapshot) Tables() []Table {
	return s.schema.Tables()
}

// AddRow appends a row to table. Values are normalized to their column types.
func (s *Snapshot) AddRow(table string, values ...any) error {
	t, ok := s.schema.Table(table)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}

	if len(values) != len(t.Columns) {
		return fmt.Errorf("%w: %s has %d columns, got %d values", ErrRowArityMismatch, table, len(t.Columns), len(values))
	}

	row := make(Row, len(values))

	for i, raw := range values {
		value, err := t.Columns[i].Type.Normalize(raw)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", table, t.Columns[i].Name, err)
		}

		row[i] = value
	}

	s.rows[table] = append(s.rows[table], row)

	return nil
}

// MustAddRow is like AddRow but panics; meant for fixtures defined in code.
func (s *Snapshot) MustAddRow(table string, values ...any) *Snapshot {
	if err := s.AddRow(table, values...); err != nil {
		panic(err)
	}

	return s
}

// Rows returns a copy of the rows of table in insertion order.
func (s *Snapshot) Rows(table string) []Row {
	rows := make([]Row, 0, len(s.rows[table]))
	for _, r := range s.rows[table] {
		rows = append(rows, slices.Clone(r))
	}

	return rows
}

func (s *Snapshot) RowCount(table string) int {
	return len(s.rows[table])
}

// TotalRows returns the number of rows across all tables.
func (s *Snapshot) TotalRows() int {
	total := 0
	for _, rows := range s.rows {
		total += len(rows)
	}

	return total
}
