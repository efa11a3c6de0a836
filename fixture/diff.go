package fixture

import (
	"github.com/google/go-cmp/cmp"
)

type comparableTable struct {
	Name    string
	Columns []Column
	Rows    []Row
}

type comparableSnapshot struct {
	Schema string
	Tables []comparableTable
}

func (s *Snapshot) view() comparableSnapshot {
	if s == nil {
		return comparableSnapshot{}
	}

	c := comparableSnapshot{Schema: s.schema.name, Tables: make([]comparableTable, 0, len(s.schema.tables))}
	for _, t := range s.schema.tables {
		c.Tables = append(c.Tables, comparableTable{Name: t.Name, Columns: t.Columns, Rows: s.rows[t.Name]})
	}

	return c
}

// Diff returns a human-readable report of the differences between two snapshots, "" when equal.
// Datetimes are compared by instant and decimals by value.
func Diff(want, got *Snapshot) string {
	return cmp.Diff(want.view(), got.view())
}

// Equal reports whether both snapshots have the same tables, columns and rows.
func Equal(a, b *Snapshot) bool {
	return cmp.Equal(a.view(), b.view())
}
