package sqlengine

import (
	"strings"

	"github.com/lib/pq"
)

const (
	dialectPostgres  = "postgres"
	dialectSQLServer = "sqlserver"
	dialectSQLite    = "sqlite3"
)

// ConstraintToggle is the per-database strategy to switch integrity checks off and on for a table.
// Disable and Enable return the statements to execute inside the running transaction.
// Dialect names the goqu dialect used to build the engine's SELECT, DELETE and INSERT statements.
type ConstraintToggle struct {
	Name    string
	Dialect string
	Disable func(table string) []string
	Enable  func(table string) []string
}

func (t ConstraintToggle) valid() bool {
	return t.Name != "" && t.Dialect != "" && t.Disable != nil && t.Enable != nil
}

// PostgresTriggers disables all triggers, including the internal foreign key triggers, of a table.
// It needs a role allowed to alter system triggers.
func PostgresTriggers() ConstraintToggle {
	return ConstraintToggle{
		Name:    "postgres-triggers",
		Dialect: dialectPostgres,
		Disable: func(table string) []string {
			return []string{"ALTER TABLE " + quotePostgres(table) + " DISABLE TRIGGER ALL"}
		},
		Enable: func(table string) []string {
			return []string{"ALTER TABLE " + quotePostgres(table) + " ENABLE TRIGGER ALL"}
		},
	}
}

// SQLServerNoCheck switches off foreign key and check constraints of a table and re-validates them on enable.
func SQLServerNoCheck() ConstraintToggle {
	return ConstraintToggle{
		Name:    "sqlserver-nocheck",
		Dialect: dialectSQLServer,
		Disable: func(table string) []string {
			return []string{"ALTER TABLE " + quoteSQLServer(table) + " NOCHECK CONSTRAINT ALL"}
		},
		Enable: func(table string) []string {
			return []string{"ALTER TABLE " + quoteSQLServer(table) + " WITH CHECK CHECK CONSTRAINT ALL"}
		},
	}
}

// SQLiteDeferredForeignKeys defers foreign key checks to the commit of the running transaction.
// SQLite resets the pragma at every commit, so enabling is a no-op, and violations still fail the commit.
func SQLiteDeferredForeignKeys() ConstraintToggle {
	return ConstraintToggle{
		Name:    "sqlite-deferred-foreign-keys",
		Dialect: dialectSQLite,
		Disable: func(string) []string {
			return []string{"PRAGMA defer_foreign_keys = ON"}
		},
		Enable: func(string) []string {
			return nil
		},
	}
}

func quotePostgres(table string) string {
	parts := strings.Split(table, ".")
	for i, part := range parts {
		parts[i] = pq.QuoteIdentifier(part)
	}

	return strings.Join(parts, ".")
}

func quoteSQLServer(table string) string {
	parts := strings.Split(table, ".")
	for i, part := range parts {
		parts[i] = "[" + strings.ReplaceAll(part, "]", "]]") + "]"
	}

	return strings.Join(parts, ".")
}
