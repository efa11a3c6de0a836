package scenarios

import (
	"github.com/AntonStoeckl/dynamic-query-go/fixture"
)

const (
	RolesTable = "roles"
	UsersTable = "users"
)

// Schema describes the roles and users tables in the given database schema, e.g. "main" or "public".
func Schema(schemaName string) fixture.Schema {
	return fixture.MustNewSchema(
		schemaName,
		fixture.Table{
			Name: schemaName + "." + RolesTable,
			Columns: []fixture.Column{
				{Name: "id", Type: fixture.ColumnGUID},
				{Name: "name", Type: fixture.ColumnText},
				{Name: "created_at", Type: fixture.ColumnDateTime},
			},
		},
		fixture.Table{
			Name: schemaName + "." + UsersTable,
			Columns: []fixture.Column{
				{Name: "id", Type: fixture.ColumnGUID},
				{Name: "role_id", Type: fixture.ColumnGUID},
				{Name: "email", Type: fixture.ColumnText},
				{Name: "active", Type: fixture.ColumnBoolean},
				{Name: "login_count", Type: fixture.ColumnInteger},
				{Name: "created_at", Type: fixture.ColumnDateTime},
			},
		},
	)
}

// SQLiteDDL creates the tables in SQLite, users.role_id references roles.id.
var SQLiteDDL = []string{
	`CREATE TABLE roles (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE users (
		id          TEXT PRIMARY KEY,
		role_id     TEXT NOT NULL REFERENCES roles (id),
		email       TEXT NOT NULL UNIQUE,
		active      BOOLEAN NOT NULL,
		login_count INTEGER NOT NULL,
		created_at  DATETIME NOT NULL
	)`,
}

// PostgresDDL creates the tables in PostgreSQL.
var PostgresDDL = []string{
	`CREATE TABLE IF NOT EXISTS roles (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id          UUID PRIMARY KEY,
		role_id     UUID NOT NULL REFERENCES roles (id),
		email       TEXT NOT NULL UNIQUE,
		active      BOOLEAN NOT NULL,
		login_count BIGINT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
}
