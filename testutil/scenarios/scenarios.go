package scenarios

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect import
	"github.com/google/uuid"

	"github.com/AntonStoeckl/dynamic-query-go/scenario"
)

const (
	CreateRolesName = "CreateRoles"
	CreateUsersName = "CreateUsers"

	UserCount = 5
)

// AdminRoleID is the id of the role seeded by CreateRoles.
var AdminRoleID = uuid.MustParse("11111111-1111-4111-8111-111111111111")

var seededAt = time.Date(2024, time.January, 15, 8, 30, 0, 0, time.UTC)

// Executor runs one statement; *sqlengine.Engine implements it.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}

// CreateRoles seeds the admin role.
func CreateRoles(db Executor, dialect, schemaName string) scenario.Scenario {
	return scenario.New(CreateRolesName, "", func(ctx context.Context) error {
		return insert(ctx, db, dialect, schemaName, RolesTable, goqu.Record{
			"id":         AdminRoleID,
			"name":       "admin",
			"created_at": seededAt,
		})
	})
}

// CreateUsers preloads CreateRoles and seeds UserCount users of the admin role.
func CreateUsers(db Executor, dialect, schemaName string) scenario.Scenario {
	return scenario.New(CreateUsersName, CreateRolesName, func(ctx context.Context) error {
		rows := make([]any, 0, UserCount)

		for i := 1; i <= UserCount; i++ {
			rows = append(rows, goqu.Record{
				"id":          UserID(i),
				"role_id":     AdminRoleID,
				"email":       fmt.Sprintf("user%d@example.com", i),
				"active":      i%2 == 1,
				"login_count": int64(i * 3),
				"created_at":  seededAt.Add(time.Duration(i) * time.Hour),
			})
		}

		return insert(ctx, db, dialect, schemaName, UsersTable, rows...)
	})
}

// UserID returns the deterministic id of the n-th seeded user.
func UserID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("22222222-2222-4222-8222-%012d", n))
}

func insert(ctx context.Context, db Executor, dialect, schemaName, table string, rows ...any) error {
	sqlQuery, args, err := goqu.Dialect(dialect).
		Insert(goqu.S(schemaName).Table(table)).
		Rows(rows...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, sqlQuery, args...)

	return err
}
