package sqlengine_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-query-go/fixture"
	"github.com/AntonStoeckl/dynamic-query-go/fixture/sqlengine"
	"github.com/AntonStoeckl/dynamic-query-go/testutil/config"
	"github.com/AntonStoeckl/dynamic-query-go/testutil/scenarios"
)

func sqliteDB(t *testing.T) *sql.DB {
	t.Helper()

	return config.SQLiteSQLDB(t)
}

func postgresSnapshot() *fixture.Snapshot {
	snapshot := fixture.NewSnapshot(scenarios.Schema("public"))

	for i := 1; i <= roleCount; i++ {
		snapshot.MustAddRow("public.roles", roleID(i), fmt.Sprintf("role-%d", i), seededAt)
	}

	for i := 1; i <= userCount; i++ {
		snapshot.MustAddRow("public.users", userID(i), roleID(i%roleCount+1), fmt.Sprintf("user%d@example.com", i), i%2 == 0, i*7, seededAt)
	}

	return snapshot
}

func Test_PostgresEngine_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		engine func(t *testing.T) *sqlengine.Engine
	}{
		{
			name: "pgx pool",
			engine: func(t *testing.T) *sqlengine.Engine {
				pool := config.PostgresPGXPool(t)
				for _, statement := range scenarios.PostgresDDL {
					_, err := pool.Exec(context.Background(), statement)
					require.NoError(t, err)
				}

				engine, err := sqlengine.NewEngineFromPGXPool(pool)
				require.NoError(t, err)

				return engine
			},
		},
		{
			name: "database sql",
			engine: func(t *testing.T) *sqlengine.Engine {
				db := config.PostgresSQLDB(t)
				for _, statement := range scenarios.PostgresDDL {
					_, err := db.ExecContext(context.Background(), statement)
					require.NoError(t, err)
				}

				engine, err := sqlengine.NewEngineFromSQLDB(db)
				require.NoError(t, err)

				return engine
			},
		},
		{
			name: "sqlx",
			engine: func(t *testing.T) *sqlengine.Engine {
				db := config.PostgresSQLX(t)
				for _, statement := range scenarios.PostgresDDL {
					_, err := db.ExecContext(context.Background(), statement)
					require.NoError(t, err)
				}

				engine, err := sqlengine.NewEngineFromSQLX(db)
				require.NoError(t, err)

				return engine
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			ctx := context.Background()
			schema := scenarios.Schema("public")
			engine := tc.engine(t)
			original := postgresSnapshot()

			// arrange
			require.NoError(t, engine.ClearDatabase(ctx, schema))
			require.NoError(t, engine.SeedDatabase(ctx, original))

			// act
			captured, err := engine.GetDataSetFromDb(ctx, schema)
			require.NoError(t, err)
			require.NoError(t, engine.ClearDatabase(ctx, schema))
			require.NoError(t, engine.SeedDatabase(ctx, captured))
			recaptured, err := engine.GetDataSetFromDb(ctx, schema)
			require.NoError(t, err)

			// assert
			assert.Empty(t, fixture.Diff(original, captured))
			assert.Empty(t, fixture.Diff(captured, recaptured))
			assert.Equal(t, roleCount, recaptured.RowCount("public.roles"))
			assert.Equal(t, userCount, recaptured.RowCount("public.users"))
		})
	}
}
