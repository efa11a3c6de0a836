package sqlengine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/dynamic-query-go/fixture/sqlengine"
)

func Test_ConstraintToggles(t *testing.T) {
	tests := []struct {
		name            string
		toggle          sqlengine.ConstraintToggle
		table           string
		expectedDialect string
		expectedDisable []string
		expectedEnable  []string
	}{
		{
			name:            "postgres triggers",
			toggle:          sqlengine.PostgresTriggers(),
			table:           "public.users",
			expectedDialect: "postgres",
			expectedDisable: []string{`ALTER TABLE "public"."users" DISABLE TRIGGER ALL`},
			expectedEnable:  []string{`ALTER TABLE "public"."users" ENABLE TRIGGER ALL`},
		},
		{
			name:            "postgres triggers quote embedded quotes",
			toggle:          sqlengine.PostgresTriggers(),
			table:           `odd"name`,
			expectedDialect: "postgres",
			expectedDisable: []string{`ALTER TABLE "odd""name" DISABLE TRIGGER ALL`},
			expectedEnable:  []string{`ALTER TABLE "odd""name" ENABLE TRIGGER ALL`},
		},
		{
			name:            "sql server nocheck",
			toggle:          sqlengine.SQLServerNoCheck(),
			table:           "dbo.users",
			expectedDialect: "sqlserver",
			expectedDisable: []string{"ALTER TABLE [dbo].[users] NOCHECK CONSTRAINT ALL"},
			expectedEnable:  []string{"ALTER TABLE [dbo].[users] WITH CHECK CHECK CONSTRAINT ALL"},
		},
		{
			name:            "sql server escapes closing brackets",
			toggle:          sqlengine.SQLServerNoCheck(),
			table:           "odd]name",
			expectedDialect: "sqlserver",
			expectedDisable: []string{"ALTER TABLE [odd]]name] NOCHECK CONSTRAINT ALL"},
			expectedEnable:  []string{"ALTER TABLE [odd]]name] WITH CHECK CHECK CONSTRAINT ALL"},
		},
		{
			name:            "sqlite deferred foreign keys",
			toggle:          sqlengine.SQLiteDeferredForeignKeys(),
			table:           "main.users",
			expectedDialect: "sqlite3",
			expectedDisable: []string{"PRAGMA defer_foreign_keys = ON"},
			expectedEnable:  nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act + assert
			assert.NotEmpty(t, tc.toggle.Name)
			assert.Equal(t, tc.expectedDialect, tc.toggle.Dialect)
			assert.Equal(t, tc.expectedDisable, tc.toggle.Disable(tc.table))
			assert.Equal(t, tc.expectedEnable, tc.toggle.Enable(tc.table))
		})
	}
}

func Test_CustomConstraintToggle(t *testing.T) {
	// setup
	custom := sqlengine.ConstraintToggle{
		Name:    "noop",
		Dialect: "sqlite3",
		Disable: func(string) []string { return nil },
		Enable:  func(string) []string { return nil },
	}

	// act
	engine, err := sqlengine.NewEngineFromSQLDB(sqliteDB(t), sqlengine.WithConstraintToggle(custom))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "noop", engine.ConstraintToggle().Name)
}
