package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AntonStoeckl/dynamic-query-go/fixture"
	"github.com/AntonStoeckl/dynamic-query-go/testutil/scenarios"
)

const schemaYAML = `name: main
tables:
  - name: main.roles
    columns:
      - {name: id, type: guid}
      - {name: name, type: text}
      - {name: created_at, type: datetime}
  - name: main.users
    columns:
      - {name: id, type: guid}
      - {name: role_id, type: guid}
      - {name: email, type: text}
      - {name: active, type: boolean}
      - {name: login_count, type: integer}
      - {name: created_at, type: datetime}
`

var createdAt = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

type cliFixture struct {
	dir         string
	dsn         string
	dbFile      string
	schemaFile  string
	snapshotDir string
	migrations  string
}

func newCLIFixture(t *testing.T) cliFixture {
	t.Helper()

	dir := t.TempDir()
	f := cliFixture{
		dir:         dir,
		dbFile:      filepath.Join(dir, "app.db"),
		schemaFile:  filepath.Join(dir, "schema.yaml"),
		snapshotDir: filepath.Join(dir, "scenarios"),
		migrations:  filepath.Join(dir, "migrations"),
	}
	f.dsn = "file:" + f.dbFile + "?_foreign_keys=on"

	require.NoError(t, os.MkdirAll(f.migrations, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(f.migrations, "1_create_roles_and_users.up.sql"),
		[]byte(strings.Join(scenarios.SQLiteDDL, ";\n")+";\n"),
		0o600,
	))
	require.NoError(t, os.WriteFile(
		filepath.Join(f.migrations, "1_create_roles_and_users.down.sql"),
		[]byte("DROP TABLE users;\nDROP TABLE roles;\n"),
		0o600,
	))
	require.NoError(t, os.WriteFile(f.schemaFile, []byte(schemaYAML), 0o600))

	return f
}

// run executes the CLI with the fixture's database flags in front of args.
func (f cliFixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	a := &app{newLogger: func(bool) (*zap.Logger, error) { return zap.NewNop(), nil }}
	cmd := a.rootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{
		"--driver", driverSQLite,
		"--dsn", f.dsn,
		"--schema", f.schemaFile,
		"--snapshot-dir", f.snapshotDir,
		"--migrations", f.migrations,
	}, args...))

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func (f cliFixture) migrateUp(t *testing.T) {
	t.Helper()

	_, err := f.run(t, "migrate", "up")
	require.NoError(t, err)
}

func (f cliFixture) countRows(t *testing.T, table string) int {
	t.Helper()

	db, err := sql.Open(driverSQLite, f.dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&count))

	return count
}

func roleID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("11111111-1111-4111-8111-%012d", n))
}

func userID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("22222222-2222-4222-8222-%012d", n))
}

func rolesSnapshot() *fixture.Snapshot {
	return fixture.NewSnapshot(scenarios.Schema("main")).
		MustAddRow("main.roles", roleID(1), "admin", createdAt)
}

func usersSnapshot() *fixture.Snapshot {
	s := rolesSnapshot()
	for i := 1; i <= 3; i++ {
		s.MustAddRow("main.users", userID(i), roleID(1), fmt.Sprintf("user%d@example.com", i), i%2 == 1, int64(i*4), createdAt.Add(time.Duration(i)*time.Minute))
	}

	return s
}

func Test_Migrate(t *testing.T) {
	// setup
	f := newCLIFixture(t)

	// act
	_, err := f.run(t, "migrate", "up")

	// assert
	require.NoError(t, err)
	assert.Equal(t, 0, f.countRows(t, "users"))

	// act
	_, err = f.run(t, "migrate", "up")

	// assert
	require.NoError(t, err, "an up-to-date database is not an error")

	// act
	_, err = f.run(t, "migrate", "down")

	// assert
	require.NoError(t, err)
	_, err = f.run(t, "clear")
	assert.ErrorContains(t, err, "no such table")
}

func Test_Seed_Capture_Diff(t *testing.T) {
	// setup
	f := newCLIFixture(t)
	f.migrateUp(t)

	// arrange
	in := filepath.Join(f.dir, "in.json")
	out := filepath.Join(f.dir, "captured", "out.json")
	require.NoError(t, fixture.WriteSnapshotFile(in, usersSnapshot()))

	// act
	_, err := f.run(t, "seed", "--in", in)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, f.countRows(t, "users"))

	// act
	_, err = f.run(t, "capture", "--out", out)

	// assert
	require.NoError(t, err)
	captured, err := fixture.ReadSnapshotFile(out)
	require.NoError(t, err)
	assert.Empty(t, fixture.Diff(usersSnapshot(), captured))

	// act
	output, err := f.run(t, "diff", in, out)

	// assert
	require.NoError(t, err)
	assert.Contains(t, output, "snapshots are equal")
}

func Test_Capture_ToStdout(t *testing.T) {
	// setup
	f := newCLIFixture(t)
	f.migrateUp(t)

	// arrange
	in := filepath.Join(f.dir, "in.json")
	require.NoError(t, fixture.WriteSnapshotFile(in, rolesSnapshot()))
	_, err := f.run(t, "seed", "--in", in)
	require.NoError(t, err)

	// act
	output, err := f.run(t, "capture")

	// assert
	require.NoError(t, err)
	captured, err := fixture.DecodeSnapshot(strings.NewReader(output))
	require.NoError(t, err)
	assert.True(t, fixture.Equal(rolesSnapshot(), captured))
}

func Test_Seed_WithClear(t *testing.T) {
	// setup
	f := newCLIFixture(t)
	f.migrateUp(t)

	// arrange
	in := filepath.Join(f.dir, "in.json")
	require.NoError(t, fixture.WriteSnapshotFile(in, usersSnapshot()))
	_, err := f.run(t, "seed", "--in", in)
	require.NoError(t, err)

	// act
	_, err = f.run(t, "seed", "--in", in)

	// assert
	require.Error(t, err, "seeding the same rows twice must violate the primary keys")
	assert.Equal(t, 3, f.countRows(t, "users"))

	// act
	_, err = f.run(t, "seed", "--clear", "--in", in)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, f.countRows(t, "users"))
	assert.Equal(t, 1, f.countRows(t, "roles"))
}

func Test_Clear(t *testing.T) {
	// setup
	f := newCLIFixture(t)
	f.migrateUp(t)

	// arrange
	in := filepath.Join(f.dir, "in.json")
	require.NoError(t, fixture.WriteSnapshotFile(in, usersSnapshot()))
	_, err := f.run(t, "seed", "--in", in)
	require.NoError(t, err)

	// act
	_, err = f.run(t, "clear")

	// assert
	require.NoError(t, err)
	assert.Equal(t, 0, f.countRows(t, "users"))
	assert.Equal(t, 0, f.countRows(t, "roles"))
}

func Test_Diff_Mismatch(t *testing.T) {
	// setup
	f := newCLIFixture(t)

	// arrange
	want := filepath.Join(f.dir, "want.json")
	got := filepath.Join(f.dir, "got.json")
	require.NoError(t, fixture.WriteSnapshotFile(want, usersSnapshot()))
	require.NoError(t, fixture.WriteSnapshotFile(got, rolesSnapshot()))

	// act
	output, err := f.run(t, "diff", want, got)

	// assert
	require.ErrorIs(t, err, ErrSnapshotsDiffer)
	assert.Contains(t, output, "-want +got")
	assert.Contains(t, output, "user1@example.com")
}

func Test_Scenarios_ListAndLoad(t *testing.T) {
	// setup
	f := newCLIFixture(t)
	f.migrateUp(t)

	// arrange
	require.NoError(t, fixture.WriteSnapshotFile(filepath.Join(f.snapshotDir, "CreateUsers.json"), usersSnapshot()))
	require.NoError(t, fixture.WriteSnapshotFile(filepath.Join(f.snapshotDir, "CreateRoles.json"), rolesSnapshot()))
	require.NoError(t, os.WriteFile(filepath.Join(f.snapshotDir, "README.md"), []byte("not a snapshot"), 0o600))

	// act
	output, err := f.run(t, "scenarios", "list")

	// assert
	require.NoError(t, err)
	assert.Equal(t, "CreateRoles\t1\nCreateUsers\t4\n", output)

	// act
	_, err = f.run(t, "scenarios", "load", "CreateUsers")

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, f.countRows(t, "users"))

	// act
	_, err = f.run(t, "scenarios", "load", "CreateRoles")

	// assert
	require.NoError(t, err)
	assert.Equal(t, 0, f.countRows(t, "users"), "loading clears the rows of the previous scenario")
	assert.Equal(t, 1, f.countRows(t, "roles"))
}

func Test_ConfigFromEnvironmentAndFile(t *testing.T) {
	// setup
	f := newCLIFixture(t)
	f.migrateUp(t)

	// arrange
	configFile := filepath.Join(f.dir, "fixturegen.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("driver: sqlite3\nschema: "+f.schemaFile+"\n"), 0o600))
	t.Setenv("FIXTUREGEN_DSN", f.dsn)

	in := filepath.Join(f.dir, "in.json")
	require.NoError(t, fixture.WriteSnapshotFile(in, rolesSnapshot()))

	a := &app{newLogger: func(bool) (*zap.Logger, error) { return zap.NewNop(), nil }}
	cmd := a.rootCmd()
	cmd.SetArgs([]string{"--config", configFile, "seed", "--in", in})

	// act
	err := cmd.ExecuteContext(context.Background())

	// assert
	require.NoError(t, err)
	assert.Equal(t, driverSQLite, a.cfg.Driver)
	assert.Equal(t, f.dsn, a.cfg.DSN)
	assert.Equal(t, defaultBatchSize, a.cfg.BatchSize)
	assert.Equal(t, 1, f.countRows(t, "roles"))
}

func Test_ConfigErrors(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectedErr error
	}{
		{
			name:        "missing dsn",
			args:        []string{"--driver", driverSQLite, "--schema", "schema.yaml", "clear"},
			expectedErr: ErrMissingDSN,
		},
		{
			name:        "unsupported driver",
			args:        []string{"--driver", "oracle", "--dsn", "x", "--schema", "schema.yaml", "migrate", "up"},
			expectedErr: ErrUnsupportedDriver,
		},
		{
			name:        "missing schema",
			args:        []string{"--driver", driverSQLite, "--dsn", "file:x.db", "clear"},
			expectedErr: ErrMissingSchemaFile,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// setup
			t.Setenv("FIXTUREGEN_DSN", "")
			a := &app{newLogger: func(bool) (*zap.Logger, error) { return zap.NewNop(), nil }}
			cmd := a.rootCmd()
			cmd.SetArgs(tc.args)
			cmd.SetOut(&bytes.Buffer{})

			// act
			err := cmd.ExecuteContext(context.Background())

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_ZapLogger(t *testing.T) {
	// act
	logger, err := newZapLogger(true)

	// assert
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	// act
	logger, err = newZapLogger(false)

	// assert
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
}
