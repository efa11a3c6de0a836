// Command generate regenerates the snapshot files of the sample scenarios in testutil/scenarios/testdata.
// It seeds a throwaway SQLite database, so no running database server is needed.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/AntonStoeckl/dynamic-query-go/fixture/sqlengine"
	"github.com/AntonStoeckl/dynamic-query-go/scenario"
	"github.com/AntonStoeckl/dynamic-query-go/testutil/scenarios"
)

const (
	OutputDir  = "testutil/scenarios/testdata" // The directory to put the snapshot files into - should be fine as is.
	SchemaName = "main"
	dialect    = "sqlite3"
)

func main() {
	if err := GenerateScenarioSnapshots(context.Background()); err != nil {
		panic(fmt.Sprintf("Error generating scenario snapshots: %v\n", err))
	}
}

func GenerateScenarioSnapshots(ctx context.Context) error {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return err
	}

	tmpDir, err := os.MkdirTemp("", "scenario-snapshots-")
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	db, err := sql.Open(dialect, "file:"+filepath.Join(tmpDir, "scenarios.db")+"?_foreign_keys=on")
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	for _, ddl := range scenarios.SQLiteDDL {
		if _, err = db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	engine, err := sqlengine.NewEngineFromSQLDB(
		db,
		sqlengine.WithConstraintToggle(sqlengine.SQLiteDeferredForeignKeys()),
		sqlengine.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	registry, err := scenario.NewRegistry(
		scenarios.CreateRoles(engine, dialect, SchemaName),
		scenarios.CreateUsers(engine, dialect, SchemaName),
	)
	if err != nil {
		return err
	}

	runner, err := scenario.NewRunner(
		engine,
		scenarios.Schema(SchemaName),
		scenario.FileStore{Dir: filepath.Join(projectRoot, OutputDir)},
		registry,
		scenario.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	results, err := runner.RunAll(ctx)
	for _, result := range results {
		fmt.Printf("%-12s rows=%-3d skipped=%-5t %s\n", result.Name, result.Rows, result.Skipped, result.Path)
	}

	return err
}

func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	// Walk up the directory tree looking for go.mod
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.New("could not find project root (no go.mod found)")
}
