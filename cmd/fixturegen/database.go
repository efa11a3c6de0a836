package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // migrate driver
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"  // migrate driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // migrate source
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/AntonStoeckl/dynamic-query-go/fixture/sqlengine"
	"github.com/AntonStoeckl/dynamic-query-go/observability"
)

const sqliteFilePrefix = "file:"

// openEngine connects to the configured database and returns the engine plus a function releasing the connection.
func openEngine(ctx context.Context, cfg Config, logger observability.Logger) (*sqlengine.Engine, func(), error) {
	if err := cfg.validateDatabase(); err != nil {
		return nil, nil, err
	}

	options := []sqlengine.Option{
		sqlengine.WithLogger(logger),
		sqlengine.WithInsertBatchSize(cfg.BatchSize),
	}

	switch cfg.Driver {
	case driverSQLite:
		db, err := sql.Open(driverSQLite, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}

		if err = db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		engine, err := sqlengine.NewEngineFromSQLDB(
			db,
			append(options, sqlengine.WithConstraintToggle(sqlengine.SQLiteDeferredForeignKeys()))...,
		)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		return engine, func() { _ = db.Close() }, nil

	default:
		pool, err := pgxpool.New(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}

		if err = pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		engine, err := sqlengine.NewEngineFromPGXPool(
			pool,
			append(options, sqlengine.WithConstraintToggle(sqlengine.PostgresTriggers()))...,
		)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}

		return engine, pool.Close, nil
	}
}

// migrateURL turns the configured DSN into a database URL golang-migrate understands.
func migrateURL(cfg Config) string {
	if cfg.Driver == driverSQLite {
		return driverSQLite + "://" + strings.TrimPrefix(cfg.DSN, sqliteFilePrefix)
	}

	return cfg.DSN
}

// runMigrations applies (up) or reverts (down) all migrations; an up-to-date database is not an error.
func runMigrations(cfg Config, up bool, logger observability.Logger) error {
	if err := cfg.validateDatabase(); err != nil {
		return err
	}

	dir, err := filepath.Abs(cfg.Migrations)
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+filepath.ToSlash(dir), migrateURL(cfg))
	if err != nil {
		return fmt.Errorf("initializing migrations from %s: %w", dir, err)
	}
	defer func() {
		sourceErr, dbErr := m.Close()
		if closeErr := errors.Join(sourceErr, dbErr); closeErr != nil {
			logger.Warn("failed to close migrations", "error", closeErr.Error())
		}
	}()

	if up {
		err = m.Up()
	} else {
		err = m.Down()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("migrations already up to date", "dir", dir)
		return nil
	}

	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		logger.Info("migrations reverted", "dir", dir)
		return nil
	}

	if err != nil {
		return err
	}

	logger.Info("migrations applied", "dir", dir, "version", version, "dirty", dirty)

	return nil
}
