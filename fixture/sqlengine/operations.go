package sqlengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/dynamic-query-go/fixture"
	"github.com/AntonStoeckl/dynamic-query-go/internal/adapters"
)

var errNilSnapshot = errors.New("snapshot must not be nil")

// GetDataSetFromDb reads every column of every table of schema into a new Snapshot.
// It runs without a transaction. Any failing table aborts the whole capture.
func (e *Engine) GetDataSetFromDb(ctx context.Context, schema fixture.Schema) (*fixture.Snapshot, error) {
	var snapshot *fixture.Snapshot

	err := e.observe(ctx, operationRead, ErrReadingDataSetFailed, func(ctx context.Context) (int, int, error) {
		e.logState(ctx, operationRead, stateConnecting)
		e.logState(ctx, operationRead, stateReading)

		captured := fixture.NewSnapshot(schema)
		tables := schema.Tables()

		for _, t := range tables {
			if err := ctx.Err(); err != nil {
				return 0, 0, err
			}

			if err := e.readTable(ctx, captured, t); err != nil {
				return 0, 0, fmt.Errorf("table %s: %w", t.Name, err)
			}
		}

		snapshot = captured

		return captured.TotalRows(), len(tables), nil
	})

	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (e *Engine) readTable(ctx context.Context, snapshot *fixture.Snapshot, t fixture.Table) error {
	query, args, err := e.buildSelectAll(t)
	if err != nil {
		return err
	}

	start := time.Now()

	rows, err := e.db.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer e.closeRows(ctx, rows, t.Name)

	values := make([]any, len(t.Columns))
	dest := make([]any, len(t.Columns))

	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err = rows.Scan(dest...); err != nil {
			return err
		}

		if err = snapshot.AddRow(t.Name, values...); err != nil {
			return err
		}
	}

	if err = rows.Err(); err != nil {
		return err
	}

	e.inst.LogSQL(ctx, query, logActionSelect, time.Since(start))

	return nil
}

func (e *Engine) closeRows(ctx context.Context, rows adapters.DBRows, table string) {
	if err := rows.Close(); err != nil {
		e.inst.LogWarn(ctx, logMsgCloseRowsFailed, err, logAttrTable, table)
	}
}

// ClearDatabase deletes all rows of all schema tables in one transaction, in reverse
// declaration order, with constraints switched off around the deletes.
// Clearing an empty schema succeeds.
func (e *Engine) ClearDatabase(ctx context.Context, schema fixture.Schema) error {
	return e.observe(ctx, operationClear, ErrClearingDatabaseFailed, func(ctx context.Context) (int, int, error) {
		tables := schema.Tables()
		deleted := int64(0)

		err := e.inTransaction(ctx, operationClear, func(ctx context.Context, tx adapters.DBTx) error {
			e.logState(ctx, operationClear, stateClearing)

			if err := e.toggleConstraints(ctx, tx, tables, false); err != nil {
				return err
			}

			for i := len(tables) - 1; i >= 0; i-- {
				n, err := e.deleteAll(ctx, tx, tables[i])
				if err != nil {
					return err
				}

				deleted += n
			}

			return e.toggleConstraints(ctx, tx, tables, true)
		})

		return int(deleted), len(tables), err
	})
}

func (e *Engine) deleteAll(ctx context.Context, tx adapters.DBTx, t fixture.Table) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	query, args, err := e.buildDeleteAll(t)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", t.Name, err)
	}

	n, err := e.exec(ctx, tx, logActionDelete, query, args)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", t.Name, err)
	}

	return n, nil
}

// SeedDatabase inserts all rows of snapshot in one transaction, table by table in declaration
// order, with constraints switched off around the inserts.
// Seeding the same snapshot twice without clearing in between is expected to fail on duplicate keys.
func (e *Engine) SeedDatabase(ctx context.Context, snapshot *fixture.Snapshot) error {
	if snapshot == nil {
		return errors.Join(ErrSeedingDatabaseFailed, errNilSnapshot)
	}

	return e.observe(ctx, operationSeed, ErrSeedingDatabaseFailed, func(ctx context.Context) (int, int, error) {
		tables := snapshot.Tables()
		inserted := int64(0)

		err := e.inTransaction(ctx, operationSeed, func(ctx context.Context, tx adapters.DBTx) error {
			e.logState(ctx, operationSeed, stateSeeding)

			if err := e.toggleConstraints(ctx, tx, tables, false); err != nil {
				return err
			}

			for _, t := range tables {
				n, err := e.insertRows(ctx, tx, t, snapshot.Rows(t.Name))
				if err != nil {
					return err
				}

				inserted += n
			}

			return e.toggleConstraints(ctx, tx, tables, true)
		})

		return int(inserted), len(tables), err
	})
}

func (e *Engine) insertRows(ctx context.Context, tx adapters.DBTx, t fixture.Table, rows []fixture.Row) (int64, error) {
	inserted := int64(0)
	batchSize := e.rowsPerInsert(t)

	for start := 0; start < len(rows); start += batchSize {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		batch := rows[start:min(start+batchSize, len(rows))]

		query, args, err := e.buildInsert(t, batch)
		if err != nil {
			return 0, fmt.Errorf("insert into %s: %w", t.Name, err)
		}

		n, err := e.exec(ctx, tx, logActionInsert, query, args)
		if err != nil {
			return 0, fmt.Errorf("insert into %s: %w", t.Name, err)
		}

		inserted += n
	}

	return inserted, nil
}

func (e *Engine) toggleConstraints(ctx context.Context, tx adapters.DBTx, tables []fixture.Table, enable bool) error {
	statements, action := e.toggle.Disable, logActionDisable
	if enable {
		statements, action = e.toggle.Enable, logActionEnable
	}

	for _, t := range tables {
		for _, statement := range statements(t.Name) {
			if err := ctx.Err(); err != nil {
				return err
			}

			if _, err := e.exec(ctx, tx, action, statement, nil); err != nil {
				return fmt.Errorf("%s on %s: %w", action, t.Name, err)
			}
		}
	}

	return nil
}
