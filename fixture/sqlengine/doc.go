// Package sqlengine captures, clears and seeds the tables of a fixture.Schema in a SQL database.
//
// ClearDatabase and SeedDatabase each run in one transaction. Integrity constraints are
// switched off for every table before the destructive statements and switched back on
// before the commit, using a ConstraintToggle strategy for the database at hand:
//   - PostgresTriggers: ALTER TABLE ... DISABLE/ENABLE TRIGGER ALL
//   - SQLServerNoCheck: ALTER TABLE ... NOCHECK / WITH CHECK CHECK CONSTRAINT ALL
//   - SQLiteDeferredForeignKeys: PRAGMA defer_foreign_keys = ON
//
// Any failure, including a canceled context, rolls the whole transaction back.
//
// Common usage pattern:
//
//	engine, err := sqlengine.NewEngineFromPGXPool(pool, sqlengine.WithLogger(logger))
//	snapshot, err := engine.GetDataSetFromDb(ctx, schema)
//	err = engine.ClearDatabase(ctx, schema)
//	err = engine.SeedDatabase(ctx, snapshot)
package sqlengine
