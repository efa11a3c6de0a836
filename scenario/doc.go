// Package scenario builds layered test fixtures.
//
// A Scenario seeds storage and may name one preload scenario whose snapshot file is restored
// before its own seeding. The Runner clears storage, restores the preload, runs the scenario,
// captures the full schema and writes the result to the scenario's snapshot file. Files are
// written only after a scenario fully succeeded, so earlier files are never corrupted.
//
// Common usage pattern:
//
//	registry, err := scenario.NewRegistry(createRoles, createUsers)
//	runner, err := scenario.NewRunner(engine, schema, scenario.FileStore{Dir: "testdata/fixtures"}, registry)
//	results, err := runner.RunAll(ctx)
//
//	// in tests
//	err = runner.Load(ctx, "CreateUsers")
package scenario
