// Package sqlstore provides a SQL-backed query.Reader that translates a query.Selection
// into a single statement per read, built with goqu using bind parameters.
//
// Filters become WHERE conditions on the fields' columns. Text matching operators and quick
// search become case-insensitive LIKE conditions: LOWER(column) LIKE ? ESCAPE '!'.
// Sorting becomes ORDER BY the sort column followed by a tie-breaker column, paging becomes
// LIMIT and OFFSET.
//
// Common usage pattern:
//
//	store, err := sqlstore.NewStoreFromPGXPool(
//		pool,
//		"public.products",
//		[]string{"id", "code", "name", "status"},
//		scanProduct,
//		sqlstore.WithTieBreaker("id"),
//	)
//
//	repository, err := query.NewRepository[Product](store, productFields)
package sqlstore
