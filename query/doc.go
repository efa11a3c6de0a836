// Package query turns URL query strings into typed filters, quick search, sorting
// and paging over records of a generic type, and executes them against a Reader.
//
// Records are described once by a table of typed field accessors, so no reflection
// happens at query time. A query string supports:
//   - page (or pageNumber) and pageSize
//   - sortBy and sortDirection ("desc" for descending)
//   - search (or q, query) for a quick search over the searchable text fields
//   - any number of filter=field:operator:value tokens, e.g. filter=status:eq:Active
//
// Key types:
//   - Fields: the accessor table of a record type
//   - Parser: parses a query string into paging, sorting, filters and quick search
//   - Predicate: a compiled, composable filter over one record
//   - Repository: runs a paged query and returns a GetManyAndCountResult
//
// Common usage pattern:
//
//	fields := query.MustNewFields(
//		query.TextField("Name", func(p Product) string { return p.Name }).Searchable(),
//		query.EnumField("Status", func(p Product) string { return p.Status }, "Active", "Inactive"),
//		query.DecimalField("Price", func(p Product) decimal.Decimal { return p.Price }),
//	)
//
//	repository, err := query.NewRepository[Product](store, fields, query.WithLogger(logger))
//	if err != nil {
//		// handle error
//	}
//
//	result, err := repository.GetManyAndCount(ctx, "page=2&pageSize=5&filter=status:eq:active", "Name")
//	switch {
//	case query.IsBadRequest(err):
//		// client error
//	case err != nil:
//		// server error
//	}
package query
