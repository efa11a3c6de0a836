package query

// Selection is a fully resolved query for T: normalized filters, quick search,
// the compiled predicate and the sorting criteria. Readers either evaluate the
// predicate in memory or translate filters and quick search to a storage query.
type Selection[T any] struct {
	fields      Fields[T]
	filters     []FilterOperator
	quickSearch *QuickSearch
	predicate   Predicate[T]
	sorting     SortingCriteria[T]
}

// NewSelection validates and compiles the parts of a query.
func NewSelection[T any](
	fields Fields[T],
	filters []FilterOperator,
	quickSearch *QuickSearch,
	sorting Sorting,
) (Selection[T], error) {

	normalized, err := NormalizeFilters(fields, filters)
	if err != nil {
		return Selection[T]{}, err
	}

	predicate, err := ParsePredicate(fields, normalized)
	if err != nil {
		return Selection[T]{}, err
	}

	predicate, err = ParseQueryValuesToExpression(fields, predicate, quickSearch)
	if err != nil {
		return Selection[T]{}, err
	}

	criteria, err := ResolveSorting(fields, sorting)
	if err != nil {
		return Selection[T]{}, err
	}

	return Selection[T]{
		fields:      fields,
		filters:     normalized,
		quickSearch: quickSearch,
		predicate:   predicate,
		sorting:     criteria,
	}, nil
}

// NewSelectionFromFilter builds a Selection from a programmatic Filter.
func NewSelectionFromFilter[T any](fields Fields[T], filter Filter, sorting Sorting) (Selection[T], error) {
	return NewSelection(fields, filter.clauses, nil, sorting)
}

func (s Selection[T]) Fields() Fields[T] {
	return s.fields
}

// Filters returns the normalized clauses with canonical field names and typed values.
func (s Selection[T]) Filters() []FilterOperator {
	return append([]FilterOperator(nil), s.filters...)
}

// QuickSearch returns nil when the query has no search term.
func (s Selection[T]) QuickSearch() *QuickSearch {
	return s.quickSearch
}

// Predicate returns the compiled filter AND quick search predicate.
func (s Selection[T]) Predicate() Predicate[T] {
	if s.predicate == nil {
		return True[T]()
	}

	return s.predicate
}

func (s Selection[T]) Sorting() SortingCriteria[T] {
	return s.sorting
}
