package query

import (
	"strings"
)

// SortDirection of a Sorting.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) String() string {
	if d == Descending {
		return "desc"
	}

	return "asc"
}

// ParseSortDirection returns Descending for "desc" (case-insensitive) and Ascending for anything else.
func ParseSortDirection(token string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(token), "desc") {
		return Descending
	}

	return Ascending
}

// Sorting is the requested ordering: one field and a direction.
type Sorting struct {
	By        string
	Direction SortDirection
}

// SortingCriteria is a Sorting resolved against the field table of T.
type SortingCriteria[T any] struct {
	field     Field[T]
	direction SortDirection
}

// ResolveSorting validates that the sorting field exists and is sortable.
func ResolveSorting[T any](fields Fields[T], sorting Sorting) (SortingCriteria[T], error) {
	if strings.TrimSpace(sorting.By) == "" {
		return SortingCriteria[T]{}, parseError(ErrEmptySortingField, "sortBy")
	}

	field, ok := fields.Lookup(sorting.By)
	if !ok {
		return SortingCriteria[T]{}, parseError(ErrUnknownField, "sortBy %q", sorting.By)
	}

	if !field.IsSortable() {
		return SortingCriteria[T]{}, parseError(ErrFieldNotSortable, "%q", field.Name())
	}

	return SortingCriteria[T]{field: field, direction: sorting.Direction}, nil
}

func (sc SortingCriteria[T]) Field() Field[T] {
	return sc.field
}

func (sc SortingCriteria[T]) Direction() SortDirection {
	return sc.direction
}

// Sorting returns the resolved Sorting with the canonical field name.
func (sc SortingCriteria[T]) Sorting() Sorting {
	return Sorting{By: sc.field.Name(), Direction: sc.direction}
}

// Compare orders two records by the sorting field, honouring the direction.
func (sc SortingCriteria[T]) Compare(a, b T) int {
	c := compareValues(sc.field.Type(), sc.field.Value(a), sc.field.Value(b))
	if sc.direction == Descending {
		return -c
	}

	return c
}
