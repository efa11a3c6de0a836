package query

import (
	"strings"
)

// Predicate decides whether a record is part of a result.
type Predicate[T any] func(T) bool

// True returns the predicate matching every record.
func True[T any]() Predicate[T] {
	return func(T) bool { return true }
}

// And combines p with other; a nil predicate counts as True.
func (p Predicate[T]) And(other Predicate[T]) Predicate[T] {
	switch {
	case p == nil && other == nil:
		return True[T]()
	case p == nil:
		return other
	case other == nil:
		return p
	}

	return func(record T) bool { return p(record) && other(record) }
}

// Or returns the predicate matching records that match any of predicates; no predicates match nothing.
func Or[T any](predicates ...Predicate[T]) Predicate[T] {
	return func(record T) bool {
		for _, p := range predicates {
			if p != nil && p(record) {
				return true
			}
		}

		return false
	}
}

// Matches reports whether the record matches; a nil predicate matches everything.
func (p Predicate[T]) Matches(record T) bool {
	return p == nil || p(record)
}

// NormalizeFilters validates each clause against the field table and returns clauses
// with canonical field names and typed values.
func NormalizeFilters[T any](fields Fields[T], filters []FilterOperator) ([]FilterOperator, error) {
	normalized := make([]FilterOperator, 0, len(filters))

	for _, filter := range filters {
		field, ok := fields.Lookup(filter.field)
		if !ok {
			return nil, parseError(ErrUnknownField, "%q", filter.field)
		}

		if !field.Type().Supports(filter.operator) {
			return nil, parseError(ErrOperatorNotAllowed, "%s on %s field %q", filter.operator, field.Type(), field.Name())
		}

		if len(filter.values) == 0 || (filter.operator != In && len(filter.values) != 1) {
			return nil, parseError(ErrInvalidValueCount, "%d values for %s on %q", len(filter.values), filter.operator, field.Name())
		}

		values := make([]any, 0, len(filter.values))

		for _, raw := range filter.values {
			value, err := normalizeValue(field.Type(), raw, field.enumValues)
			if err != nil {
				return nil, err
			}

			values = append(values, value)
		}

		normalized = append(normalized, FilterOperator{field: field.Name(), operator: filter.operator, values: values})
	}

	return normalized, nil
}

// ParsePredicate compiles the AND of all clauses; no clauses yield True.
func ParsePredicate[T any](fields Fields[T], filters []FilterOperator) (Predicate[T], error) {
	normalized, err := NormalizeFilters(fields, filters)
	if err != nil {
		return nil, err
	}

	predicate := True[T]()

	for _, filter := range normalized {
		field, _ := fields.Lookup(filter.field)
		predicate = predicate.And(compileClause(field, filter))
	}

	return predicate, nil
}

// ParseQueryValuesToExpression returns base AND (any quick search field contains the term).
// A nil quickSearch returns base unchanged.
func ParseQueryValuesToExpression[T any](
	fields Fields[T],
	base Predicate[T],
	quickSearch *QuickSearch,
) (Predicate[T], error) {

	if base == nil {
		base = True[T]()
	}

	if quickSearch == nil {
		return base, nil
	}

	matchers := make([]Predicate[T], 0, len(quickSearch.fields))

	for _, name := range quickSearch.fields {
		field, ok := fields.Lookup(name)
		if !ok {
			return nil, parseError(ErrUnknownField, "quick search field %q", name)
		}

		if field.Type() != Text {
			return nil, parseError(ErrQuickSearchFieldNotText, "%q", field.Name())
		}

		matchers = append(matchers, compileClause(field, FilterOperator{
			field:    field.Name(),
			operator: Contains,
			values:   []any{quickSearch.term},
		}))
	}

	return base.And(Or(matchers...)), nil
}

// compileClause expects a normalized clause.
func compileClause[T any](field Field[T], filter FilterOperator) Predicate[T] {
	fieldType := field.Type()
	want := filter.Value()

	switch filter.operator {
	case Equals:
		return func(r T) bool { return compareValues(fieldType, field.Value(r), want) == 0 }
	case NotEquals:
		return func(r T) bool { return compareValues(fieldType, field.Value(r), want) != 0 }
	case GreaterThan:
		return func(r T) bool { return compareValues(fieldType, field.Value(r), want) > 0 }
	case GreaterOrEqual:
		return func(r T) bool { return compareValues(fieldType, field.Value(r), want) >= 0 }
	case LessThan:
		return func(r T) bool { return compareValues(fieldType, field.Value(r), want) < 0 }
	case LessOrEqual:
		return func(r T) bool { return compareValues(fieldType, field.Value(r), want) <= 0 }
	case Contains, StartsWith, EndsWith:
		return textMatch(field, filter.operator, strings.ToLower(want.(string)))
	case In:
		set := filter.Values()
		return func(r T) bool {
			got := field.Value(r)
			for _, candidate := range set {
				if compareValues(fieldType, got, candidate) == 0 {
					return true
				}
			}

			return false
		}
	default:
		return func(T) bool { return false }
	}
}

func textMatch[T any](field Field[T], operator Operator, loweredTerm string) Predicate[T] {
	match := strings.Contains

	switch operator {
	case StartsWith:
		match = strings.HasPrefix
	case EndsWith:
		match = strings.HasSuffix
	default:
	}

	return func(r T) bool {
		return match(strings.ToLower(field.Value(r).(string)), loweredTerm)
	}
}
