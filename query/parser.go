package query

import (
	"errors"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Reserved query string keys, matched case-insensitively.
const (
	keyPage          = "page"
	keyPageNumber    = "pagenumber"
	keyPageSize      = "pagesize"
	keySortBy        = "sortby"
	keySortDirection = "sortdirection"
	keySearch        = "search"
	keyQ             = "q"
	keyQuery         = "query"
	keyFilter        = "filter"

	filterTokenSeparator = ":"
	inValuesSeparator    = ","
)

// ParsedQuery holds all four groups of a query string.
type ParsedQuery struct {
	Window      PageWindow
	Sorting     Sorting
	Filters     []FilterOperator
	QuickSearch *QuickSearch
}

// Parser turns a URL query string into paging, sorting, filter and quick search
// parameters for the record type T. It is pure and never panics.
type Parser[T any] struct {
	values   url.Values
	parseErr error
	fields   Fields[T]
}

// NewParser parses rawQuery, which may be empty or start with "?".
// Keys are lower-cased; the order of repeated values is kept.
func NewParser[T any](rawQuery string, fields Fields[T]) Parser[T] {
	p := Parser[T]{values: url.Values{}, fields: fields}

	parsed, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(rawQuery), "?"))
	if err != nil {
		p.parseErr = parseError(ErrMalformedQueryString, "%v", err)
	}

	for _, key := range slices.Sorted(maps.Keys(parsed)) {
		vals := parsed[key]
		lower := strings.ToLower(strings.TrimSpace(key))
		p.values[lower] = append(p.values[lower], vals...)
	}

	return p
}

func (p Parser[T]) first(keys ...string) (string, bool) {
	for _, key := range keys {
		if vals := p.values[key]; len(vals) > 0 {
			return strings.TrimSpace(vals[0]), true
		}
	}

	return "", false
}

// ParsePageNumber returns the page, DefaultPage when absent, non-numeric or < 1.
// Pages above MaxPage, including values too large for an int, are capped to MaxPage.
func (p Parser[T]) ParsePageNumber() int {
	raw, ok := p.first(keyPage, keyPageNumber)
	if !ok {
		return DefaultPage
	}

	page, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(strings.TrimSpace(raw), "-") {
		return MaxPage
	}

	if err != nil || page < 1 {
		return DefaultPage
	}

	return min(page, MaxPage)
}

// ParsePageSize returns the page size, DefaultPageSize when absent, non-numeric or out of 1..MaxPageSize.
func (p Parser[T]) ParsePageSize() int {
	raw, ok := p.first(keyPageSize)
	if !ok {
		return DefaultPageSize
	}

	size, err := strconv.Atoi(raw)
	if err != nil || size < 1 || size > MaxPageSize {
		return DefaultPageSize
	}

	return size
}

func (p Parser[T]) ParsePageWindow() PageWindow {
	return PageWindow{Page: p.ParsePageNumber(), PageSize: p.ParsePageSize()}
}

// ParseSorting returns the requested sorting, defaultSortField ascending without a sortBy key.
func (p Parser[T]) ParseSorting(defaultSortField string) Sorting {
	by, ok := p.first(keySortBy)
	if !ok || by == "" {
		by = defaultSortField
	}

	direction, _ := p.first(keySortDirection)

	return Sorting{By: by, Direction: ParseSortDirection(direction)}
}

// ParseFilterOperators returns one FilterOperator per filter token, in query string order.
// Tokens have the form field:operator:value; the value may contain ":" and is a
// comma-delimited list for In. Values are coerced to the field's type.
func (p Parser[T]) ParseFilterOperators() ([]FilterOperator, error) {
	if p.parseErr != nil {
		return nil, p.parseErr
	}

	tokens := p.values[keyFilter]
	filters := make([]FilterOperator, 0, len(tokens))

	for _, token := range tokens {
		filter, err := p.parseFilterToken(token)
		if err != nil {
			return nil, err
		}

		filters = append(filters, filter)
	}

	return filters, nil
}

func (p Parser[T]) parseFilterToken(token string) (FilterOperator, error) {
	parts := strings.SplitN(token, filterTokenSeparator, 3)
	if len(parts) != 3 || strings.TrimSpace(parts[0]) == "" {
		return FilterOperator{}, parseError(ErrMalformedFilterToken, "%q", token)
	}

	field, ok := p.fields.Lookup(parts[0])
	if !ok {
		return FilterOperator{}, parseError(ErrUnknownField, "%q", strings.TrimSpace(parts[0]))
	}

	operator, err := ParseOperator(parts[1])
	if err != nil {
		return FilterOperator{}, err
	}

	if !field.Type().Supports(operator) {
		return FilterOperator{}, parseError(ErrOperatorNotAllowed, "%s on %s field %q", operator, field.Type(), field.Name())
	}

	literals := []string{parts[2]}
	if operator == In {
		literals = strings.Split(parts[2], inValuesSeparator)
	}

	values := make([]any, 0, len(literals))

	for _, literal := range literals {
		value, coerceErr := field.Coerce(literal)
		if coerceErr != nil {
			return FilterOperator{}, coerceErr
		}

		values = append(values, value)
	}

	return FilterOperator{field: field.Name(), operator: operator, values: values}, nil
}

// ParseQuery returns the quick search, nil when no non-blank search/q/query token is present.
func (p Parser[T]) ParseQuery() (*QuickSearch, error) {
	if p.parseErr != nil {
		return nil, p.parseErr
	}

	term, ok := p.first(keySearch, keyQ, keyQuery)
	if !ok || term == "" {
		return nil, nil //nolint:nilnil
	}

	return NewQuickSearch(term, p.fields.SearchableFields()...)
}

// Parse returns all four groups at once.
func (p Parser[T]) Parse(defaultSortField string) (ParsedQuery, error) {
	filters, err := p.ParseFilterOperators()
	if err != nil {
		return ParsedQuery{}, err
	}

	quickSearch, err := p.ParseQuery()
	if err != nil {
		return ParsedQuery{}, err
	}

	return ParsedQuery{
		Window:      p.ParsePageWindow(),
		Sorting:     p.ParseSorting(defaultSortField),
		Filters:     filters,
		QuickSearch: quickSearch,
	}, nil
}
