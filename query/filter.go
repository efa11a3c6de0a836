package query

import (
	"fmt"
	"slices"
	"strings"
)

/***** FilterOperator *****/

// FilterOperator is a single filter clause: field, operator and one value, or a value set for In.
type FilterOperator struct {
	field    string
	operator Operator
	values   []any
}

// NewFilterOperator creates a clause. Values may be literals or typed values, they
// are coerced to the field's type when the clause is compiled.
func NewFilterOperator(field string, operator Operator, value any, values ...any) FilterOperator {
	return FilterOperator{
		field:    strings.TrimSpace(field),
		operator: operator,
		values:   append([]any{value}, values...),
	}
}

func (fo FilterOperator) Field() string {
	return fo.field
}

func (fo FilterOperator) Operator() Operator {
	return fo.operator
}

// Value returns the first value; for all operators but In it is the only one.
func (fo FilterOperator) Value() any {
	if len(fo.values) == 0 {
		return nil
	}

	return fo.values[0]
}

func (fo FilterOperator) Values() []any {
	return append([]any(nil), fo.values...)
}

func (fo FilterOperator) String() string {
	return fmt.Sprintf("%s:%s:%v", fo.field, fo.operator, fo.values)
}

// identity ignores the case of the field name only; values stay exact.
func (fo FilterOperator) identity() string {
	return fmt.Sprintf("%s:%s:%v", strings.ToLower(fo.field), fo.operator, fo.values)
}

/***** QuickSearch *****/

// QuickSearch is a free-text term matched case-insensitively against several text fields.
type QuickSearch struct {
	term   string
	fields []string
}

// NewQuickSearch creates a QuickSearch; term must be non-blank and at least one field given.
func NewQuickSearch(term string, fields ...string) (*QuickSearch, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, parseError(ErrEmptySearchTerm, "%q", term)
	}

	fields = slices.DeleteFunc(slices.Clone(fields), func(f string) bool { return strings.TrimSpace(f) == "" })
	if len(fields) == 0 {
		return nil, parseError(ErrNoSearchableFields, "term %q", term)
	}

	return &QuickSearch{term: term, fields: fields}, nil
}

func (qs *QuickSearch) Term() string {
	return qs.term
}

func (qs *QuickSearch) Fields() []string {
	return append([]string(nil), qs.fields...)
}

/***** Filter *****/

// Filter is a conjunction of FilterOperator clauses built with BuildFilter.
type Filter struct {
	clauses []FilterOperator
}

func (f Filter) Clauses() []FilterOperator {
	return append([]FilterOperator(nil), f.clauses...)
}

/***** FilterBuilder *****/

// FilterBuilder builds a Filter programmatically, as an alternative to parsing a query string.
// All clauses must match:
//
//   - empty filter (matches everything)
//   - (clause)
//   - (clause AND clause...)
type FilterBuilder interface {
	// Where adds the first clause.
	Where(field string, operator Operator, value any, values ...any) CompletedFilterBuilder

	// MatchingAll directly creates an empty Filter.
	MatchingAll() Filter
}

type CompletedFilterBuilder interface {
	// And adds another clause.
	And(field string, operator Operator, value any, values ...any) CompletedFilterBuilder

	// Finalize returns the sanitized Filter.
	//
	// It sanitizes the clauses:
	//	- removing clauses with an empty field name or a nil value
	//	- sorting the clauses by field name, operator and value
	//	- removing duplicate clauses
	Finalize() Filter
}

// filterBuilder implements all the interfaces of FilterBuilder
type filterBuilder struct {
	clauses []FilterOperator
}

// BuildFilter creates a FilterBuilder which must eventually be finalized with Finalize() or MatchingAll().
func BuildFilter() FilterBuilder {
	return filterBuilder{}
}

func (fb filterBuilder) Where(field string, operator Operator, value any, values ...any) CompletedFilterBuilder {
	fb.clauses = append(slices.Clip(fb.clauses), NewFilterOperator(field, operator, value, values...))

	return fb
}

func (fb filterBuilder) And(field string, operator Operator, value any, values ...any) CompletedFilterBuilder {
	return fb.Where(field, operator, value, values...)
}

// MatchingAll directly creates an empty filter.
func (fb filterBuilder) MatchingAll() Filter {
	return Filter{}
}

func (fb filterBuilder) Finalize() Filter {
	return Filter{clauses: fb.sanitizeClauses()}
}

func (fb filterBuilder) sanitizeClauses() []FilterOperator {
	all := slices.Clone(fb.clauses)
	all = slices.DeleteFunc(all, func(c FilterOperator) bool {
		return c.field == "" || slices.Contains(c.values, nil)
	})

	slices.SortStableFunc(all, func(a, b FilterOperator) int {
		return strings.Compare(a.identity(), b.identity())
	})

	all = slices.CompactFunc(all, func(a, b FilterOperator) bool {
		return a.identity() == b.identity()
	})

	return slices.Clip(all)
}
