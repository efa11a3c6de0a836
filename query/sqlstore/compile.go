package sqlstore

import (
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect import
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/dynamic-query-go/query"
)

const (
	likeEscape    = "!"
	likeCondition = "LOWER(?) LIKE ? ESCAPE '!'"
)

var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

type sqlQueryString = string

func (s *Store[T]) tableIdentifier() exp.IdentifierExpression {
	if schema, table, found := strings.Cut(s.table, "."); found {
		return goqu.S(schema).Table(table)
	}

	return goqu.T(s.table)
}

func (s *Store[T]) buildCountQuery(selection query.Selection[T]) (sqlQueryString, []any, error) {
	where, err := whereClause(selection)
	if err != nil {
		return "", nil, err
	}

	return goqu.Dialect(s.config.dialect).
		From(s.tableIdentifier()).
		Select(goqu.COUNT(goqu.Star())).
		Where(where...).
		Prepared(true).
		ToSQL()
}

func (s *Store[T]) buildFindQuery(selection query.Selection[T], window query.PageWindow) (sqlQueryString, []any, error) {
	where, err := whereClause(selection)
	if err != nil {
		return "", nil, err
	}

	order := make([]exp.OrderedExpression, 0, 2)

	criteria := selection.Sorting()
	sortColumn := criteria.Field().Column()

	if sortColumn != "" {
		if criteria.Direction() == query.Descending {
			order = append(order, goqu.C(sortColumn).Desc())
		} else {
			order = append(order, goqu.C(sortColumn).Asc())
		}
	}

	if s.config.tieBreaker != sortColumn {
		order = append(order, goqu.C(s.config.tieBreaker).Asc())
	}

	limit := uint(max(window.PageSize, 0)) //nolint:gosec
	offset := uint(max(window.Skip(), 0))  //nolint:gosec

	return goqu.Dialect(s.config.dialect).
		From(s.tableIdentifier()).
		Select(s.selectedColumns()...).
		Where(where...).
		Order(order...).
		Limit(limit).
		Offset(offset).
		Prepared(true).
		ToSQL()
}

// whereClause ANDs all filter conditions and the quick search group.
func whereClause[T any](selection query.Selection[T]) ([]exp.Expression, error) {
	fields := selection.Fields()
	filters := selection.Filters()
	conditions := make([]exp.Expression, 0, len(filters)+1)

	for _, filter := range filters {
		field, ok := fields.Lookup(filter.Field())
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFilterField, filter.Field())
		}

		conditions = append(conditions, filterCondition(goqu.C(field.Column()), filter))
	}

	if quickSearch := selection.QuickSearch(); quickSearch != nil {
		pattern := "%" + escapeLike(quickSearch.Term()) + "%"
		matches := make([]exp.Expression, 0, len(quickSearch.Fields()))

		for _, name := range quickSearch.Fields() {
			field, ok := fields.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownFilterField, name)
			}

			matches = append(matches, goqu.L(likeCondition, goqu.C(field.Column()), pattern))
		}

		conditions = append(conditions, goqu.Or(matches...))
	}

	return conditions, nil
}

func filterCondition(col exp.IdentifierExpression, filter query.FilterOperator) exp.Expression {
	value := filter.Value()

	switch filter.Operator() {
	case query.Equals:
		return col.Eq(value)
	case query.NotEquals:
		return col.Neq(value)
	case query.GreaterThan:
		return col.Gt(value)
	case query.GreaterOrEqual:
		return col.Gte(value)
	case query.LessThan:
		return col.Lt(value)
	case query.LessOrEqual:
		return col.Lte(value)
	case query.Contains:
		return goqu.L(likeCondition, col, "%"+escapeLike(value.(string))+"%")
	case query.StartsWith:
		return goqu.L(likeCondition, col, escapeLike(value.(string))+"%")
	case query.EndsWith:
		return goqu.L(likeCondition, col, "%"+escapeLike(value.(string)))
	case query.In:
		return col.In(filter.Values()...)
	default:
		return goqu.L("1 = 0")
	}
}

// escapeLike lower-cases term and escapes the LIKE wildcards with '!'.
func escapeLike(term string) string {
	return likeEscaper.Replace(strings.ToLower(term))
}
