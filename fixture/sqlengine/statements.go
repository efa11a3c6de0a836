package sqlengine

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"  // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"   // dialect import
	_ "github.com/doug-martin/goqu/v9/dialect/sqlserver" // dialect import
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/dynamic-query-go/fixture"
)

type sqlQueryString = string

func (e *Engine) dialect() goqu.DialectWrapper {
	return goqu.Dialect(e.toggle.Dialect)
}

// tableIdentifier splits "schema.table" so both parts get quoted separately.
func tableIdentifier(name string) exp.IdentifierExpression {
	if schema, table, found := strings.Cut(name, "."); found {
		return goqu.S(schema).Table(table)
	}

	return goqu.T(name)
}

func columnIdentifiers(t fixture.Table) []any {
	cols := make([]any, 0, len(t.Columns))
	for _, c := range t.Columns {
		cols = append(cols, goqu.C(c.Name))
	}

	return cols
}

// buildSelectAll orders by all columns so repeated captures of the same data are identical.
func (e *Engine) buildSelectAll(t fixture.Table) (sqlQueryString, []any, error) {
	order := make([]exp.OrderedExpression, 0, len(t.Columns))
	for _, c := range t.Columns {
		order = append(order, goqu.C(c.Name).Asc())
	}

	return e.dialect().
		From(tableIdentifier(t.Name)).
		Select(columnIdentifiers(t)...).
		Order(order...).
		Prepared(true).
		ToSQL()
}

func (e *Engine) buildDeleteAll(t fixture.Table) (sqlQueryString, []any, error) {
	return e.dialect().
		Delete(tableIdentifier(t.Name)).
		Prepared(true).
		ToSQL()
}

func (e *Engine) buildInsert(t fixture.Table, rows []fixture.Row) (sqlQueryString, []any, error) {
	vals := make([][]any, 0, len(rows))
	for _, row := range rows {
		vals = append(vals, row)
	}

	return e.dialect().
		Insert(tableIdentifier(t.Name)).
		Cols(columnIdentifiers(t)...).
		Vals(vals...).
		Prepared(true).
		ToSQL()
}

// rowsPerInsert keeps every INSERT below the bind parameter limits of all supported databases.
func (e *Engine) rowsPerInsert(t fixture.Table) int {
	return min(e.insertBatchSize, max(1, maxParamsPerStatement/len(t.Columns)))
}
