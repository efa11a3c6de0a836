package query_test

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-query-go/query"
	"github.com/AntonStoeckl/dynamic-query-go/testutil/records"
)

func newProductParser(rawQuery string) query.Parser[records.Product] {
	return query.NewParser(rawQuery, records.ProductFields())
}

func Test_Parser_PageWindow(t *testing.T) {
	tests := []struct {
		name             string
		rawQuery         string
		expectedPage     int
		expectedPageSize int
	}{
		{name: "empty_query_uses_defaults", rawQuery: "", expectedPage: 1, expectedPageSize: 10},
		{name: "leading_question_mark_is_ignored", rawQuery: "?page=3&pageSize=7", expectedPage: 3, expectedPageSize: 7},
		{name: "keys_are_case_insensitive", rawQuery: "PAGE=2&PageSize=25", expectedPage: 2, expectedPageSize: 25},
		{name: "page_number_alias", rawQuery: "pageNumber=4", expectedPage: 4, expectedPageSize: 10},
		{name: "non_numeric_values_fall_back", rawQuery: "page=two&pageSize=many", expectedPage: 1, expectedPageSize: 10},
		{name: "zero_and_negative_fall_back", rawQuery: "page=0&pageSize=-5", expectedPage: 1, expectedPageSize: 10},
		{name: "page_size_above_maximum_falls_back", rawQuery: "pageSize=101", expectedPage: 1, expectedPageSize: 10},
		{name: "page_size_at_maximum_is_kept", rawQuery: "pageSize=100", expectedPage: 1, expectedPageSize: 100},
		{name: "first_value_wins", rawQuery: "page=2&page=9", expectedPage: 2, expectedPageSize: 10},
		{name: "page_above_maximum_is_capped", rawQuery: "page=4611686018427387905&pageSize=4", expectedPage: query.MaxPage, expectedPageSize: 4},
		{name: "page_beyond_int_range_is_capped", rawQuery: "page=99999999999999999999999", expectedPage: query.MaxPage, expectedPageSize: 10},
		{name: "negative_page_beyond_int_range_falls_back", rawQuery: "page=-99999999999999999999999", expectedPage: 1, expectedPageSize: 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			window := newProductParser(tc.rawQuery).ParsePageWindow()

			// assert
			assert.Equal(t, tc.expectedPage, window.Page)
			assert.Equal(t, tc.expectedPageSize, window.PageSize)
		})
	}
}

func Test_Parser_ParseSorting(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		expected query.Sorting
	}{
		{
			name:     "missing_sort_by_uses_default_ascending",
			rawQuery: "page=1",
			expected: query.Sorting{By: "name", Direction: query.Ascending},
		},
		{
			name:     "sort_by_and_direction",
			rawQuery: "sortBy=price&sortDirection=desc",
			expected: query.Sorting{By: "price", Direction: query.Descending},
		},
		{
			name:     "direction_is_case_insensitive",
			rawQuery: "sortBy=code&sortDirection=DESC",
			expected: query.Sorting{By: "code", Direction: query.Descending},
		},
		{
			name:     "unknown_direction_is_ascending",
			rawQuery: "sortBy=code&sortDirection=sideways",
			expected: query.Sorting{By: "code", Direction: query.Ascending},
		},
		{
			name:     "blank_sort_by_uses_default",
			rawQuery: "sortBy=&sortDirection=desc",
			expected: query.Sorting{By: "name", Direction: query.Descending},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			sorting := newProductParser(tc.rawQuery).ParseSorting("name")

			// assert
			assert.Equal(t, tc.expected, sorting)
		})
	}
}

func Test_Parser_ParseFilterOperators(t *testing.T) {
	// arrange
	rawQuery := "filter=status:equals:Active" +
		"&filter=quantity:gte:30" +
		"&filter=CODE:starts-with:ban" +
		"&filter=createdAt:lt:2024-03-05T00:00:00Z" +
		"&filter=id:in:00000000-0000-4000-8000-000000000001,00000000-0000-4000-8000-000000000002"

	// act
	filters, err := newProductParser(rawQuery).ParseFilterOperators()

	// assert
	require.NoError(t, err)
	require.Len(t, filters, 5)

	assert.Equal(t, "status", filters[0].Field())
	assert.Equal(t, query.Equals, filters[0].Operator())
	assert.Equal(t, records.StatusActive, filters[0].Value())

	assert.Equal(t, query.GreaterOrEqual, filters[1].Operator())
	assert.Equal(t, int64(30), filters[1].Value())

	assert.Equal(t, "code", filters[2].Field(), "field name is canonicalized")
	assert.Equal(t, query.StartsWith, filters[2].Operator())
	assert.Equal(t, "ban", filters[2].Value())

	assert.Equal(t, query.LessThan, filters[3].Operator())

	assert.Equal(t, query.In, filters[4].Operator())
	assert.Equal(
		t,
		[]any{
			uuid.MustParse("00000000-0000-4000-8000-000000000001"),
			uuid.MustParse("00000000-0000-4000-8000-000000000002"),
		},
		filters[4].Values(),
	)
}

func Test_Parser_FilterValueMayContainSeparator(t *testing.T) {
	// act
	filters, err := newProductParser("filter=name:contains:a:b").ParseFilterOperators()

	// assert
	require.NoError(t, err)
	require.Len(t, filters, 1)
	assert.Equal(t, "a:b", filters[0].Value())
}

func Test_Parser_ParseFilterOperators_Errors(t *testing.T) {
	tests := []struct {
		name        string
		rawQuery    string
		expectedErr error
	}{
		{name: "missing_value_part", rawQuery: "filter=status:eq", expectedErr: query.ErrMalformedFilterToken},
		{name: "missing_field", rawQuery: "filter=:eq:Active", expectedErr: query.ErrMalformedFilterToken},
		{name: "unknown_field", rawQuery: "filter=colour:eq:red", expectedErr: query.ErrUnknownField},
		{name: "unknown_operator", rawQuery: "filter=name:like:x", expectedErr: query.ErrUnsupportedOperator},
		{name: "text_operator_on_integer", rawQuery: "filter=quantity:contains:1", expectedErr: query.ErrOperatorNotAllowed},
		{name: "ordering_on_boolean", rawQuery: "filter=available:gt:true", expectedErr: query.ErrOperatorNotAllowed},
		{name: "invalid_integer", rawQuery: "filter=quantity:eq:ten", expectedErr: query.ErrCoercingValueFailed},
		{name: "invalid_guid", rawQuery: "filter=id:eq:not-a-guid", expectedErr: query.ErrCoercingValueFailed},
		{name: "invalid_datetime", rawQuery: "filter=createdAt:gt:yesterday", expectedErr: query.ErrCoercingValueFailed},
		{name: "enum_value_not_allowed", rawQuery: "filter=status:eq:Deleted", expectedErr: query.ErrCoercingValueFailed},
		{name: "malformed_query_string", rawQuery: "filter=%zz", expectedErr: query.ErrMalformedQueryString},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := newProductParser(tc.rawQuery).ParseFilterOperators()

			// assert
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.ErrorIs(t, err, query.ErrInvalidQuery)
			assert.True(t, query.IsBadRequest(err))
			assert.False(t, query.IsExecutionFailure(err))
		})
	}
}

func Test_Parser_ParseQuery(t *testing.T) {
	t.Run("no_term_returns_nil", func(t *testing.T) {
		// act
		quickSearch, err := newProductParser("page=1").ParseQuery()

		// assert
		require.NoError(t, err)
		assert.Nil(t, quickSearch)
	})

	t.Run("blank_term_returns_nil", func(t *testing.T) {
		// act
		quickSearch, err := newProductParser("search=%20%20").ParseQuery()

		// assert
		require.NoError(t, err)
		assert.Nil(t, quickSearch)
	})

	for _, key := range []string{"search", "q", "query", "Search"} {
		t.Run("term_from_"+key, func(t *testing.T) {
			// act
			quickSearch, err := newProductParser(key + "=+CFE+").ParseQuery()

			// assert
			require.NoError(t, err)
			require.NotNil(t, quickSearch)
			assert.Equal(t, "CFE", quickSearch.Term())
			assert.Equal(t, []string{"code", "name"}, quickSearch.Fields())
		})
	}

	t.Run("no_searchable_fields", func(t *testing.T) {
		// arrange
		fields := query.MustNewFields(
			query.IntegerField("quantity", func(p records.Product) int64 { return p.Quantity }),
		)

		// act
		_, err := query.NewParser("search=x", fields).ParseQuery()

		// assert
		assert.ErrorIs(t, err, query.ErrNoSearchableFields)
		assert.True(t, query.IsBadRequest(err))
	})
}

func Test_Parser_Parse(t *testing.T) {
	// act
	parsed, err := newProductParser("page=2&pageSize=5&sortBy=name&sortDirection=desc&filter=status:eq:active&q=an").
		Parse("code")

	// assert
	require.NoError(t, err)
	assert.Equal(t, query.PageWindow{Page: 2, PageSize: 5}, parsed.Window)
	assert.Equal(t, query.Sorting{By: "name", Direction: query.Descending}, parsed.Sorting)
	require.Len(t, parsed.Filters, 1)
	assert.Equal(t, records.StatusActive, parsed.Filters[0].Value(), "enum literal is canonicalized")
	require.NotNil(t, parsed.QuickSearch)
	assert.Equal(t, "an", parsed.QuickSearch.Term())
}

func Test_NewPageWindow(t *testing.T) {
	// act
	window, err := query.NewPageWindow(3, 20)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 40, window.Skip())

	_, err = query.NewPageWindow(0, 20)
	assert.ErrorIs(t, err, query.ErrInvalidPageWindow)

	_, err = query.NewPageWindow(1, query.MaxPageSize+1)
	assert.ErrorIs(t, err, query.ErrPageSizeExceedsMaximum)

	_, err = query.NewPageWindow(query.MaxPage+1, 1)
	assert.ErrorIs(t, err, query.ErrInvalidPageWindow)

	window, err = query.NewPageWindow(query.MaxPage, query.MaxPageSize)
	require.NoError(t, err)
	assert.Positive(t, window.Skip())
}

func Test_PageWindow_Skip(t *testing.T) {
	tests := []struct {
		name     string
		window   query.PageWindow
		expected int
	}{
		{name: "first_page", window: query.PageWindow{Page: 1, PageSize: 10}, expected: 0},
		{name: "later_page", window: query.PageWindow{Page: 4, PageSize: 25}, expected: 75},
		{name: "overflow_saturates", window: query.PageWindow{Page: 4611686018427387905, PageSize: 4}, expected: math.MaxInt},
		{name: "largest_int_page_saturates", window: query.PageWindow{Page: math.MaxInt, PageSize: 2}, expected: math.MaxInt},
		{name: "zero_page", window: query.PageWindow{Page: 0, PageSize: 10}, expected: 0},
		{name: "smallest_int_page", window: query.PageWindow{Page: math.MinInt, PageSize: 10}, expected: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			skip := tc.window.Skip()

			// assert
			assert.Equal(t, tc.expected, skip)
		})
	}
}
