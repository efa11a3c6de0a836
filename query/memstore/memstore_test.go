package memstore_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/dynamic-query-go/query"
	"github.com/AntonStoeckl/dynamic-query-go/query/memstore"
	"github.com/AntonStoeckl/dynamic-query-go/testutil/records"
)

func selection(t *testing.T, sorting query.Sorting, filters ...query.FilterOperator) query.Selection[records.Product] {
	t.Helper()

	s, err := query.NewSelection(records.ProductFields(), filters, nil, sorting)
	require.NoError(t, err)

	return s
}

func Test_Store_Find_SortsAndPages(t *testing.T) {
	// setup
	store := memstore.New(records.Products()...)

	// act
	items, err := store.Find(
		context.Background(),
		selection(t, query.Sorting{By: "quantity", Direction: query.Descending}),
		query.PageWindow{Page: 1, PageSize: 3},
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"Nectarine", "Mango", "Lemon"}, records.Names(items))
}

func Test_Store_Find_TiesKeepInsertionOrder(t *testing.T) {
	// setup
	products := records.Products()
	store := memstore.New(products[4], products[1], products[3], products[0])

	// act
	items, err := store.Find(
		context.Background(),
		selection(t, query.Sorting{By: "status"}),
		query.DefaultPageWindow(),
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"Elderberry", "Banana", "Date", "Apple"}, records.Names(items))
}

func Test_Store_Count_AppliesPredicate(t *testing.T) {
	// setup
	store := memstore.New(records.Products()...)

	// act
	count, err := store.Count(
		context.Background(),
		selection(t, query.Sorting{By: "name"}, query.NewFilterOperator("available", query.Equals, true)),
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func Test_Store_CountAndFind(t *testing.T) {
	// setup
	store := memstore.New(records.Products()...)

	// act
	count, items, err := store.CountAndFind(
		context.Background(),
		selection(t, query.Sorting{By: "name"}, query.NewFilterOperator("status", query.Equals, records.StatusInactive)),
		query.PageWindow{Page: 2, PageSize: 3},
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.Equal(t, []string{"Nectarine"}, records.Names(items))
}

func Test_Store_Find_WindowOutOfRange(t *testing.T) {
	// setup
	store := memstore.New(records.Products()...)

	// act
	items, err := store.Find(context.Background(), selection(t, query.Sorting{By: "name"}), query.PageWindow{Page: 5, PageSize: 10})

	// assert
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func Test_Store_Find_HugePageIsEmpty(t *testing.T) {
	// setup
	store := memstore.New(records.Products()...)

	for _, window := range []query.PageWindow{
		{Page: 4611686018427387905, PageSize: 4},
		{Page: query.MaxPage, PageSize: query.MaxPageSize},
	} {
		// act
		items, err := store.Find(context.Background(), selection(t, query.Sorting{By: "name"}), window)

		// assert
		require.NoError(t, err)
		assert.Empty(t, items, "page %d", window.Page)
	}
}

func Test_Store_AddAndRemove(t *testing.T) {
	// setup
	ctx := context.Background()
	products := records.Products()
	store := memstore.New[records.Product]()

	// act
	require.NoError(t, store.Add(ctx, products...))
	removed, err := store.Remove(ctx, func(p records.Product) bool { return p.Status == records.StatusInactive })

	// assert
	require.NoError(t, err)
	assert.Equal(t, 4, removed)
	assert.Equal(t, 8, store.Len())
	assert.Equal(t, "Apple", store.All()[0].Name)
}

func Test_Store_CanceledContext(t *testing.T) {
	// setup
	store := memstore.New(records.Products()...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	_, countErr := store.Count(ctx, selection(t, query.Sorting{By: "name"}))
	_, findErr := store.Find(ctx, selection(t, query.Sorting{By: "name"}), query.DefaultPageWindow())
	addErr := store.Add(ctx, records.Product{})

	// assert
	assert.ErrorIs(t, countErr, context.Canceled)
	assert.ErrorIs(t, findErr, context.Canceled)
	assert.ErrorIs(t, addErr, context.Canceled)
}

func Test_Store_ConcurrentUse(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memstore.New[records.Product]()
	all := selection(t, query.Sorting{By: "name"})

	// act
	var wg sync.WaitGroup
	for _, p := range records.Products() {
		wg.Add(2)

		go func() {
			defer wg.Done()
			assert.NoError(t, store.Add(ctx, p))
		}()

		go func() {
			defer wg.Done()
			_, _, err := store.CountAndFind(ctx, all, query.DefaultPageWindow())
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	// assert
	count, err := store.Count(ctx, all)
	require.NoError(t, err)
	assert.Equal(t, 12, count)
}
