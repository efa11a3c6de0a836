package query

import (
	jsoniter "github.com/json-iterator/go"
)

// GetManyAndCountResult is the immutable envelope of one paged query.
type GetManyAndCountResult[T any] struct {
	items    []T
	count    int
	page     int
	pageSize int
	sorting  Sorting
}

func NewGetManyAndCountResult[T any](items []T, count int, window PageWindow, sorting Sorting) GetManyAndCountResult[T] {
	return GetManyAndCountResult[T]{
		items:    append(make([]T, 0, len(items)), items...),
		count:    count,
		page:     window.Page,
		pageSize: window.PageSize,
		sorting:  sorting,
	}
}

// Items returns a copy of the page items in sorting order.
func (r GetManyAndCountResult[T]) Items() []T {
	return append(make([]T, 0, len(r.items)), r.items...)
}

// Count is the number of all matching items, before paging.
func (r GetManyAndCountResult[T]) Count() int {
	return r.count
}

func (r GetManyAndCountResult[T]) Page() int {
	return r.page
}

func (r GetManyAndCountResult[T]) PageSize() int {
	return r.pageSize
}

func (r GetManyAndCountResult[T]) Sorting() Sorting {
	return r.sorting
}

type sortingJSON struct {
	By        string `json:"by"`
	Direction string `json:"direction"`
}

type resultJSON[T any] struct {
	Items    []T         `json:"items"`
	Count    int         `json:"count"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
	Sorting  sortingJSON `json:"sorting"`
}

// MarshalJSON renders the envelope for an API response body.
func (r GetManyAndCountResult[T]) MarshalJSON() ([]byte, error) {
	items := r.items
	if items == nil {
		items = []T{}
	}

	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(resultJSON[T]{
		Items:    items,
		Count:    r.count,
		Page:     r.page,
		PageSize: r.pageSize,
		Sorting:  sortingJSON{By: r.sorting.By, Direction: r.sorting.Direction.String()},
	})
}
