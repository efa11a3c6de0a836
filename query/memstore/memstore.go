// Package memstore provides an in-memory record store implementing query.Reader,
// query.Writer and query.ConsistentReader.
//
// Records keep their insertion order, which also breaks ties when sorting.
package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/AntonStoeckl/dynamic-query-go/query"
)

type Store[T any] struct {
	mu      sync.RWMutex
	records []T
}

// New creates a Store holding a copy of records.
func New[T any](records ...T) *Store[T] {
	return &Store[T]{records: slices.Clone(records)}
}

func (s *Store[T]) Add(ctx context.Context, records ...T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, records...)

	return nil
}

func (s *Store[T]) Remove(ctx context.Context, predicate query.Predicate[T]) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.records)
	s.records = slices.DeleteFunc(s.records, predicate.Matches)

	return before - len(s.records), nil
}

func (s *Store[T]) Count(ctx context.Context, selection query.Selection[T]) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.matching(selection)), nil
}

func (s *Store[T]) Find(ctx context.Context, selection query.Selection[T], window query.PageWindow) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return page(s.sorted(s.matching(selection), selection), window), nil
}

// CountAndFind reads the count and the page under one lock.
func (s *Store[T]) CountAndFind(
	ctx context.Context,
	selection query.Selection[T],
	window query.PageWindow,
) (int, []T, error) {

	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matching := s.matching(selection)

	return len(matching), page(s.sorted(matching, selection), window), nil
}

// All returns a copy of all records in insertion order.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.records)
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

func (s *Store[T]) matching(selection query.Selection[T]) []T {
	predicate := selection.Predicate()
	matching := make([]T, 0, len(s.records))

	for _, record := range s.records {
		if predicate(record) {
			matching = append(matching, record)
		}
	}

	return matching
}

func (s *Store[T]) sorted(records []T, selection query.Selection[T]) []T {
	criteria := selection.Sorting()
	if criteria.Field().Name() == "" {
		return records
	}

	slices.SortStableFunc(records, criteria.Compare)

	return records
}

func page[T any](records []T, window query.PageWindow) []T {
	skip := window.Skip()
	if skip < 0 || skip >= len(records) || window.PageSize < 1 {
		return []T{}
	}

	end := min(skip+window.PageSize, len(records))

	return slices.Clone(records[skip:end])
}
