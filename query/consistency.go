package query

import "context"

// ReadConsistency defines whether the count and the page of a paged query are read together.
type ReadConsistency int

const (
	// IndependentReads runs the count and the page query as two separate reads.
	// Concurrent writers between both reads may make the count differ from the page's total.
	// This is the default.
	IndependentReads ReadConsistency = iota

	// ConsistentReads runs both reads in one read-only, repeatable-read transaction
	// when the Reader implements ConsistentReader.
	ConsistentReads
)

// contextKey is a private type to prevent context key collisions.
type contextKey string

// ReadConsistencyKey is the context key used to store the read consistency preference.
const ReadConsistencyKey contextKey = "query.read_consistency"

// WithConsistentReads returns a context that signals GetManyAndCount
// to read the count and the page from the same snapshot.
//
// Example usage:
//
//	ctx = query.WithConsistentReads(ctx)
//	result, err := repository.GetManyAndCount(ctx, rawQuery, "Name")
func WithConsistentReads(ctx context.Context) context.Context {
	return context.WithValue(ctx, ReadConsistencyKey, ConsistentReads)
}

// WithIndependentReads returns a context that signals GetManyAndCount to use two independent reads.
func WithIndependentReads(ctx context.Context) context.Context {
	return context.WithValue(ctx, ReadConsistencyKey, IndependentReads)
}

// GetReadConsistency extracts the read consistency from the context, IndependentReads if none is set.
func GetReadConsistency(ctx context.Context) ReadConsistency {
	if level, ok := ctx.Value(ReadConsistencyKey).(ReadConsistency); ok {
		return level
	}

	return IndependentReads
}

// String provides a string representation of ReadConsistency for logging and debugging.
func (c ReadConsistency) String() string {
	switch c {
	case IndependentReads:
		return "independent"
	case ConsistentReads:
		return "consistent"
	default:
		return "unknown"
	}
}
