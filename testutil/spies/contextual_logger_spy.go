package spies

import (
	"context"
	"slices"
	"sync"

	"github.com/AntonStoeckl/dynamic-query-go/observability"
)

// ContextualLogRecord is one captured call of a ContextualLoggerSpy.
type ContextualLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// ContextualLoggerSpy captures context-aware log calls, so tests can check that the caller's
// context (and with it e.g. the active span) reaches the logger.
type ContextualLoggerSpy struct {
	mu      sync.Mutex
	records []ContextualLogRecord
}

func NewContextualLoggerSpy() *ContextualLoggerSpy {
	return &ContextualLoggerSpy{}
}

func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "debug", msg, args)
}

func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "info", msg, args)
}

func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "warn", msg, args)
}

func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "error", msg, args)
}

func (s *ContextualLoggerSpy) record(ctx context.Context, level, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, ContextualLogRecord{Level: level, Message: msg, Args: args, Context: ctx})
}

// Records returns a copy of all captured calls.
func (s *ContextualLoggerSpy) Records() []ContextualLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.records)
}

// RecordsWithMessage returns all captured calls at the level with exactly this message.
func (s *ContextualLoggerSpy) RecordsWithMessage(level, message string) []ContextualLogRecord {
	var found []ContextualLogRecord

	for _, record := range s.Records() {
		if record.Level == level && record.Message == message {
			found = append(found, record)
		}
	}

	return found
}

var _ observability.ContextualLogger = (*ContextualLoggerSpy)(nil)
