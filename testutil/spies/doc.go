// Package spies provides test doubles for the observability interfaces:
// a slog.Handler capturing log records, a metrics collector spy and a tracing collector spy.
package spies
