package logging

import (
	"context"
	"log/slog"
)

// multiHandler hands each record to every member that accepts its level.
// The CLI uses it to send console output and the JSON log file the same
// records.
type multiHandler []slog.Handler

// TeeHandler combines handlers, skipping nils. With nothing left it returns
// NoopHandler; a single handler is returned unwrapped.
func TeeHandler(handlers ...slog.Handler) slog.Handler {
	var m multiHandler
	for _, h := range handlers {
		if h != nil {
			m = append(m, h)
		}
	}
	switch len(m) {
	case 0:
		return NoopHandler{}
	case 1:
		return m[0]
	}
	return m
}

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle returns the first member error but still offers the record to
// every member. Members after the first get a clone so attrs added
// downstream do not leak across.
func (m multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for i, h := range m {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		rec := record
		if i > 0 {
			rec = record.Clone()
		}
		if err := h.Handle(ctx, rec); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	return m.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (m multiHandler) each(fn func(slog.Handler) slog.Handler) multiHandler {
	next := make(multiHandler, len(m))
	for i, h := range m {
		next[i] = fn(h)
	}
	return next
}
