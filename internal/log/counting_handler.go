package log

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

// CountingHandler wraps an slog.Handler and counts how many warning and
// error records pass through it. The counts feed the end-of-run report.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Components that accept *slog.Logger need no changes to be counted
type CountingHandler struct {
	// handler is the underlying slog handler that receives every record.
	handler slog.Handler

	// warnings and errors are shared by every derived handler so that
	// WithAttrs/WithGroup children feed the same tallies.
	warnings *atomic.Int64
	errors   *atomic.Int64
}

// NewCountingHandler creates a new CountingHandler wrapping the given
// handler. If handler is nil, the returned CountingHandler will use
// slog.Default().Handler().
func NewCountingHandler(handler slog.Handler) *CountingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &CountingHandler{
		handler:  handler,
		warnings: &atomic.Int64{},
		errors:   &atomic.Int64{},
	}
}

// Warnings returns how many records at LevelWarn have been handled.
func (h *CountingHandler) Warnings() int64 {
	return h.warnings.Load()
}

// Errors returns how many records at LevelError or above have been
// handled.
func (h *CountingHandler) Errors() int64 {
	return h.errors.Load()
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler, except that warnings and errors
// are always handled so the tallies stay accurate even when the output
// level would suppress them.
func (h *CountingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= slog.LevelWarn {
		return true
	}
	return h.handler.Enabled(ctx, level)
}

// Handle counts the record and passes it to the underlying handler.
// Records the underlying handler would not emit are still counted.
func (h *CountingHandler) Handle(ctx context.Context, r slog.Record) error {
	switch {
	case r.Level >= slog.LevelError:
		h.errors.Add(1)
	case r.Level >= slog.LevelWarn:
		h.warnings.Add(1)
	}

	if !h.handler.Enabled(ctx, r.Level) {
		return nil
	}
	return h.handler.Handle(ctx, r)
}

// WithAttrs returns a new handler with the given attributes added.
// The derived handler shares the parent's counters.
func (h *CountingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &CountingHandler{
		handler:  h.handler.WithAttrs(attrs),
		warnings: h.warnings,
		errors:   h.errors,
	}
}

// WithGroup returns a new handler with the given group name.
// The derived handler shares the parent's counters.
func (h *CountingHandler) WithGroup(name string) slog.Handler {
	return &CountingHandler{
		handler:  h.handler.WithGroup(name),
		warnings: h.warnings,
		errors:   h.errors,
	}
}

// NewLogger creates a new slog.Logger that counts warnings and errors.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Info
//
// Returns the logger plus the CountingHandler carrying the tallies.
// The logger can be used with slog.SetDefault() or passed to components
// that accept *slog.Logger.
func NewLogger(w io.Writer, verbose bool) (*slog.Logger, *CountingHandler) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	countingHandler := NewCountingHandler(textHandler)

	return slog.New(countingHandler), countingHandler
}

// NewJSONLogger creates a new counting slog.Logger that outputs JSON
// format. Useful for structured log aggregation.
//
// Parameters:
//   - w: The io.Writer to write log output to
//   - verbose: If true, sets log level to Debug; otherwise Info
//
// Returns the logger plus the CountingHandler carrying the tallies.
func NewJSONLogger(w io.Writer, verbose bool) (*slog.Logger, *CountingHandler) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	countingHandler := NewCountingHandler(jsonHandler)

	return slog.New(countingHandler), countingHandler
}
