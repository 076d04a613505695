package shelf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with shelf-specific fields.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, a text handler to stderr at info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards everything.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithComponent tags records with the emitting component, e.g. "hash-dictionary".
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{Logger: l.Logger.With("component", name)}
}

// WithStorage tags records with the backend's dynamic type.
func (l *Logger) WithStorage(s any) *Logger {
	return &Logger{Logger: l.Logger.With("storage", typeName(s))}
}

// LogLoad logs rebuilding an index over count pre-populated values.
func (l *Logger) LogLoad(ctx context.Context, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"count", count,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "load completed", "count", count)
}

// LogDesync logs a reverse index entry whose arena slot is gone or holds a
// different value. Callers panic right after.
func (l *Logger) LogDesync(ctx context.Context, op string, index int) {
	l.ErrorContext(ctx, "reverse index out of sync with arena",
		"op", op,
		"index", index,
	)
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
