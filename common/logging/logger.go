// Package logging configures structured logging for the relay binaries.
// Everything funnels through log/slog: this package picks the handler,
// knows how to pull a request id out of a context, and carries the
// attribute vocabulary (fields.go) the relay logs with.
package logging

import (
	"context"
	"log/slog"
	"os"

	"github.com/lotwire-systems/lotwire-relay/common/middleware"
)

// Accepted values for the logging.format config key.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Logger embeds slog.Logger so callers keep the full slog surface while
// this package owns construction and context handling.
type Logger struct {
	*slog.Logger
}

// New builds a Logger writing to stdout. Anything but FormatText gets
// the JSON handler. Source locations are recorded only at error-only
// verbosity.
func New(level slog.Level, format string) *Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level >= slog.LevelError,
	}

	var handler slog.Handler
	if format == FormatText {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// With returns a Logger carrying the additional attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// WithContext returns the underlying slog.Logger, annotated with the
// request id when the context carries one.
func (l *Logger) WithContext(ctx context.Context) *slog.Logger {
	if id := middleware.GetRequestID(ctx); id != "" {
		return l.Logger.With(slog.String("request_id", id))
	}
	return l.Logger
}

// ParseLevel maps a logging.level config string to a slog.Level.
// Unknown strings mean info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetDefault installs l process-wide: slog.Default and the log package
// both route through it afterwards.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
