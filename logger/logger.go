// Package logger builds the JSON slog logger every binary uses and carries
// the request id through contexts.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type ctxKey int

const requestIDKey ctxKey = 1

// WithRequestID stores the id later attached to every record logged with ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// New constructs a JSON slog Logger writing to stdout.
func New(service, level string) *slog.Logger {
	return NewWithWriter(os.Stdout, service, level)
}

func NewWithWriter(w io.Writer, service, level string) *slog.Logger {
	opts := slog.HandlerOptions{
		AddSource: ParseLevel(level) == slog.LevelDebug,
		Level:     ParseLevel(level),
	}
	jh := slog.NewJSONHandler(w, &opts)
	return slog.New(withRequestID{Handler: jh}).With("service", service)
}

// ParseLevel maps debug, info, warn and error; anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

type withRequestID struct {
	slog.Handler
}

func (h withRequestID) Handle(ctx context.Context, r slog.Record) error {
	if id := RequestID(ctx); id != "" {
		r.Add("request_id", id)
	}
	return h.Handler.Handle(ctx, r)
}

func (h withRequestID) WithAttrs(attrs []slog.Attr) slog.Handler {
	return withRequestID{Handler: h.Handler.WithAttrs(attrs)}
}

func (h withRequestID) WithGroup(name string) slog.Handler {
	return withRequestID{Handler: h.Handler.WithGroup(name)}
}
