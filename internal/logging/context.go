package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey int

const (
	loggerKey contextKey = iota
	requestIDKey
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the context logger, or Nop if none was attached.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(zerolog.Logger); ok {
			return &logger
		}
	}
	nop := Nop
	return &nop
}

// HasLogger reports whether WithLogger was applied to ctx.
func HasLogger(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	_, ok := ctx.Value(loggerKey).(zerolog.Logger)
	return ok
}

// WithRequestID tags the context logger with a fresh request id.
func WithRequestID(ctx context.Context) context.Context {
	id := uuid.NewString()
	ctx = context.WithValue(ctx, requestIDKey, id)
	logger := FromContext(ctx).With().Str("request_id", id).Logger()
	return WithLogger(ctx, logger)
}

// RequestID returns the request id attached by WithRequestID.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
