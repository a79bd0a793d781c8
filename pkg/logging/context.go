package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey int

const (
	loggerKey contextKey = iota
	requestIDKey
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}

	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}

	return Default()
}

// WithRequestID adds a request ID to the context and to its logger.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return WithField(ctx, "request_id", requestID)
}

// RequestID extracts the request ID from context.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithField tags the context logger with key. Errors are logged through
// Err when key is "error".
func WithField(ctx context.Context, key string, value any) context.Context {
	c := FromContext(ctx).With()
	switch v := value.(type) {
	case string:
		c = c.Str(key, v)
	case int:
		c = c.Int(key, v)
	case bool:
		c = c.Bool(key, v)
	case error:
		if key == "error" {
			c = c.Err(v)
		} else {
			c = c.Str(key, v.Error())
		}
	default:
		c = c.Interface(key, v)
	}
	l := c.Logger()
	return WithLogger(ctx, &l)
}

// WithDataset tags the context logger with a dataset location.
func WithDataset(ctx context.Context, location string) context.Context {
	return WithField(ctx, "dataset", location)
}

// WithOperation adds operation context to the logger.
func WithOperation(ctx context.Context, operation string) context.Context {
	return WithField(ctx, "operation", operation)
}
