package logtrace

import (
	"context"

	"github.com/rs/zerolog"
)

type requestIDKey struct{}

// RequestIDHeader carries the request id on the wire.
const RequestIDHeader = "X-Request-Id"

// WithRequestID returns a copy of ctx carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext extracts the request ID from the context.
// Returns an empty string if the context is nil or if no request ID is found.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	r, _ := ctx.Value(requestIDKey{}).(string)
	return r
}

// Ctx returns logger with the request id of ctx attached, if there is one.
func Ctx(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return logger.With().Str("request_id", id).Logger()
	}
	return logger
}
