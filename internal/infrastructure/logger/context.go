package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey int

const (
	loggerKey contextKey = iota
	requestIDKey
	actorIDKey
)

// WithContext attaches l to ctx.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger attached to ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// ContextWithRequestID records the request id on ctx so lower layers,
// the SQL tracer included, can correlate their entries.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ContextWithActorID records the acting user id on ctx.
func ContextWithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorIDKey, actorID)
}

// WithRequestID stores the request id on ctx and returns a logger
// enriched with the matching field.
func WithRequestID(ctx context.Context, l *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	enriched := l.With(zap.String("request_id", requestID))
	return WithContext(ContextWithRequestID(ctx, requestID), enriched), enriched
}

// WithActorID stores the acting user id on ctx and returns a logger
// enriched with the matching field.
func WithActorID(ctx context.Context, l *zap.Logger, actorID string) (context.Context, *zap.Logger) {
	enriched := l.With(zap.String("actor_id", actorID))
	return WithContext(ContextWithActorID(ctx, actorID), enriched), enriched
}

// GetRequestID returns the request id stored on ctx, if any.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetActorID returns the acting user id stored on ctx, if any.
func GetActorID(ctx context.Context) string {
	if id, ok := ctx.Value(actorIDKey).(string); ok {
		return id
	}
	return ""
}
