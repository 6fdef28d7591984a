package observability

import (
	"context"

	"github.com/google/uuid"
)

// Attribute keys shared by logs and metrics.
const (
	CorrelationIDKey = "correlation_id"
	RequestIDKey     = "request_id"
	OperationKey     = "operation"
	DurationKey      = "duration_ms"
	StatusKey        = "status"
)

type idKey int

const (
	correlationID idKey = iota
	requestID
)

func withID(ctx context.Context, key idKey, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, key, id)
}

func idFrom(ctx context.Context, key idKey) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(key).(string)
	return id
}

// WithCorrelationID tags ctx with id, generating one when empty. Events
// raised under ctx inherit it.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return withID(ctx, correlationID, id)
}

func CorrelationIDFromContext(ctx context.Context) string {
	return idFrom(ctx, correlationID)
}

// WithRequestID tags ctx with an HTTP request id, generating one when empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withID(ctx, requestID, id)
}

func RequestIDFromContext(ctx context.Context) string {
	return idFrom(ctx, requestID)
}
