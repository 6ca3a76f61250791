package ctxutil

import "context"

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	operatorKey  ctxKey = "operator"
)

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithOperator marks the context as carrying an authenticated operator and
// records the operator's subject identifier.
func WithOperator(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, operatorKey, subject)
}

// OperatorFromCtx extracts the operator subject from the context.
// Returns "" and false if no operator capability is present.
func OperatorFromCtx(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(operatorKey).(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
