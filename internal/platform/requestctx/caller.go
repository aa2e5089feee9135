// Package requestctx carries request-scoped identity through contexts.
package requestctx

import "context"

// callerContextKey is the context key for the authenticated calling service.
type callerContextKey struct{}

// WithCaller stores the authenticated calling service name in context.
func WithCaller(ctx context.Context, service string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, callerContextKey{}, service)
}

// CallerFromContext returns the calling service stored in context.
func CallerFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(callerContextKey{}).(string)
	return value
}
