// Package logging adds trace correlation to the standard process logger.
package logging

import (
	"context"
	"fmt"
	"log"

	"go.opentelemetry.io/otel/trace"
)

// Printf logs through the standard logger and prefixes the active trace id
// when ctx carries a valid span.
func Printf(ctx context.Context, format string, args ...any) {
	log.Print(Format(ctx, format, args...))
}

// Format renders a log line the way Printf would emit it.
func Format(ctx context.Context, format string, args ...any) string {
	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			format = "trace_id=%s " + format
			args = append([]any{sc.TraceID().String()}, args...)
		}
	}
	return fmt.Sprintf(format, args...)
}
