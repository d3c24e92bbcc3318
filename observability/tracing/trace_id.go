package tracing

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// GetStartingTraceID returns the trace ID of the span in ctx. Without a valid
// span, for example when tracing is disabled, a random "man-" prefixed UUID is
// returned so logs of one request can still be correlated.
func GetStartingTraceID(ctx context.Context) string {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID()
	if traceID.IsValid() {
		return traceID.String()
	}

	return "man-" + uuid.NewString()
}
