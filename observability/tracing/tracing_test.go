package tracing_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/rise-and-shine/medalists/observability/tracing"
)

func TestGetStartingTraceID(t *testing.T) {
	t.Run("without span", func(t *testing.T) {
		id := tracing.GetStartingTraceID(context.Background())
		require.True(t, strings.HasPrefix(id, "man-"), id)
		_, err := uuid.Parse(strings.TrimPrefix(id, "man-"))
		require.NoError(t, err)
	})

	t.Run("with span", func(t *testing.T) {
		traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		require.NoError(t, err)
		spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
		require.NoError(t, err)

		sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)

		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", tracing.GetStartingTraceID(ctx))
	})
}

func TestInitGlobalTracerDisabled(t *testing.T) {
	shutdown, err := tracing.InitGlobalTracer(tracing.Config{Disable: true}, "medalists", "test")
	require.NoError(t, err)
	require.NoError(t, shutdown())
}
