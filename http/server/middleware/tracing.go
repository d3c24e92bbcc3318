package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/medalists/http/server"
	"github.com/rise-and-shine/medalists/meta"
	"github.com/rise-and-shine/medalists/observability/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.23.1"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDHeader carries the trace id of a request back to the client.
const TraceIDHeader = "X-Trace-ID"

// NewTracingMW starts a server span per request and stores its trace id in the
// request metadata. The span is renamed after the matched route once the
// request is handled.
func NewTracingMW() server.Middleware {
	return server.Middleware{
		Priority: 900,
		Handler: func(c *fiber.Ctx) error {
			ctx, span := otel.Tracer("http-server").Start(
				c.UserContext(),
				fmt.Sprintf("%s /", c.Method()),
				trace.WithSpanKind(trace.SpanKindServer),
			)
			defer span.End()

			traceID := tracing.GetStartingTraceID(ctx)
			c.Set(TraceIDHeader, traceID)
			c.SetUserContext(meta.InjectMetaToContext(ctx, map[meta.ContextKey]string{
				meta.TraceID: traceID,
			}))

			err := c.Next()

			route := c.Route().Path
			if route != "" && route != "/" {
				span.SetName(fmt.Sprintf("%s %s", c.Method(), route))
			}

			span.SetAttributes(
				semconv.HTTPMethodKey.String(c.Method()),
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPURLKey.String(c.OriginalURL()),
				semconv.HTTPStatusCodeKey.Int(c.Response().StatusCode()),
			)

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}

			return err
		},
	}
}
