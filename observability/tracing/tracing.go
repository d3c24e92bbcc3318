// Package tracing sets up OpenTelemetry tracing with an OTLP gRPC exporter.
package tracing

import (
	"context"
	"net"

	"github.com/code19m/errx"
	"github.com/spf13/cast"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.23.1"
	"go.opentelemetry.io/otel/trace/noop"
)

// InitGlobalTracer installs the global tracer provider and propagator.
// The returned function flushes and shuts the provider down.
func InitGlobalTracer(cfg Config, serviceName, serviceVersion string) (func() error, error) {
	if cfg.Disable {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func() error { return nil }, nil
	}

	exporter, err := otlptrace.New(
		context.Background(),
		otlptracegrpc.NewClient(
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithEndpoint(net.JoinHostPort(cfg.ExporterHost, cast.ToString(cfg.ExporterPort))),
			otlptracegrpc.WithReconnectionPeriod(reconnectionPeriod),
		),
	)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	tp := trace.NewTracerProvider(
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(cfg.SampleRate))),
		trace.WithBatcher(exporter),
		trace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, attributes(cfg, serviceName, serviceVersion)...)),
	)

	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)
	otel.SetTracerProvider(tp)

	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := tp.ForceFlush(ctx); err != nil {
			return errx.Wrap(err)
		}
		return errx.Wrap(tp.Shutdown(ctx))
	}, nil
}

func attributes(cfg Config, serviceName, serviceVersion string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(cfg.Tags)+2)
	for k, v := range cfg.Tags {
		attrs = append(attrs, attribute.String(k, v))
	}
	return append(attrs,
		semconv.ServiceNameKey.String(serviceName),
		semconv.ServiceVersionKey.String(serviceVersion),
	)
}
