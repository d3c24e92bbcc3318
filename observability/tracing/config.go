package tracing

import "time"

const (
	reconnectionPeriod = 30 * time.Second
	shutdownTimeout    = 5 * time.Second
)

// Config holds the configuration for the tracing system.
type Config struct {
	// Disable installs a no-op tracer provider. Spans are neither collected nor exported.
	Disable bool `yaml:"disable" default:"false"`

	// SampleRate is the fraction of root traces that are sampled, between 0 and 1.
	SampleRate float64 `yaml:"sample_rate" validate:"gte=0,lte=1" default:"1"`

	// ExporterHost is the host of the OTLP gRPC collector.
	ExporterHost string `yaml:"exporter_host" validate:"required_unless=Disable true"`

	// ExporterPort is the port of the OTLP gRPC collector.
	ExporterPort int `yaml:"exporter_port" validate:"required_unless=Disable true"`

	// Tags are added as resource attributes to all spans.
	Tags map[string]string `yaml:"tags"`
}
