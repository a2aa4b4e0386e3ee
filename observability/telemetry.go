// Package observability provides OpenTelemetry integration and an audit
// trail for resource lifetimes.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry provides observability features.
type Telemetry interface {
	// StartSpan starts a new trace span.
	StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, func())

	// RecordFinalization records one deleter invocation and its duration
	// in seconds.
	RecordFinalization(kind string, seconds float64, failed bool)

	// RecordRelease records an ownership release without finalization.
	RecordRelease(kind string)

	// RecordLeak records a resource collected while still armed.
	RecordLeak(kind string)

	// RecordPanic records a deleter panic.
	RecordPanic(kind string)

	// AddLive adjusts the live-resource gauge.
	AddLive(delta int64)
}

// SpanOption configures span creation.
type SpanOption func(*spanConfig)

type spanConfig struct {
	attributes []attribute.KeyValue
	kind       trace.SpanKind
}

// WithAttribute adds an attribute to the span.
func WithAttribute(key string, value interface{}) SpanOption {
	return func(c *spanConfig) {
		switch v := value.(type) {
		case string:
			c.attributes = append(c.attributes, attribute.String(key, v))
		case int:
			c.attributes = append(c.attributes, attribute.Int(key, v))
		case int64:
			c.attributes = append(c.attributes, attribute.Int64(key, v))
		case float64:
			c.attributes = append(c.attributes, attribute.Float64(key, v))
		case bool:
			c.attributes = append(c.attributes, attribute.Bool(key, v))
		}
	}
}

// WithSpanKind sets the span kind.
func WithSpanKind(kind trace.SpanKind) SpanOption {
	return func(c *spanConfig) {
		c.kind = kind
	}
}

// TelemetryConfig configures telemetry.
type TelemetryConfig struct {
	// ServiceName is the service name for tracing.
	ServiceName string `yaml:"service_name"`

	// ServiceVersion is the service version.
	ServiceVersion string `yaml:"service_version"`

	// Environment is the deployment environment.
	Environment string `yaml:"environment"`

	// EnableTracing enables distributed tracing.
	EnableTracing bool `yaml:"enable_tracing"`

	// EnableMetrics enables metrics collection.
	EnableMetrics bool `yaml:"enable_metrics"`

	// MetricsPrefix is the prefix for all metrics.
	MetricsPrefix string `yaml:"metrics_prefix"`
}

// DefaultTelemetryConfig returns default configuration.
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		ServiceName:    "goscope",
		ServiceVersion: "1.0.0",
		Environment:    "development",
		EnableTracing:  true,
		EnableMetrics:  true,
		MetricsPrefix:  "goscope_",
	}
}

// telemetry implements Telemetry.
type telemetry struct {
	config TelemetryConfig
	tracer trace.Tracer
	meter  metric.Meter

	// Metrics
	finalizationCounter  metric.Int64Counter
	finalizationDuration metric.Float64Histogram
	releaseCounter       metric.Int64Counter
	leakCounter          metric.Int64Counter
	panicCounter         metric.Int64Counter
	liveResources        metric.Int64UpDownCounter
}

// NewTelemetry creates a new telemetry instance.
func NewTelemetry(config TelemetryConfig) (Telemetry, error) {
	t := &telemetry{
		config: config,
		tracer: otel.Tracer(config.ServiceName),
		meter:  otel.Meter(config.ServiceName),
	}

	// Initialize metrics
	var err error

	t.finalizationCounter, err = t.meter.Int64Counter(
		config.MetricsPrefix+"finalizations_total",
		metric.WithDescription("Total number of deleter invocations"),
	)
	if err != nil {
		return nil, err
	}

	t.finalizationDuration, err = t.meter.Float64Histogram(
		config.MetricsPrefix+"finalize_duration_seconds",
		metric.WithDescription("Duration of deleter invocations"),
	)
	if err != nil {
		return nil, err
	}

	t.releaseCounter, err = t.meter.Int64Counter(
		config.MetricsPrefix+"releases_total",
		metric.WithDescription("Total number of ownership releases without finalization"),
	)
	if err != nil {
		return nil, err
	}

	t.leakCounter, err = t.meter.Int64Counter(
		config.MetricsPrefix+"leaks_total",
		metric.WithDescription("Total number of resources collected while still armed"),
	)
	if err != nil {
		return nil, err
	}

	t.panicCounter, err = t.meter.Int64Counter(
		config.MetricsPrefix+"panics_total",
		metric.WithDescription("Total number of deleter panics"),
	)
	if err != nil {
		return nil, err
	}

	t.liveResources, err = t.meter.Int64UpDownCounter(
		config.MetricsPrefix+"live_resources",
		metric.WithDescription("Number of currently tracked armed resources"),
	)
	if err != nil {
		return nil, err
	}

	return t, nil
}

// StartSpan implements Telemetry.StartSpan.
func (t *telemetry) StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, func()) {
	if !t.config.EnableTracing {
		return ctx, func() {}
	}

	cfg := &spanConfig{
		kind: trace.SpanKindInternal,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ctx, span := t.tracer.Start(ctx, name,
		trace.WithAttributes(cfg.attributes...),
		trace.WithSpanKind(cfg.kind),
	)

	return ctx, func() {
		span.End()
	}
}

// RecordFinalization implements Telemetry.RecordFinalization.
func (t *telemetry) RecordFinalization(kind string, seconds float64, failed bool) {
	if !t.config.EnableMetrics {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("failed", failed),
	)
	t.finalizationCounter.Add(context.Background(), 1, attrs)
	t.finalizationDuration.Record(context.Background(), seconds, attrs)
}

// RecordRelease implements Telemetry.RecordRelease.
func (t *telemetry) RecordRelease(kind string) {
	if !t.config.EnableMetrics {
		return
	}

	t.releaseCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordLeak implements Telemetry.RecordLeak.
func (t *telemetry) RecordLeak(kind string) {
	if !t.config.EnableMetrics {
		return
	}

	t.leakCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordPanic implements Telemetry.RecordPanic.
func (t *telemetry) RecordPanic(kind string) {
	if !t.config.EnableMetrics {
		return
	}

	t.panicCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("kind", kind)))
}

// AddLive implements Telemetry.AddLive.
func (t *telemetry) AddLive(delta int64) {
	if !t.config.EnableMetrics {
		return
	}

	t.liveResources.Add(context.Background(), delta)
}

// NopTelemetry returns a Telemetry that records nothing. Used when tracing
// and metrics are disabled wholesale.
func NopTelemetry() Telemetry {
	return nopTelemetry{}
}

type nopTelemetry struct{}

func (nopTelemetry) StartSpan(ctx context.Context, _ string, _ ...SpanOption) (context.Context, func()) {
	return ctx, func() {}
}
func (nopTelemetry) RecordFinalization(string, float64, bool) {}
func (nopTelemetry) RecordRelease(string)                     {}
func (nopTelemetry) RecordLeak(string)                        {}
func (nopTelemetry) RecordPanic(string)                       {}
func (nopTelemetry) AddLive(int64)                            {}
