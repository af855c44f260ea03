// Package trace records builder interactions as OpenTelemetry spans.
//
// Spans are exported over OTLP/HTTP when OTEL_EXPORTER_OTLP_ENDPOINT is set;
// otherwise a no-op tracer is used and recording costs nothing.
package trace

import (
	"context"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "makebuilder/builder"

// Span names recorded by the builder.
const (
	SpanAddSection    = "builder.add_section"
	SpanAddOne        = "builder.add_one"
	SpanMenuToggle    = "builder.menu_toggle"
	SpanRemoveSection = "builder.remove_section"
	SpanExport        = "builder.export"
)

// Tracer starts spans for builder operations.
type Tracer struct {
	provider *sdktrace.TracerProvider // nil unless this Tracer owns an SDK provider
	tracer   oteltrace.Tracer
}

// Setup creates an OTLP-backed tracer if OTEL_EXPORTER_OTLP_ENDPOINT is set,
// or a no-op tracer otherwise.
func Setup(ctx context.Context) (*Tracer, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return Nop(), nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(), // For local dev; make configurable
	)
	if err != nil {
		return nil, err
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "makebuilder"
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return &Tracer{
		provider: provider,
		tracer:   provider.Tracer(instrumentationName),
	}, nil
}

// New wraps an existing provider (tests use an in-memory recorder).
func New(tp oteltrace.TracerProvider) *Tracer {
	return &Tracer{tracer: tp.Tracer(instrumentationName)}
}

// Nop returns a tracer that records nothing.
func Nop() *Tracer {
	return New(noop.NewTracerProvider())
}

// Start begins a span. Attribute keys are namespaced under "makebuilder.".
func (t *Tracer) Start(ctx context.Context, name string, attrs map[string]string) (context.Context, oteltrace.Span) {
	if t == nil {
		return Nop().Start(ctx, name, attrs)
	}
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		kvs = append(kvs, attribute.String("makebuilder."+k, v))
	}
	return t.tracer.Start(ctx, name, oteltrace.WithAttributes(kvs...))
}

// Shutdown flushes and closes the exporter, if any.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
