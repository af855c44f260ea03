package trace

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracer_RecordsNamespacedAttributes(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tr := New(tp)

	_, span := tr.Start(context.Background(), SpanAddSection, map[string]string{"section.type": "banner"})
	span.End()

	ended := sr.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Name() != SpanAddSection {
		t.Errorf("span name = %q", ended[0].Name())
	}
	attrs := ended[0].Attributes()
	if len(attrs) != 1 || string(attrs[0].Key) != "makebuilder.section.type" || attrs[0].Value.AsString() != "banner" {
		t.Errorf("attributes = %v", attrs)
	}
}

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	tr, err := Setup(context.Background())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	_, span := tr.Start(context.Background(), SpanMenuToggle, nil)
	span.End()
	if span.SpanContext().IsValid() {
		t.Error("no-op tracer should produce invalid span contexts")
	}
	if err := tr.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestNilTracer(t *testing.T) {
	var tr *Tracer
	_, span := tr.Start(context.Background(), SpanExport, nil)
	span.End()
	if err := tr.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}
