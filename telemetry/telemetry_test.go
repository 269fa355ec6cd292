package telemetry

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInit_DisabledIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{EndpointURL: "http://localhost:4318"})
	if err != nil {
		t.Fatalf("init disabled telemetry: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}

	shutdown, err = Init(context.Background(), Config{Enabled: true})
	if err != nil {
		t.Fatalf("init without endpoint: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}

func TestInit_UnreachableCollectorDoesNotFail(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{
		Enabled:     true,
		EndpointURL: "http://127.0.0.1:1/v1/traces",
		ServiceName: "currency-test",
		SampleRatio: 0.5,
	})
	if err != nil {
		t.Fatalf("init must not fail when the collector is down: %v", err)
	}
	_, span := Tracer().Start(context.Background(), "test-span")
	span.End()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}

func TestSampler(t *testing.T) {
	if got := sampler(0).Description(); got != sdktrace.AlwaysSample().Description() {
		t.Fatalf("expected always-on sampler, got %q", got)
	}
	if got := sampler(0.25).Description(); got == sdktrace.AlwaysSample().Description() {
		t.Fatalf("expected ratio sampler, got %q", got)
	}
}
