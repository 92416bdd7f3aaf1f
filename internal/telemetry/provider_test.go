package telemetry

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitProviderDisabled(t *testing.T) {
	ctx := context.Background()
	shutdown, err := InitProvider(ctx, DefaultConfig())
	if err != nil {
		t.Fatalf("InitProvider failed: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected shutdown function, got nil")
	}

	_, span := StartGatewaySpan(ctx, nil, "login")
	if span.SpanContext().IsValid() {
		t.Fatal("noop provider should produce invalid span contexts")
	}
	span.End()

	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown returned error: %v", err)
	}
}

func TestInitProviderStdout(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()
	shutdown, err := InitProvider(ctx, Config{Enabled: true, ServiceName: "bankgate-test", Writer: &buf})
	if err != nil {
		t.Fatalf("InitProvider failed: %v", err)
	}

	_, span := StartGatewaySpan(ctx, nil, "my_accounts")
	RecordSuccess(span)
	span.End()

	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "gateway.my_accounts") {
		t.Fatalf("exported spans missing name: %s", out)
	}
	if !strings.Contains(out, "bankgate-test") {
		t.Fatalf("exported spans missing service name: %s", out)
	}

	// Leave a noop provider behind for other tests.
	if _, err := InitProvider(ctx, DefaultConfig()); err != nil {
		t.Fatalf("reset provider: %v", err)
	}
}

func TestRecordError(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	_, span := StartGatewaySpan(context.Background(), tp, "transfer")
	RecordError(span, nil)
	RecordError(span, errors.New("boom"))
	span.End()

	ended := rec.Ended()
	if len(ended) != 1 {
		t.Fatalf("ended spans = %d", len(ended))
	}
	if ended[0].Name() != "gateway.transfer" {
		t.Fatalf("name = %q", ended[0].Name())
	}
	if ended[0].Status().Code != codes.Error || ended[0].Status().Description != "boom" {
		t.Fatalf("status = %+v", ended[0].Status())
	}
	if len(ended[0].Events()) != 1 {
		t.Fatalf("events = %d, want one error event", len(ended[0].Events()))
	}
}

func TestShutdownWithoutProvider(t *testing.T) {
	if err := Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if TracerProvider() == nil {
		t.Fatal("TracerProvider returned nil")
	}
}
