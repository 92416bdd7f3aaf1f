package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartGatewaySpan starts the span for one banking API call, named "gateway.<op>".
//
//	ctx, span := telemetry.StartGatewaySpan(ctx, tp, "login")
//	defer span.End()
func StartGatewaySpan(ctx context.Context, tp trace.TracerProvider, op string) (context.Context, trace.Span) {
	if tp == nil {
		tp = TracerProvider()
	}
	ctx, span := tp.Tracer("gateway").Start(ctx, "gateway."+op)
	span.SetAttributes(
		attribute.String("operation", op),
		attribute.String("component", "gateway"),
	)
	return ctx, span
}

// RecordSuccess marks span as successful.
func RecordSuccess(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
	span.SetStatus(codes.Ok, "")
}

// RecordError records err on span and sets error status. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
