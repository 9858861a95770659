package otel

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"
)

func TestLambdaParent(t *testing.T) {
	t.Setenv(lambdaTraceEnv, "Root=1-5759e988-bd862e3fe1be46a994272793;Parent=53995c3f42cd8ad8;Sampled=1")

	ctx := LambdaParent(context.Background())

	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsRemote() {
		t.Errorf("span context is not remote")
	}
	if got := sc.TraceID().String(); got != "5759e988bd862e3fe1be46a994272793" {
		t.Errorf("got trace id %s", got)
	}
	if got := XRayTraceID(trace.SpanFromContext(ctx)); got != "1-5759e988-bd862e3fe1be46a994272793" {
		t.Errorf("got xray trace id %q", got)
	}
}

func TestLambdaParentUnset(t *testing.T) {
	t.Setenv(lambdaTraceEnv, "")

	ctx := LambdaParent(context.Background())
	if trace.SpanContextFromContext(ctx).IsValid() {
		t.Errorf("got a valid span context without a trace header")
	}
}

func TestXRayTraceIDInvalid(t *testing.T) {
	if got := XRayTraceID(trace.SpanFromContext(context.Background())); got != "" {
		t.Errorf("got %q, want empty trace id", got)
	}
}
