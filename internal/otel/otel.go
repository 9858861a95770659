package otel

import (
	"context"
	"fmt"
	"os"
	"time"

	otelxray "go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// EndpointEnv enables tracing when set. The exporter reads the endpoint
// from it directly.
const EndpointEnv = "OTEL_EXPORTER_OTLP_ENDPOINT"

// lambdaTraceEnv holds the X-Ray trace header of the current Lambda invocation.
const lambdaTraceEnv = "_X_AMZN_TRACE_ID"

// Enabled reports whether an OTLP endpoint is configured.
func Enabled() bool {
	_, ok := os.LookupEnv(EndpointEnv)
	return ok
}

// SetupTracer installs a global tracer provider exporting over OTLP/gRPC with
// X-Ray compatible ids and propagation.
func SetupTracer(ctx context.Context, svcName string, detectors ...resource.Detector) (*sdktrace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithInsecure(), otlptracegrpc.WithDialOption(grpc.WithBlock()))
	if err != nil {
		return nil, fmt.Errorf("create otel trace exporter: %w", err)
	}

	r, err := resource.New(ctx,
		resource.WithDetectors(detectors...),
		resource.WithAttributes(semconv.ServiceNameKey.String(svcName)),
	)
	if err != nil {
		return nil, fmt.Errorf("detect otel resource: %w", err)
	}

	idg := otelxray.NewIDGenerator()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(r),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithIDGenerator(idg),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(otelxray.Propagator{})
	return tp, nil
}

// LambdaParent returns ctx carrying the remote span context from the
// invocation's X-Ray trace header, if the runtime set one.
func LambdaParent(ctx context.Context) context.Context {
	header, ok := os.LookupEnv(lambdaTraceEnv)
	if !ok || header == "" {
		return ctx
	}

	carrier := propagation.MapCarrier{"X-Amzn-Trace-Id": header}
	return otelxray.Propagator{}.Extract(ctx, carrier)
}

// XRayTraceID formats the span's trace id the way X-Ray prints it. It
// returns "" when the span is not recording a valid trace.
func XRayTraceID(span trace.Span) string {
	if !span.SpanContext().TraceID().IsValid() {
		return ""
	}

	id := span.SpanContext().TraceID().String()
	if len(id) < 9 {
		return id
	}

	return fmt.Sprintf("1-%s-%s", id[:8], id[8:])
}
