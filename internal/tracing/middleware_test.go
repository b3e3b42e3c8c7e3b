package tracing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"hello-world-lambda/internal/tracing"
)

func okHandler(tp trace.TracerProvider) tracing.HandlerFunc {
	return func(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		_, span := tp.Tracer("test-handler").Start(ctx, "work")
		span.End()
		return events.APIGatewayProxyResponse{StatusCode: 200, Body: `{"message":"Hello world!"}`}, nil
	}
}

func TestWrapHandlerSuccess(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	wrapped := tracing.WrapHandler(okHandler(tp),
		tracing.WithTracerProvider(tp),
		tracing.WithFunctionName("my-func"),
	)

	resp, err := wrapped(context.Background(), events.APIGatewayProxyRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("got status %d, want 200", resp.StatusCode)
	}
	if err := tp.ForceFlush(context.Background()); err != nil {
		t.Fatal(err)
	}

	gotSpans := exporter.GetSpans()
	if len(gotSpans) != 2 {
		t.Fatalf("got %d spans, want 2", len(gotSpans))
	}
	work, root := gotSpans[0], gotSpans[1]
	if root.Name != "my-func invoke" {
		t.Errorf("got root span name %q, want %q", root.Name, "my-func invoke")
	}
	if root.SpanKind != trace.SpanKindServer {
		t.Errorf("got root span kind %s, want server", root.SpanKind)
	}
	wantStatus := attribute.Int("http.status_code", 200)
	var found bool
	for _, kv := range root.Attributes {
		if kv.Key == wantStatus.Key && kv.Value == wantStatus.Value {
			found = true
		}
	}
	if !found {
		t.Errorf("root span attributes %v lack %v", root.Attributes, wantStatus)
	}
	if work.Parent.SpanID() != root.SpanContext.SpanID() {
		t.Error("handler span is not a child of the invocation span")
	}
	if work.SpanContext.TraceID() != root.SpanContext.TraceID() {
		t.Error("handler span is not in the invocation trace")
	}
}

func TestWrapHandlerError(t *testing.T) {
	handlerErr := errors.New("boom")
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	wrapped := tracing.WrapHandler(
		func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
			return events.APIGatewayProxyResponse{}, handlerErr
		},
		tracing.WithTracerProvider(tp),
		tracing.WithFunctionName("my-func"),
	)

	if _, err := wrapped(context.Background(), events.APIGatewayProxyRequest{}); !errors.Is(err, handlerErr) {
		t.Fatalf("got error %v, want %v", err, handlerErr)
	}
	if err := tp.ForceFlush(context.Background()); err != nil {
		t.Fatal(err)
	}

	gotSpans := exporter.GetSpans()
	if len(gotSpans) != 1 {
		t.Fatalf("got %d spans, want 1", len(gotSpans))
	}
	root := gotSpans[0]
	if root.Status.Code != codes.Error {
		t.Errorf("got status code %s, want Error", root.Status.Code)
	}
	if root.Status.Description != "boom" {
		t.Errorf("got status description %q, want %q", root.Status.Description, "boom")
	}
	var recorded bool
	for _, ev := range root.Events {
		if ev.Name == "exception" {
			recorded = true
		}
	}
	if !recorded {
		t.Error("error is not recorded on the invocation span")
	}
}

type countingFlusher struct {
	calls int
}

func (f *countingFlusher) ForceFlush(context.Context) error {
	f.calls++
	return nil
}

func TestWrapHandlerFlushesPerInvocation(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	flusher := &countingFlusher{}
	wrapped := tracing.WrapHandler(okHandler(tp),
		tracing.WithTracerProvider(tp),
		tracing.WithFunctionName("my-func"),
		tracing.WithFlusher(flusher),
	)

	for i := 0; i < 3; i++ {
		if _, err := wrapped(context.Background(), events.APIGatewayProxyRequest{}); err != nil {
			t.Fatal(err)
		}
	}
	if flusher.calls != 3 {
		t.Errorf("got %d flushes, want 3", flusher.calls)
	}
}

func TestWrapHandlerFunctionNameFromEnv(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "env-func")
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	wrapped := tracing.WrapHandler(okHandler(tp), tracing.WithTracerProvider(tp))

	if _, err := wrapped(context.Background(), events.APIGatewayProxyRequest{}); err != nil {
		t.Fatal(err)
	}
	if err := tp.ForceFlush(context.Background()); err != nil {
		t.Fatal(err)
	}

	gotSpans := exporter.GetSpans()
	if len(gotSpans) != 2 {
		t.Fatalf("got %d spans, want 2", len(gotSpans))
	}
	if got := gotSpans[1].Name; got != "env-func invoke" {
		t.Errorf("got root span name %q, want %q", got, "env-func invoke")
	}
}
