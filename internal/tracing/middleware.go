package tracing

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"
)

const scope = "hello-world-lambda/internal/tracing"

// HandlerFunc is the API Gateway proxy handler signature accepted by WrapHandler.
type HandlerFunc func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Flusher exports buffered spans; *sdktrace.TracerProvider satisfies it.
type Flusher interface {
	ForceFlush(context.Context) error
}

type config struct {
	tracerProvider trace.TracerProvider
	functionName   string
	flusher        Flusher
}

// Option configures WrapHandler.
type Option func(*config)

// WithTracerProvider sets the tracer provider for the invocation span.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) { c.tracerProvider = tp }
}

// WithFunctionName sets the function name used in the invocation span name.
func WithFunctionName(name string) Option {
	return func(c *config) { c.functionName = name }
}

// WithFlusher makes the wrapped handler export buffered spans at the end of
// every invocation, before the execution environment freezes.
func WithFlusher(f Flusher) Option {
	return func(c *config) { c.flusher = f }
}

// WrapHandler returns a handler that runs h inside an invocation span. Errors
// returned by h are recorded on the span and returned unchanged.
func WrapHandler(h HandlerFunc, opts ...Option) HandlerFunc {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.tracerProvider == nil {
		cfg.tracerProvider = otel.GetTracerProvider()
	}
	if cfg.functionName == "" {
		cfg.functionName = os.Getenv("AWS_LAMBDA_FUNCTION_NAME")
	}
	if cfg.functionName == "" {
		cfg.functionName = "lambda"
	}
	tracer := cfg.tracerProvider.Tracer(scope)
	return func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		ctx, span := StartTraceFromAPIGatewayRequest(ctx, tracer, cfg.functionName, req)
		if cfg.flusher != nil {
			defer func() {
				_ = cfg.flusher.ForceFlush(context.WithoutCancel(ctx))
			}()
		}
		defer span.End()

		resp, err := h(ctx, req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return resp, err
		}
		span.SetAttributes(semconv.HTTPStatusCodeKey.Int(resp.StatusCode))
		return resp, nil
	}
}
