package tracing

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"
)

var commonAttrs = []attribute.KeyValue{
	semconv.FaaSTriggerHTTP,
	semconv.CloudProviderAWS,
}

const headerXrayID = "X-Amzn-Trace-Id"

// StartTraceFromAPIGatewayRequest creates the invocation span for an API
// Gateway-triggered function.
//
// It conforms to the [HTTP trigger convention] and continues the X-Ray trace
// from the request headers when a trace header is present.
//
// [HTTP trigger convention]: https://opentelemetry.io/docs/reference/specification/trace/semantic_conventions/instrumentation/aws-lambda/#api-gateway
func StartTraceFromAPIGatewayRequest(ctx context.Context, tracer trace.Tracer, functionName string, req events.APIGatewayProxyRequest) (context.Context, trace.Span) {
	attrs := commonAttrs[:]
	attrs = append(attrs, semconv.FaaSNameKey.String(functionName))
	if req.HTTPMethod != "" {
		attrs = append(attrs, semconv.HTTPMethodKey.String(req.HTTPMethod))
	}
	if req.Path != "" {
		attrs = append(attrs, semconv.HTTPRouteKey.String(req.Path))
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		attrs = append(attrs, semconv.FaaSExecutionKey.String(lc.AwsRequestID))
	}
	if traceID := headerValue(req.Headers, headerXrayID); traceID != "" {
		carrier := propagation.MapCarrier{}
		carrier.Set(headerXrayID, traceID)
		ctx = xray.Propagator{}.Extract(ctx, carrier)
	}
	opts := []trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	}
	return tracer.Start(ctx, fmt.Sprintf("%s invoke", functionName), opts...)
}

// headerValue looks up a header case-insensitively; API Gateway does not
// normalize header casing.
func headerValue(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
