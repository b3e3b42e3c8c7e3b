// Package tracing provides some utilities to create invocation spans that
// conform to [semantic conventions].
//
// [semantic conventions]: https://opentelemetry.io/docs/reference/specification/trace/semantic_conventions/instrumentation/aws-lambda/
package tracing
