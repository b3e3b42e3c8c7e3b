package main

import (
	"context"

	awslambda "github.com/aws/aws-lambda-go/lambda"

	"hello-world-lambda/internal/config"
	"hello-world-lambda/internal/handler"
	"hello-world-lambda/internal/logging"
	"hello-world-lambda/internal/telemetry"
	"hello-world-lambda/internal/tracing"
)

var entry tracing.HandlerFunc

func init() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	logger := logging.New(cfg, nil)

	tp, _, err := telemetry.Setup(context.Background(), cfg)
	if err != nil {
		panic("Failed to set up tracing: " + err.Error())
	}

	h := handler.New(
		handler.WithTracerProvider(tp),
		handler.WithLogger(logger),
		handler.WithSleepDuration(cfg.SleepDuration),
	)
	entry = tracing.WrapHandler(h.Handle,
		tracing.WithTracerProvider(tp),
		tracing.WithFunctionName(cfg.FunctionName()),
		tracing.WithFlusher(tp),
	)
}

func main() {
	awslambda.Start(entry)
}
