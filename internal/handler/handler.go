package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
	"github.com/zoobzio/clockz"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const scope = "hello-world-lambda/internal/handler"

// Hello produces the fixed hello-world response, emitting a custom span
// around the greeting log line and another around the pause.
type Hello struct {
	tracer   trace.Tracer
	clock    clockz.Clock
	logger   *logrus.Logger
	sleepFor time.Duration
}

// Option configures a Hello handler.
type Option func(*Hello)

// WithTracerProvider sets the tracer provider used for the custom spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(h *Hello) { h.tracer = tp.Tracer(scope) }
}

// WithClock sets the clock used for the pause.
func WithClock(clock clockz.Clock) Option {
	return func(h *Hello) { h.clock = clock }
}

// WithLogger sets the logger for the greeting line.
func WithLogger(logger *logrus.Logger) Option {
	return func(h *Hello) { h.logger = logger }
}

// WithSleepDuration sets how long the sleep span pauses.
func WithSleepDuration(d time.Duration) Option {
	return func(h *Hello) { h.sleepFor = d }
}

// New builds a Hello handler. Without options it uses the global tracer
// provider, the real clock, a fresh logger, and a one second pause.
func New(opts ...Option) *Hello {
	h := &Hello{
		tracer:   otel.GetTracerProvider().Tracer(scope),
		clock:    clockz.RealClock,
		logger:   logrus.New(),
		sleepFor: time.Second,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

type responseBody struct {
	Message string `json:"message"`
}

// Handle responds to an API Gateway proxy request. No field of the event is
// read; the response is identical for every input.
func (h *Hello) Handle(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	func() {
		_, span := h.tracer.Start(ctx, "hello.world")
		defer span.End()
		h.logger.Info("Hello, World!")
	}()

	func() {
		_, span := h.tracer.Start(ctx, "sleep")
		defer span.End()
		h.clock.Sleep(h.sleepFor)
	}()

	body, err := json.Marshal(responseBody{Message: "Hello world!"})
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}
