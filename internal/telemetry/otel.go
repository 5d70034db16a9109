package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/Henryk91/get-company-info/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const DefaultServiceName = "get-company-info"

var tracer trace.Tracer

// Options configures both exporters. An empty Endpoint disables export.
type Options struct {
	ServiceName string
	Version     string
	Endpoint    string
}

func (o Options) withDefaults() Options {
	if o.ServiceName == "" {
		o.ServiceName = DefaultServiceName
	}
	if o.Version == "" {
		o.Version = "1.0.0"
	}
	return o
}

// Setup starts tracing and metrics export and returns a shutdown func
// that flushes both
func Setup(ctx context.Context, opts Options) (func(context.Context) error, error) {
	shutdownTracer, err := InitTracer(ctx, opts)
	if err != nil {
		return nil, err
	}
	shutdownMeter, err := InitMeter(ctx, opts)
	if err != nil {
		_ = shutdownTracer(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		return errors.Join(shutdownTracer(ctx), shutdownMeter(ctx))
	}, nil
}

func newResource(ctx context.Context, opts Options) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(opts.ServiceName),
			semconv.ServiceVersionKey.String(opts.Version),
		),
		resource.WithHost(),
		resource.WithOS(),
	)
}

// InitTracer initializes the tracer with an OTLP HTTP exporter
func InitTracer(ctx context.Context, opts Options) (func(context.Context) error, error) {
	opts = opts.withDefaults()
	log := logger.GetLogger("telemetry")

	if opts.Endpoint == "" {
		log.Info("SIGNOZ_ENDPOINT not set, tracing disabled")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(opts.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx, opts)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(5*time.Second),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	tracer = tp.Tracer(opts.ServiceName)

	log.Infow("OpenTelemetry tracing initialized", "endpoint", opts.Endpoint)

	return tp.Shutdown, nil
}

// StartSpan starts a span on the service tracer. Before InitTracer runs
// the global no-op provider is used.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if tracer == nil {
		return otel.Tracer(DefaultServiceName).Start(ctx, name, opts...)
	}
	return tracer.Start(ctx, name, opts...)
}
