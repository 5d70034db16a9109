package telemetry

import (
	"context"
	"time"

	"github.com/Henryk91/get-company-info/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

var meter metric.Meter

// Instruments stay nil until InitMeter succeeds
var (
	HTTPRequestsTotal    metric.Int64Counter
	HTTPRequestDuration  metric.Float64Histogram
	HTTPActiveRequests   metric.Int64UpDownCounter
	ProviderCallDuration metric.Float64Histogram
)

// InitMeter initializes the meter with an OTLP HTTP exporter
func InitMeter(ctx context.Context, opts Options) (func(context.Context) error, error) {
	opts = opts.withDefaults()
	log := logger.GetLogger("telemetry")

	if opts.Endpoint == "" {
		log.Info("SIGNOZ_ENDPOINT not set, metrics export disabled")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(opts.Endpoint),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx, opts)
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter,
				sdkmetric.WithInterval(15*time.Second),
			),
		),
	)

	otel.SetMeterProvider(mp)
	meter = mp.Meter(opts.ServiceName)

	if err := initInstruments(meter); err != nil {
		return nil, err
	}

	log.Infow("OpenTelemetry metrics initialized", "endpoint", opts.Endpoint)

	return mp.Shutdown, nil
}

func initInstruments(m metric.Meter) error {
	var err error

	HTTPRequestsTotal, err = m.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	HTTPRequestDuration, err = m.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	HTTPActiveRequests, err = m.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	ProviderCallDuration, err = m.Float64Histogram(
		"places_provider_call_duration_seconds",
		metric.WithDescription("Latency of places provider calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	)
	return err
}

// RecordProviderCall records one provider round trip. No-op until
// InitMeter has run.
func RecordProviderCall(ctx context.Context, operation, status string, elapsed time.Duration) {
	if ProviderCallDuration == nil {
		return
	}
	ProviderCallDuration.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// Meter returns the service meter, nil when export is disabled
func Meter() metric.Meter {
	return meter
}
