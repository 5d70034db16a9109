package telemetry

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const spanLocalsKey = "otel-span"

// Config holds the configuration for the tracing middleware
type Config struct {
	ServiceName string
	Skip        func(*fiber.Ctx) bool
}

// DefaultConfig skips probes and the scrape endpoint
func DefaultConfig() Config {
	return Config{
		ServiceName: DefaultServiceName,
		Skip: func(c *fiber.Ctx) bool {
			switch c.Path() {
			case "/health", "/healthz", "/readiness", "/metrics":
				return true
			}
			return false
		},
	}
}

// New returns a tracing and request-metrics middleware for Fiber
func New(config ...Config) fiber.Handler {
	cfg := DefaultConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(c *fiber.Ctx) error {
		if cfg.Skip != nil && cfg.Skip(c) {
			return c.Next()
		}

		start := time.Now()
		method := c.Method()

		activeAttrs := metric.WithAttributes(attribute.String("method", method))
		if HTTPActiveRequests != nil {
			HTTPActiveRequests.Add(c.Context(), 1, activeAttrs)
			defer HTTPActiveRequests.Add(c.Context(), -1, activeAttrs)
		}

		tr := otel.GetTracerProvider().Tracer(cfg.ServiceName)
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))

		ctx, span := tr.Start(ctx, method+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPMethodKey.String(method),
				semconv.HTTPTargetKey.String(c.Path()),
				semconv.NetHostNameKey.String(c.Hostname()),
				semconv.HTTPUserAgentKey.String(string(c.Request().Header.UserAgent())),
			),
		)
		defer span.End()

		c.Locals(spanLocalsKey, span)
		c.SetUserContext(ctx)

		err := c.Next()

		// the matched route is only known after routing
		route := c.Route().Path
		span.SetName(method + " " + route)
		span.SetAttributes(semconv.HTTPRouteKey.String(route))

		status := c.Response().StatusCode()
		span.SetAttributes(semconv.HTTPStatusCodeKey.Int(status))
		if err != nil {
			span.RecordError(err)
		}
		if err != nil || status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, strconv.Itoa(status))
		}

		attrs := metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("route", route),
			attribute.String("status", strconv.Itoa(status)),
		)
		if HTTPRequestsTotal != nil {
			HTTPRequestsTotal.Add(c.Context(), 1, attrs)
		}
		if HTTPRequestDuration != nil {
			HTTPRequestDuration.Record(c.Context(), time.Since(start).Seconds(), attrs)
		}

		return err
	}
}

// SpanFromContext gets the request span from the fiber context
func SpanFromContext(c *fiber.Ctx) trace.Span {
	span, ok := c.Locals(spanLocalsKey).(trace.Span)
	if !ok {
		return trace.SpanFromContext(c.UserContext())
	}
	return span
}
