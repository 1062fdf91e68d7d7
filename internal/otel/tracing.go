package otel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// DefaultServiceName is reported when OTEL_SERVICE_NAME is unset.
const DefaultServiceName = "docportal"

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// settings is the subset of OTEL_* variables the portal reads itself.
// Exporter endpoints and headers are read by the exporters.
type settings struct {
	disabled   bool
	service    string
	protocol   string
	endpoint   string
	sampler    string
	samplerArg string
}

func settingsFromEnv() settings {
	s := settings{
		disabled:   os.Getenv("OTEL_SDK_DISABLED") == "true",
		service:    firstSet(os.Getenv("OTEL_SERVICE_NAME"), DefaultServiceName),
		protocol:   firstSet(os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL"), "grpc"),
		endpoint:   firstSet(os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"), os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		sampler:    os.Getenv("OTEL_TRACES_SAMPLER"),
		samplerArg: os.Getenv("OTEL_TRACES_SAMPLER_ARG"),
	}
	return s
}

func setPropagator() {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
}

// Init installs an OTLP tracer provider configured from the standard OTEL_* variables.
// The propagator is always installed. Exporter failures leave the no-op provider in place.
func Init(ctx context.Context, logger zerolog.Logger) (ShutdownFunc, error) {
	l := logger.With().Str("component", "tracing").Logger()
	s := settingsFromEnv()
	setPropagator()

	if s.disabled {
		l.Info().Bool("tracing_enabled", false).Msg("tracing_configured")
		return noopShutdown, nil
	}

	res, err := newResource(ctx, s.service)
	if err != nil {
		if !errors.Is(err, resource.ErrPartialResource) {
			return nil, fmt.Errorf("failed to create resource: %w", err)
		}
		l.Warn().Err(err).Msg("partial tracing resource")
	}

	exporter, err := newExporter(ctx, s.protocol)
	if err != nil {
		l.Error().Err(err).Str("otlp_protocol", s.protocol).Msg("tracing_init_failed")
		return noopShutdown, nil
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(getSampler()),
	)
	otel.SetTracerProvider(tp)

	l.Info().
		Bool("tracing_enabled", true).
		Str("service", s.service).
		Str("otlp_protocol", s.protocol).
		Str("otlp_endpoint", s.endpoint).
		Str("sampler", firstSet(s.sampler, "parentbased_always_on")).
		Str("sampler_arg", firstSet(s.samplerArg, "1.0")).
		Msg("tracing_configured")

	return tp.Shutdown, nil
}

func newResource(ctx context.Context, service string) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(service)),
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
	)
}

func newExporter(ctx context.Context, protocol string) (*otlptrace.Exporter, error) {
	switch protocol {
	case "grpc":
		return otlptracegrpc.New(ctx)
	case "http/protobuf":
		return otlptracehttp.New(ctx)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol: %s", protocol)
	}
}

func firstSet(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// getSampler maps OTEL_TRACES_SAMPLER to a sampler; unknown values sample every root span.
func getSampler() trace.Sampler {
	arg := os.Getenv("OTEL_TRACES_SAMPLER_ARG")

	switch os.Getenv("OTEL_TRACES_SAMPLER") {
	case "always_on":
		return trace.AlwaysSample()
	case "always_off":
		return trace.NeverSample()
	case "traceidratio":
		return trace.TraceIDRatioBased(parseRatio(arg))
	case "parentbased_always_off":
		return trace.ParentBased(trace.NeverSample())
	case "parentbased_traceidratio":
		return trace.ParentBased(trace.TraceIDRatioBased(parseRatio(arg)))
	default:
		return trace.ParentBased(trace.AlwaysSample())
	}
}

// parseRatio reads a sampling ratio, defaulting to 1 for empty or invalid input.
func parseRatio(arg string) float64 {
	ratio, err := strconv.ParseFloat(arg, 64)
	if err != nil || ratio < 0 || ratio > 1 {
		return 1.0
	}
	return ratio
}
