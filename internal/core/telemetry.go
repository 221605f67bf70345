package core

import (
	"context"
	"errors"

	"backoffice/internal/models"

	"github.com/grafana/pyroscope-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// InitTelemetry starts tracing and profiling when enabled and returns the
// function flushing them on shutdown.
func InitTelemetry(ctx context.Context, config models.TelemetryConfiguration) func(context.Context) error {
	var shutdowns []func(context.Context) error

	if config.Tracing.Enabled {
		exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(config.Tracing.Endpoint))
		if err != nil {
			zap.L().Error("Failed to create trace exporter, tracing disabled", zap.Error(err))
		} else {
			provider := sdktrace.NewTracerProvider(
				sdktrace.WithBatcher(exporter),
				sdktrace.WithResource(resource.NewSchemaless(
					attribute.String("service.name", config.ServiceName),
				)),
			)
			otel.SetTracerProvider(provider)
			otel.SetTextMapPropagator(propagation.TraceContext{})
			shutdowns = append(shutdowns, provider.Shutdown)
			zap.L().Info("Tracing enabled", zap.String("endpoint", config.Tracing.Endpoint))
		}
	}

	if config.Profiling.Enabled {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: config.ServiceName,
			ServerAddress:   config.Profiling.ServerAddress,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseSpace,
				pyroscope.ProfileGoroutines,
			},
		})
		if err != nil {
			zap.L().Error("Failed to start profiler", zap.Error(err))
		} else {
			shutdowns = append(shutdowns, func(context.Context) error { return profiler.Stop() })
			zap.L().Info("Profiling enabled", zap.String("server", config.Profiling.ServerAddress))
		}
	}

	return func(ctx context.Context) error {
		var errs []error
		for _, shutdown := range shutdowns {
			errs = append(errs, shutdown(ctx))
		}
		return errors.Join(errs...)
	}
}
