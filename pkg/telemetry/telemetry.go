// Package telemetry wires tracing and metrics for the content core. Spans
// cover the service operations; counters track reaction toggles and the
// repairs performed by the reconciliation sweep.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/maeulhub/maeul/pkg/config"
	"github.com/maeulhub/maeul/pkg/logging"
)

var (
	tracer trace.Tracer

	// Domain instruments. Nil until Init runs; the Record helpers treat a
	// nil instrument as telemetry disabled.
	toggleCounter metric.Int64Counter
	repairCounter metric.Int64Counter
)

// Init initializes OpenTelemetry with Jaeger and Prometheus exporters
func Init(cfg *config.TelemetryConfig) (func(), error) {
	if !cfg.Enabled {
		logging.GetLogger().Info("Telemetry disabled")
		return func() {}, nil
	}

	ctx := context.Background()

	// Create resource
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion("0.1.0"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var shutdownFuncs []func(context.Context) error

	// Initialize tracer provider with Jaeger exporter
	if cfg.JaegerURL != "" {
		jaegerExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.JaegerURL)))
		if err != nil {
			return nil, fmt.Errorf("failed to create Jaeger exporter: %w", err)
		}

		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(jaegerExporter),
			sdktrace.WithResource(res),
		)

		otel.SetTracerProvider(tp)
		shutdownFuncs = append(shutdownFuncs, tp.Shutdown)

		logging.GetLogger().Info("Jaeger exporter initialized", zap.String("url", cfg.JaegerURL))
	}

	// Initialize metric provider with Prometheus exporter
	if cfg.PrometheusEnabled {
		exporter, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(exporter),
			sdkmetric.WithResource(res),
		)

		otel.SetMeterProvider(mp)
		shutdownFuncs = append(shutdownFuncs, mp.Shutdown)

		logging.GetLogger().Info("Prometheus exporter initialized", zap.Int("port", cfg.PrometheusPort))
	}

	// Set global propagator
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	tracer = otel.Tracer(cfg.ServiceName)
	if err := initInstruments(otel.Meter(cfg.ServiceName)); err != nil {
		return nil, fmt.Errorf("failed to create metric instruments: %w", err)
	}

	// Return shutdown function
	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		for _, fn := range shutdownFuncs {
			// Create a wrapper that uses the shutdown context
			if err := func() error {
				ctx, cancel := context.WithTimeout(shutdownCtx, 3*time.Second)
				defer cancel()
				return fn(ctx)
			}(); err != nil {
				logging.GetLogger().Error("Error shutting down telemetry", zap.Error(err))
			}
		}
	}

	return shutdown, nil
}

func initInstruments(m metric.Meter) error {
	var err error
	toggleCounter, err = m.Int64Counter("maeul.reactions.toggles",
		metric.WithDescription("Reaction toggles applied, by target type and action"))
	if err != nil {
		return err
	}
	repairCounter, err = m.Int64Counter("maeul.reconcile.slug_repairs",
		metric.WithDescription("Placeholder slugs relabeled by the reconciliation sweep"))
	return err
}

// RecordToggle counts one applied reaction toggle.
func RecordToggle(ctx context.Context, targetType, action string) {
	if toggleCounter == nil {
		return
	}
	toggleCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("target_type", targetType),
		attribute.String("action", action),
	))
}

// RecordSlugRepairs counts the placeholder slugs relabeled by one sweep pass.
func RecordSlugRepairs(ctx context.Context, repaired int) {
	if repairCounter == nil || repaired == 0 {
		return
	}
	repairCounter.Add(ctx, int64(repaired))
}

// WithTarget annotates a span with the entity an operation acts on.
func WithTarget(targetType string, id int64) trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.String("maeul.target_type", targetType),
		attribute.Int64("maeul.target_id", id),
	)
}

// Tracer returns the global tracer
func Tracer() trace.Tracer {
	if tracer == nil {
		// Fallback to no-op tracer
		return trace.NewNoopTracerProvider().Tracer("maeul")
	}
	return tracer
}

// StartSpan starts a new span
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}
