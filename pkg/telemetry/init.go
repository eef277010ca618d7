package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const meterName = "hiergeom"

// Providers holds everything a processor run needs from telemetry: a
// structured logger, a meter to build instruments from, and an HTTP
// handler serving a Prometheus scrape endpoint when metrics are enabled.
// Unlike the teacher's OTLP-exporting variant, there is no remote
// collector to flush spans or metrics to — this module ships as a library
// plus a single demo binary, not a long-running service. When metrics are
// enabled, Shutdown shuts down the SDK meter provider that feeds the local
// Prometheus registry, bounded by Config.ShutdownTimeoutSec; when they are
// disabled it is a no-op, so callers can defer it unconditionally.
type Providers struct {
	Logger  *slog.Logger
	Meter   metric.Meter
	Metrics *ProcessorMetrics

	// Handler serves the Prometheus scrape endpoint. Nil when
	// Config.MetricsEnabled is false.
	Handler http.Handler

	Shutdown func(ctx context.Context) error
}

func noopShutdown(context.Context) error { return nil }

// Init builds a logger, and — when cfg.MetricsEnabled — a Prometheus-backed
// meter and the *ProcessorMetrics instruments derived from it. When metrics
// are disabled, Meter is a no-op meter and Metrics still works (every
// instrument call is simply not collected).
func Init(cfg Config) (Providers, error) {
	logger := buildLogger(cfg)

	if !cfg.MetricsEnabled {
		meter := noopmetric.NewMeterProvider().Meter(meterName)

		procMetrics, err := NewProcessorMetrics(meter)
		if err != nil {
			return Providers{}, err
		}

		return Providers{Logger: logger, Meter: meter, Metrics: procMetrics, Shutdown: noopShutdown}, nil
	}

	res, err := buildResource(cfg)
	if err != nil {
		return Providers{}, err
	}

	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return Providers{}, fmt.Errorf("create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)

	meter := mp.Meter(meterName)

	procMetrics, err := NewProcessorMetrics(meter)
	if err != nil {
		shutdownErr := mp.Shutdown(context.Background())

		return Providers{}, fmt.Errorf("%w (meter provider shutdown: %v)", err, shutdownErr)
	}

	shutdown := func(ctx context.Context) error {
		timeout := time.Duration(cfg.ShutdownTimeoutSec) * time.Second
		if timeout <= 0 {
			timeout = defaultShutdownTimeoutSec * time.Second
		}

		deadlineCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := mp.Shutdown(deadlineCtx); err != nil {
			return fmt.Errorf("shut down meter provider: %w", err)
		}

		return nil
	}

	return Providers{
		Logger:   logger,
		Meter:    meter,
		Metrics:  procMetrics,
		Handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Shutdown: shutdown,
	}, nil
}

func buildResource(cfg Config) (*resource.Resource, error) {
	opts := []resource.Option{
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	}

	if cfg.Environment != "" {
		opts = append(opts, resource.WithAttributes(semconv.DeploymentEnvironment(cfg.Environment)))
	}

	res, err := resource.New(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("build otel resource: %w", err)
	}

	return res, nil
}

func buildLogger(cfg Config) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var inner slog.Handler
	if cfg.LogJSON {
		inner = slog.NewJSONHandler(os.Stderr, handlerOpts)
	} else {
		inner = slog.NewTextHandler(os.Stderr, handlerOpts)
	}

	return slog.New(NewTracingHandler(inner, cfg.ServiceName, cfg.Environment, cfg.Mode))
}
