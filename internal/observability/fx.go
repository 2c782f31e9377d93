package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/facture/internal/observability/logger"
	"github.com/smallbiznis/facture/internal/observability/metrics"
	"github.com/smallbiznis/facture/internal/observability/tracing"
	"github.com/smallbiznis/facture/pkg/telemetry"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		loggerConfig,
		logger.New,
		tracingConfig,
		tracing.NewProvider,
		metricsConfig,
		metrics.NewProvider,
		metrics.New,
		metrics.RenderWithConfig,
		httpMetrics,
	),
	// Nothing depends on the tracer provider directly; it installs itself as
	// the otel global.
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

func httpMetrics() *telemetry.Metrics {
	return telemetry.NewMetrics(prometheus.DefaultRegisterer)
}

func loggerConfig(cfg Config) logger.Config {
	return logger.Config{
		ServiceName: cfg.Service.Name,
		Environment: cfg.Service.Environment,
		Version:     cfg.Service.Version,
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Debug:       cfg.Debug(),
	}
}

func tracingConfig(cfg Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.Otel.Enabled,
		ServiceName:      cfg.Service.Name,
		ServiceVersion:   cfg.Service.Version,
		Environment:      cfg.Service.Environment,
		ExporterEndpoint: cfg.Otel.Endpoint,
		ExporterProtocol: cfg.Otel.Protocol,
		SamplingRatio:    cfg.Otel.SamplingRatio,
	}
}

func metricsConfig(cfg Config) metrics.Config {
	return metrics.Config{
		Enabled:          cfg.Otel.Enabled,
		ExporterEndpoint: cfg.Otel.Endpoint,
		ExporterProtocol: cfg.Otel.Protocol,
		ServiceName:      cfg.Service.Name,
		Environment:      cfg.Service.Environment,
	}
}
