package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics holds the OTel counters for render outcomes and rate limiting.
// A nil *Metrics records nothing.
type Metrics struct {
	counters map[counter]metric.Int64Counter
}

type counter string

const (
	documentsRendered counter = "facture_documents_rendered_total"
	renderFailures    counter = "facture_render_failures_total"
	fallbackUsed      counter = "facture_fallback_used_total"
	rateLimitAllowed  counter = "facture_rate_limit_allowed_total"
	rateLimitDenied   counter = "facture_rate_limit_denied_total"
)

var counterDescriptions = map[counter]string{
	documentsRendered: "Documents rendered, by format, template and PDF engine.",
	renderFailures:    "Render attempts that produced no document.",
	fallbackUsed:      "Documents built from placeholder invoice data.",
	rateLimitAllowed:  "Render requests admitted by the limiter.",
	rateLimitDenied:   "Render requests rejected by the limiter.",
}

const defaultExportInterval = 10 * time.Second

// NewProvider installs the global meter provider. When export is disabled a
// noop provider is installed so instruments stay valid.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, fmt.Errorf("metrics exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(defaultExportInterval))),
	)
	otel.SetMeterProvider(provider)

	if log == nil {
		log = zap.NewNop()
	}
	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("flushing meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}
	log.Info("otlp metrics enabled",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)
	return provider, nil
}

// New registers every counter on the service meter.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "facture"
	}
	meter := provider.Meter(name)

	m := &Metrics{counters: make(map[counter]metric.Int64Counter, len(counterDescriptions))}
	for c, desc := range counterDescriptions {
		instrument, err := meter.Int64Counter(string(c), metric.WithDescription(desc))
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", c, err)
		}
		m.counters[c] = instrument
	}
	return m, nil
}

func (m *Metrics) add(ctx context.Context, c counter, attrs ...attribute.KeyValue) {
	if m == nil {
		return
	}
	instrument, ok := m.counters[c]
	if !ok {
		return
	}
	instrument.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attrs...)...))
}

func label(key, value string) attribute.KeyValue {
	return attribute.String(key, strings.TrimSpace(value))
}

// RecordDocumentRendered counts a successful render. engine is empty for
// non-PDF formats.
func (m *Metrics) RecordDocumentRendered(ctx context.Context, format, templateType, engine string) {
	m.add(ctx, documentsRendered,
		label("format", format),
		label("template_type", templateType),
		label("engine", engine),
	)
}

// RecordRenderFailure counts a failed render. reason must come from a closed
// set, never from invoice data.
func (m *Metrics) RecordRenderFailure(ctx context.Context, format, reason string) {
	m.add(ctx, renderFailures, label("format", format), label("reason", reason))
}

func (m *Metrics) RecordFallbackUsed(ctx context.Context, format string) {
	m.add(ctx, fallbackUsed, label("format", format))
}

func (m *Metrics) RecordRateLimitAllowed(ctx context.Context, endpoint string) {
	m.add(ctx, rateLimitAllowed, label("endpoint", endpoint))
}

func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint, reason string) {
	m.add(ctx, rateLimitDenied, label("endpoint", endpoint), label("reason", reason))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

// labelKeys is the closed set of metric labels. Invoice numbers, client
// names and amounts must never become labels.
var labelKeys = map[attribute.Key]struct{}{
	"format":        {},
	"template_type": {},
	"engine":        {},
	"endpoint":      {},
	"reason":        {},
}

// FilterAttributes drops any attribute whose key is not in labelKeys.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := labelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
