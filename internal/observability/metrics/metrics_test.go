package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("format", "pdf"),
		attribute.String("invoice_number", "F-2024-001"),
		attribute.String("engine", "maroto"),
	)
	require.Len(t, attrs, 2)
	assert.Equal(t, attribute.Key("format"), attrs[0].Key)
	assert.Equal(t, attribute.Key("engine"), attrs[1].Key)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.RecordDocumentRendered(context.Background(), "pdf", "french-standard", "maroto")
	m.RecordRenderFailure(context.Background(), "pdf", "validation")
	m.RecordFallbackUsed(context.Background(), "email")

	var r *RenderMetrics
	r.ObserveRender("pdf", nil, time.Second)
	r.ObservePDF("maroto", nil)
	r.ObserveCache(CacheHit)
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{}, noop.NewMeterProvider())
	require.NoError(t, err)
	m.RecordDocumentRendered(context.Background(), "email", "tva-exempt", "")
}

func TestCountersCarryFilteredLabels(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := New(Config{ServiceName: "facture"}, provider)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordDocumentRendered(ctx, " pdf ", "french-standard", "maroto")
	m.RecordDocumentRendered(ctx, "pdf", "french-standard", "maroto")
	m.RecordRateLimitDenied(ctx, "render", "client-rate")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	sums := map[string]metricdata.Sum[int64]{}
	for _, md := range rm.ScopeMetrics[0].Metrics {
		if sum, ok := md.Data.(metricdata.Sum[int64]); ok {
			sums[md.Name] = sum
		}
	}

	rendered := sums[string(documentsRendered)]
	require.Len(t, rendered.DataPoints, 1)
	assert.Equal(t, int64(2), rendered.DataPoints[0].Value)
	format, ok := rendered.DataPoints[0].Attributes.Value("format")
	require.True(t, ok)
	assert.Equal(t, "pdf", format.AsString())

	denied := sums[string(rateLimitDenied)]
	require.Len(t, denied.DataPoints, 1)
	assert.Equal(t, int64(1), denied.DataPoints[0].Value)
}

func TestRenderMetricsCounters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newRenderMetrics(registry, Config{ServiceName: "facture", Environment: "test"})

	m.ObservePDF("chromium", errors.New("crashed"))
	m.ObservePDF("maroto", nil)
	m.ObservePDF("maroto", nil)
	m.ObserveCache(CacheMiss)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.pdfResults.WithLabelValues("chromium", OutcomeError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.pdfResults.WithLabelValues("maroto", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues(CacheMiss)))
}

func TestObservePDFInFlightRegistersOnce(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newRenderMetrics(registry, Config{})

	m.ObservePDFInFlight(func() float64 { return 3 })
	m.ObservePDFInFlight(func() float64 { return 5 })

	count, err := testutil.GatherAndCount(registry, "facture_pdf_pages_in_flight")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
