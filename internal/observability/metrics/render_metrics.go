package metrics

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes recorded for PDF engine calls and cache lookups.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"

	CacheHit  = "hit"
	CacheMiss = "miss"
	CacheErr  = "error"
)

// RenderMetrics are the Prometheus collectors scraped from /metrics.
type RenderMetrics struct {
	registerer     prometheus.Registerer
	renderDuration *prometheus.HistogramVec
	pdfResults     *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	constLabels    prometheus.Labels

	inFlightOnce sync.Once
}

var (
	renderMetricsOnce sync.Once
	renderMetrics     *RenderMetrics
)

// Render returns the process wide render metrics.
func Render() *RenderMetrics {
	return RenderWithConfig(Config{})
}

// RenderWithConfig returns the process wide render metrics using config labels.
func RenderWithConfig(cfg Config) *RenderMetrics {
	renderMetricsOnce.Do(func() {
		renderMetrics = newRenderMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return renderMetrics
}

func newRenderMetrics(registerer prometheus.Registerer, cfg Config) *RenderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "facture"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	renderDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "facture_render_duration_seconds",
		Help:        "Invoice render latency by output format.",
		Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		ConstLabels: constLabels,
	}, []string{"format", "outcome"})
	pdfResults := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "facture_pdf_engine_results_total",
		Help:        "PDF engine calls by engine and outcome.",
		ConstLabels: constLabels,
	}, []string{"engine", "outcome"})
	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "facture_render_cache_lookups_total",
		Help:        "PDF cache lookups by result.",
		ConstLabels: constLabels,
	}, []string{"result"})

	registerer.MustRegister(renderDuration, pdfResults, cacheLookups)

	return &RenderMetrics{
		registerer:     registerer,
		renderDuration: renderDuration,
		pdfResults:     pdfResults,
		cacheLookups:   cacheLookups,
		constLabels:    constLabels,
	}
}

// ObserveRender records how long one format took.
func (m *RenderMetrics) ObserveRender(format string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(format, outcome(err)).Observe(elapsed.Seconds())
}

// ObservePDF records one PDF engine call.
func (m *RenderMetrics) ObservePDF(engine string, err error) {
	if m == nil {
		return
	}
	m.pdfResults.WithLabelValues(engine, outcome(err)).Inc()
}

// ObserveCache records one cache lookup result.
func (m *RenderMetrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObservePDFInFlight exposes the number of open browser tabs. Only the first
// call registers the gauge.
func (m *RenderMetrics) ObservePDFInFlight(fn func() float64) {
	if m == nil || fn == nil {
		return
	}
	m.inFlightOnce.Do(func() {
		gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "facture_pdf_pages_in_flight",
			Help:        "Headless browser tabs currently printing.",
			ConstLabels: m.constLabels,
		}, fn)
		if err := m.registerer.Register(gauge); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				panic(err)
			}
		}
	})
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
