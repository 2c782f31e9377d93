package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherFamily(t *testing.T, reg *prometheus.Registry, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	t.Fatalf("metric family %s not gathered", name)
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestGinMiddlewareRecordsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/v1/templates/:type", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, path := range []string{"/v1/templates/standard", "/v1/templates/tva-exempt", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	requests := gatherFamily(t, reg, "facture_http_requests_total")
	counts := map[string]float64{}
	for _, metric := range requests.GetMetric() {
		key := labelValue(metric, "route") + " " + labelValue(metric, "status")
		counts[key] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, float64(2), counts["/v1/templates/:type 204"])
	assert.Equal(t, float64(1), counts["unknown 404"])

	inFlight := gatherFamily(t, reg, "facture_http_requests_in_flight")
	require.Len(t, inFlight.GetMetric(), 1)
	assert.Zero(t, inFlight.GetMetric()[0].GetGauge().GetValue())

	duration := gatherFamily(t, reg, "facture_http_request_duration_seconds")
	assert.Equal(t, dto.MetricType_HISTOGRAM, duration.GetType())
}

func TestNilMetricsPassThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var m *Metrics

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.NotPanics(t, func() { m.ObserveAPIRequest("GET", "", 200, 0) })
}
