package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/facture/internal/observability/context"
	"github.com/smallbiznis/facture/pkg/telemetry/correlation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactingCoreMasksSensitiveFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(newRedactingCore(core)).With(zap.String("email", "compta@example.fr"))

	log.Info("seller loaded",
		zap.String("IBAN", "FR7630006000011234567890189"),
		zap.String("company", "Studio Lumière SAS"),
	)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, redacted, fields["email"])
	assert.Equal(t, redacted, fields["IBAN"])
	assert.Equal(t, "Studio Lumière SAS", fields["company"])
}

func TestWithContextOmitsMissingIDs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	WithContext(context.Background(), base).Info("bare")

	ctx := obscontext.WithRequestID(context.Background(), "req-1")
	ctx = correlation.WithID(ctx, "corr-1")
	WithDocument(WithContext(ctx, base), "1790000000000000000", "pdf").Info("rendered")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].ContextMap())
	assert.Equal(t, map[string]any{
		"request_id":     "req-1",
		"correlation_id": "corr-1",
		"document_id":    "1790000000000000000",
		"format":         "pdf",
	}, entries[1].ContextMap())
}

func TestRequestLevel(t *testing.T) {
	cases := []struct {
		route  string
		status int
		debug  bool
		want   zapcore.Level
	}{
		{"/health", http.StatusOK, false, zapcore.DebugLevel},
		{"/metrics", http.StatusInternalServerError, false, zapcore.DebugLevel},
		{"/v1/invoices/render", http.StatusOK, false, zapcore.InfoLevel},
		{"/v1/invoices/render", http.StatusUnprocessableEntity, true, zapcore.DebugLevel},
		{"/v1/invoices/render/batch", http.StatusInternalServerError, false, zapcore.ErrorLevel},
		{"/v1/invoices/render", http.StatusTooManyRequests, false, zapcore.WarnLevel},
		{"/v1/templates/:type", http.StatusNotFound, false, zapcore.InfoLevel},
		{"/v1/templates/:type", http.StatusNotFound, true, zapcore.WarnLevel},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, requestLevel(tc.route, tc.status, tc.debug), "%s %d", tc.route, tc.status)
	}
}

func TestGinMiddlewareLogsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{
		Logger: zap.New(core),
		ErrorClassifier: func(err error) (string, string) {
			return "server", "render_failed"
		},
	}))
	r.POST("/v1/invoices/render", func(c *gin.Context) {
		c.Set("render_format", "pdf")
		assert.Equal(t, "req-42", obscontext.RequestIDFromContext(c.Request.Context()))
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/invoices/render", nil)
	req.Header.Set(headerRequestID, "req-42")
	req.Header.Set(correlation.Header, "corr-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(headerRequestID))
	assert.Equal(t, "corr-42", rec.Header().Get(correlation.Header))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "http_request", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "/v1/invoices/render", fields["route"])
	assert.Equal(t, "pdf", fields["format"])
	assert.Equal(t, "render_failed", fields["error_code"])
	assert.Equal(t, "corr-42", fields["correlation_id"])
}
