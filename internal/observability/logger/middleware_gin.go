package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/smallbiznis/facture/internal/observability/context"
	"github.com/smallbiznis/facture/pkg/telemetry/correlation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	headerRequestID = "X-Request-Id"
	renderPrefix    = "/v1/invoices/render"
)

// quietRoutes are polled by infrastructure and only logged at debug.
var quietRoutes = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// MiddlewareConfig controls request logging behavior.
type MiddlewareConfig struct {
	Debug bool
	// Logger defaults to the zap global.
	Logger *zap.Logger
	// ErrorClassifier maps the last handler error to (type, code) log fields.
	ErrorClassifier func(err error) (string, string)
}

// GinMiddleware seeds request, client and correlation ids on the request
// context, echoes them back as headers, and writes one line per request.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := requestIDFrom(c)
		ctx := obscontext.WithRequestID(c.Request.Context(), requestID)
		ctx = obscontext.WithClientIP(ctx, c.ClientIP())
		ctx, correlationID := correlation.FromHeader(ctx, c.Request.Header)
		c.Header(headerRequestID, requestID)
		c.Header(correlation.Header, correlationID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		route := strings.TrimSpace(c.FullPath())
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.Int64("bytes_in", max(c.Request.ContentLength, 0)),
			zap.Int("bytes_out", max(c.Writer.Size(), 0)),
		}
		if format := strings.TrimSpace(c.GetString("render_format")); format != "" {
			fields = append(fields, zap.String("format", format))
		}
		if lastErr := c.Errors.Last(); lastErr != nil {
			errorType, errorCode := "unclassified", lastErr.Err.Error()
			if cfg.ErrorClassifier != nil {
				errorType, errorCode = cfg.ErrorClassifier(lastErr.Err)
			}
			fields = append(fields,
				zap.String("error_type", errorType),
				zap.String("error_code", errorCode),
			)
		}

		base := cfg.Logger
		if base == nil {
			base = zap.L()
		}
		if ce := WithContext(ctx, base).Check(requestLevel(route, status, cfg.Debug), "http_request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func requestIDFrom(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(headerRequestID)); id != "" && len(id) <= 128 {
		c.Set("request_id", id)
		return id
	}
	id := uuid.NewString()
	c.Set("request_id", id)
	return id
}

// requestLevel picks the log level for a finished request. Rejected invoice
// data is routine for a render API and is kept out of warn.
func requestLevel(route string, status int, debug bool) zapcore.Level {
	if _, quiet := quietRoutes[route]; quiet {
		return zapcore.DebugLevel
	}
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status == http.StatusUnprocessableEntity && strings.HasPrefix(route, renderPrefix):
		return zapcore.DebugLevel
	case status == http.StatusTooManyRequests, status >= http.StatusBadRequest && debug:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
