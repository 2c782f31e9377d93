package tracing

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/facture/internal/observability/context"
	"github.com/smallbiznis/facture/pkg/telemetry/correlation"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "facture/http"

// untraced routes are scraped or polled too often to be worth a span.
var untraced = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// GinMiddleware opens one server span per request. The span is renamed to the
// matched route once the handler chain has run, and the trace context is
// echoed back so callers can correlate a rendered document with its trace.
func GinMiddleware() gin.HandlerFunc {
	tracer := otel.Tracer(tracerName)
	return func(c *gin.Context) {
		if _, skip := untraced[c.Request.URL.Path]; skip {
			c.Next()
			return
		}

		method := strings.ToUpper(c.Request.Method)
		ctx := ExtractContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, "HTTP "+method, trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		ctx = withRequestBaggage(ctx, span)
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(c.Writer.Header()))
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()
		span.SetName("HTTP " + method + " " + route)

		attrs := []attribute.KeyValue{
			attribute.String("http.method", method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		}
		if format := strings.TrimSpace(c.GetString("render_format")); format != "" {
			attrs = append(attrs, attribute.String("facture.format", format))
		}
		span.SetAttributes(SafeAttributes(attrs...)...)

		endSpan(span, c, status)
	}
}

func withRequestBaggage(ctx context.Context, span trace.Span) context.Context {
	members := make([]baggage.Member, 0, 2)
	if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
		if m, err := baggage.NewMember("request_id", requestID); err == nil {
			members = append(members, m)
		}
	}
	if correlationID, ok := correlation.FromContext(ctx); ok {
		if m, err := baggage.NewMember("correlation_id", correlationID); err == nil {
			members = append(members, m)
		}
	}
	if len(members) == 0 {
		return ctx
	}
	bag, err := baggage.New(members...)
	if err != nil {
		return ctx
	}
	return baggage.ContextWithBaggage(ctx, bag)
}

func endSpan(span trace.Span, c *gin.Context, status int) {
	if status < http.StatusInternalServerError {
		return
	}
	if lastErr := c.Errors.Last(); lastErr != nil {
		if safeErr := SafeError(lastErr.Err); safeErr != nil {
			span.RecordError(safeErr)
		}
	}
	span.SetStatus(codes.Error, http.StatusText(status))
}
