package telemetry

import (
	"context"

	"github.com/smallbiznis/facture/pkg/telemetry/correlation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/sdk/trace"
)

// baggageKeys are copied from request baggage onto every span started under it.
var baggageKeys = []string{"request_id"}

// SpanStamper labels spans with the identifiers of the request that caused
// them, so a render span can be found from the id in an API response.
type SpanStamper struct{}

var _ trace.SpanProcessor = SpanStamper{}

// NewSpanStamper returns the processor registered on the tracer provider.
func NewSpanStamper() SpanStamper {
	return SpanStamper{}
}

func (SpanStamper) OnStart(ctx context.Context, s trace.ReadWriteSpan) {
	attrs := make([]attribute.KeyValue, 0, len(baggageKeys)+1)
	if id, ok := correlation.FromContext(ctx); ok {
		attrs = append(attrs, attribute.String("correlation_id", id))
	}
	bag := baggage.FromContext(ctx)
	for _, key := range baggageKeys {
		if v := bag.Member(key).Value(); v != "" {
			attrs = append(attrs, attribute.String(key, v))
		}
	}
	if len(attrs) > 0 {
		s.SetAttributes(attrs...)
	}
}

func (SpanStamper) OnEnd(trace.ReadOnlySpan) {}

func (SpanStamper) Shutdown(context.Context) error { return nil }

func (SpanStamper) ForceFlush(context.Context) error { return nil }
