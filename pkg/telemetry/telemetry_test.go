package telemetry

import (
	"context"
	"testing"

	"github.com/smallbiznis/facture/pkg/telemetry/correlation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSpanStamperCopiesRequestIdentifiers(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewSpanStamper()),
		sdktrace.WithSpanProcessor(recorder),
	)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	member, err := baggage.NewMember("request_id", "req-1")
	require.NoError(t, err)
	bag, err := baggage.New(member)
	require.NoError(t, err)

	ctx := correlation.WithID(context.Background(), "01HZX")
	ctx = baggage.ContextWithBaggage(ctx, bag)

	_, span := provider.Tracer("test").Start(ctx, "invoice.render")
	span.End()
	_, bare := provider.Tracer("test").Start(context.Background(), "bare")
	bare.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.ElementsMatch(t, []attribute.KeyValue{
		attribute.String("correlation_id", "01HZX"),
		attribute.String("request_id", "req-1"),
	}, spans[0].Attributes())
	assert.Empty(t, spans[1].Attributes())
}
