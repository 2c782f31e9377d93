package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/smallbiznis/facture/internal/invoice/domain"
	templatedomain "github.com/smallbiznis/facture/internal/invoicetemplate/domain"
	taxservice "github.com/smallbiznis/facture/internal/tax/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument(variant templatedomain.Variant) Document {
	items := []domain.LineItem{{Description: "Consulting", Quantity: 10, UnitPrice: 150, TVARate: 20, Unit: "jour", TotalPrice: 1500}}
	return Document{
		Data: domain.CanonicalData{
			Company:    domain.Company{Name: "Atelier Dupont SARL", Address: "12 rue des Lilas", PostalCode: "69003", City: "Lyon", Country: "FR", IBAN: "FR7630006000011234567890189"},
			Client:     domain.Client{Company: domain.Company{Name: "Boulangerie Martin", Address: "3 place du Marché", PostalCode: "75011", City: "Paris", Country: "FR"}},
			Invoice:    domain.InvoiceMeta{ID: "F-1", Number: "F-1", Date: "2024-03-01", DueDate: "2024-03-31", Currency: "EUR"},
			Items:      items,
			Totals:     taxservice.ComputeTotals(items, 0),
			LegalNotes: []string{"Aucun escompte n'est accordé en cas de paiement anticipé."},
		},
		Variant: variant,
		Options: A4(),
	}
}

func TestMarotoEngineRendersEveryVariant(t *testing.T) {
	engine := NewMarotoEngine()
	for _, variant := range templatedomain.Variants {
		buf, err := engine.Render(context.Background(), sampleDocument(variant))
		require.NoError(t, err, variant)
		assert.True(t, bytes.HasPrefix(buf, []byte("%PDF")), variant)
	}
	assert.Equal(t, EngineMaroto, engine.Name())
	assert.NoError(t, engine.Close(context.Background()))
}

func TestMarotoEngineHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMarotoEngine().Render(ctx, sampleDocument(templatedomain.VariantFrenchStandard))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestA4Options(t *testing.T) {
	opts := A4()
	assert.Equal(t, 8.27, opts.PaperWidthIn)
	assert.Equal(t, 11.69, opts.PaperHeightIn)
	assert.True(t, opts.PrintBackground)
	assert.InDelta(t, 0.787, opts.MarginIn(), 0.001)
}

func TestChromiumEngineClosedRejectsRenders(t *testing.T) {
	engine := NewChromiumEngine(ChromiumConfig{MaxConcurrent: 2}, nil)
	require.NoError(t, engine.Close(context.Background()))
	require.NoError(t, engine.Close(context.Background()))

	_, err := engine.Render(context.Background(), sampleDocument(templatedomain.VariantFrenchStandard))
	assert.ErrorIs(t, err, ErrEngineClosed)
	assert.Zero(t, engine.InFlight())
}

func TestChromiumEngineAcquireRespectsContext(t *testing.T) {
	engine := NewChromiumEngine(ChromiumConfig{MaxConcurrent: 1}, nil)
	require.NoError(t, engine.sem.Acquire(context.Background(), 1))
	defer engine.sem.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := engine.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
