package adapter_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/smallbiznis/facture/internal/cache"
	"github.com/smallbiznis/facture/internal/clock"
	"github.com/smallbiznis/facture/internal/config"
	"github.com/smallbiznis/facture/internal/invoice/adapter"
	"github.com/smallbiznis/facture/internal/invoice/domain"
	"github.com/smallbiznis/facture/internal/invoice/render"
	templatedomain "github.com/smallbiznis/facture/internal/invoicetemplate/domain"
	"github.com/smallbiznis/facture/internal/providers/pdf"
	"github.com/smallbiznis/facture/internal/providers/pdf/mocks"
	taxservice "github.com/smallbiznis/facture/internal/tax/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func canonical() domain.CanonicalData {
	items := []domain.LineItem{
		{Description: "Consulting", Quantity: 10, UnitPrice: 150, TVARate: 20, Unit: "jour", TotalPrice: 1500},
		{Description: "Livre technique", Quantity: 2, UnitPrice: 40, TVARate: 5.5, Unit: "unité", TotalPrice: 80},
	}
	return domain.CanonicalData{
		Company: domain.Company{Name: "Atelier Dupont SARL", Address: "12 rue des Lilas", PostalCode: "69003", City: "Lyon", Country: "FR"},
		Client: domain.Client{
			Company: domain.Company{Name: "Boulangerie Martin & Fils", Address: "3 place du Marché", PostalCode: "75011", City: "Paris", Country: "FR"},
			Type:    domain.ClientTypeCompany,
			HasTVA:  true,
		},
		Invoice: domain.InvoiceMeta{
			ID: "F-2024-001", Number: "F-2024-001", Date: "2024-03-01", DueDate: "2024-03-31",
			Currency: "EUR", Status: "draft",
		},
		Items:      items,
		Totals:     taxservice.ComputeTotals(items, 0),
		LegalNotes: []string{},
	}
}

func newAdapter(t *testing.T, engine pdf.Engine, renderCache cache.RenderCache) *adapter.Adapter {
	t.Helper()
	return adapter.New(adapter.Params{
		Renderer:  render.NewRenderer(),
		Engine:    engine,
		Rendering: config.NewStaticRenderingConfigHolder(config.DefaultRenderingConfig()),
		Clock:     clock.NewFakeClock(fixedNow),
		Cache:     renderCache,
	})
}

func TestEmailSubjectAndText(t *testing.T) {
	a := newAdapter(t, nil, nil)

	res, err := a.Email(context.Background(), canonical(), templatedomain.VariantFrenchStandard)
	require.NoError(t, err)

	assert.Equal(t, "Facture F-2024-001 - Atelier Dupont SARL", res.Subject)
	assert.Equal(t, fixedNow, res.GeneratedAt)
	assert.Contains(t, res.HTML, "<html")
	assert.Contains(t, res.Text, "Consulting")
	assert.Contains(t, res.Text, "Livre technique")
	assert.Contains(t, res.Text, "1884.40 €")
	assert.Contains(t, res.Text, "Boulangerie Martin & Fils")
	assert.NotContains(t, res.Text, "<")
	assert.NotContains(t, res.Text, "page-break-inside")
	assert.NotContains(t, res.Text, "\n\n\n")
}

func TestSubjectPlaceholders(t *testing.T) {
	data := canonical()
	assert.Equal(t, "Facture F-2024-001 - Atelier Dupont SARL", adapter.Subject("", data))
	assert.Equal(t, "Boulangerie Martin & Fils doit 1884.40 €", adapter.Subject("{client} doit {total}", data))
}

func TestHTMLToText(t *testing.T) {
	doc := `<html><head><title>x</title><style>p { color: red; }</style></head>
<body><div>Ligne&nbsp;1<br>Ligne 2</div><p>Total&nbsp;: 10.00 &euro;</p>


<table><tr><td>A</td><td>B</td></tr></table></body></html>`

	text := adapter.HTMLToText(doc)
	assert.Equal(t, "Ligne 1\nLigne 2\nTotal : 10.00 €\n\nA B", text)
}

func TestHTMLToTextBlockBreaks(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"<p>A</p><p>B</p>", "A\n\nB"},
		{"<P>A</P >B", "A\n\nB"},
		{"<div>A</div><div>B</div>", "A\nB"},
		{"A<br/>B<br>C", "A\nB\nC"},
		{"<p>A</p>\n\n\n<p>B</p>", "A\n\nB"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, adapter.HTMLToText(tc.in), tc.in)
	}
}

func TestPrintResult(t *testing.T) {
	a := newAdapter(t, nil, nil)

	res, err := a.Print(context.Background(), canonical(), templatedomain.VariantTVAExempt)
	require.NoError(t, err)
	assert.Equal(t, "A4", res.Format)
	assert.Equal(t, "portrait", res.Orientation)
	assert.Equal(t, render.PrintStyles, res.Styles)
	assert.Contains(t, res.HTML, "@page")
	assert.Contains(t, res.HTML, "TVA: Exonéré")
}

func TestPDFUsesEngineAndCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	engine.EXPECT().Name().Return("maroto").AnyTimes()
	engine.EXPECT().Render(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, doc pdf.Document) ([]byte, error) {
		assert.Equal(t, pdf.A4(), doc.Options)
		assert.Equal(t, templatedomain.VariantSelfLiquidation, doc.Variant)
		assert.Contains(t, doc.HTML, "Autoliquidation")
		return []byte("%PDF-1.7 test"), nil
	}).Times(1)

	a := newAdapter(t, engine, cache.NewMemoryCache(time.Minute))

	first, err := a.PDF(context.Background(), canonical(), templatedomain.VariantSelfLiquidation)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.7 test"), first.Buffer)
	assert.Equal(t, "maroto", first.Engine)
	assert.Equal(t, "facture-f-2024-001.pdf", first.FileName)
	assert.False(t, first.Cached)

	second, err := a.PDF(context.Background(), canonical(), templatedomain.VariantSelfLiquidation)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Buffer, second.Buffer)
}

func TestPDFEngineFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	engine.EXPECT().Name().Return("chromium").AnyTimes()
	engine.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil, errors.New("browser crashed"))

	a := newAdapter(t, engine, nil)
	_, err := a.PDF(context.Background(), canonical(), templatedomain.VariantFrenchStandard)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRenderFailed)
	assert.True(t, strings.Contains(err.Error(), "browser crashed"))
}

func TestPDFEmptyOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(ctrl)
	engine.EXPECT().Name().Return("chromium").AnyTimes()
	engine.EXPECT().Render(gomock.Any(), gomock.Any()).Return(nil, nil)

	a := newAdapter(t, engine, nil)
	_, err := a.PDF(context.Background(), canonical(), templatedomain.VariantFrenchStandard)
	assert.ErrorIs(t, err, pdf.ErrEmptyOutput)
}

func TestPDFWithoutEngine(t *testing.T) {
	a := newAdapter(t, nil, nil)
	_, err := a.PDF(context.Background(), canonical(), templatedomain.VariantFrenchStandard)
	assert.ErrorIs(t, err, domain.ErrRendererNotConfigured)
}

func TestAdaptersHonourCancelledContext(t *testing.T) {
	a := newAdapter(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Email(ctx, canonical(), templatedomain.VariantFrenchStandard)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = a.Print(ctx, canonical(), templatedomain.VariantFrenchStandard)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "facture-f-2024-0001.pdf", adapter.FileName("F-2024-0001"))
	assert.Equal(t, "facture.pdf", adapter.FileName("  "))
}
