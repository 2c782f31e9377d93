package adapter

import (
	"context"
	"time"

	"github.com/smallbiznis/facture/internal/invoice/domain"
	"github.com/smallbiznis/facture/internal/invoice/render"
	templatedomain "github.com/smallbiznis/facture/internal/invoicetemplate/domain"
)

// HTML renders the bare document, as used by previews.
func (a *Adapter) HTML(ctx context.Context, data domain.CanonicalData, variant templatedomain.Variant, profile render.Profile) (string, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return "", time.Time{}, err
	}
	generatedAt := a.clock.Now()
	html, err := a.renderHTML(data, variant, profile, generatedAt)
	return html, generatedAt, err
}

func (a *Adapter) renderHTML(data domain.CanonicalData, variant templatedomain.Variant, profile render.Profile, generatedAt time.Time) (string, error) {
	if a.renderer == nil {
		return "", domain.ErrRendererNotConfigured
	}
	cfg := a.rendering.Get()
	return a.renderer.RenderHTML(render.RenderInput{
		Data:    data,
		Variant: variant,
		Profile: profile,
		Style: render.Style{
			PrimaryColor: cfg.Style.PrimaryColor,
			FontFamily:   cfg.Style.FontFamily,
		},
		FooterNotes: cfg.Footer.Notes,
		GeneratedAt: generatedAt,
	})
}
