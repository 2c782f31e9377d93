package adapter

import (
	"context"
	"time"

	"github.com/smallbiznis/facture/internal/invoice/domain"
	"github.com/smallbiznis/facture/internal/invoice/render"
	templatedomain "github.com/smallbiznis/facture/internal/invoicetemplate/domain"
)

const (
	PrintFormat      = "A4"
	PrintOrientation = "portrait"
)

type PrintResult struct {
	HTML        string
	Format      string
	Orientation string
	Styles      string
	GeneratedAt time.Time
}

// Print renders the print profile of the document.
func (a *Adapter) Print(ctx context.Context, data domain.CanonicalData, variant templatedomain.Variant) (PrintResult, error) {
	if err := ctx.Err(); err != nil {
		return PrintResult{}, err
	}
	generatedAt := a.clock.Now()
	html, err := a.renderHTML(data, variant, render.ProfilePrint, generatedAt)
	if err != nil {
		return PrintResult{}, err
	}
	return PrintResult{
		HTML:        html,
		Format:      PrintFormat,
		Orientation: PrintOrientation,
		Styles:      render.PrintStyles,
		GeneratedAt: generatedAt,
	}, nil
}
