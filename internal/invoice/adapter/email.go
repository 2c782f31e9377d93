package adapter

import (
	"context"
	"strings"
	"time"

	"github.com/smallbiznis/facture/internal/config"
	"github.com/smallbiznis/facture/internal/invoice/domain"
	"github.com/smallbiznis/facture/internal/invoice/format"
	"github.com/smallbiznis/facture/internal/invoice/render"
	templatedomain "github.com/smallbiznis/facture/internal/invoicetemplate/domain"
)

type EmailResult struct {
	Subject     string
	HTML        string
	Text        string
	GeneratedAt time.Time
}

// Email renders the screen document plus its plain-text alternative.
func (a *Adapter) Email(ctx context.Context, data domain.CanonicalData, variant templatedomain.Variant) (EmailResult, error) {
	if err := ctx.Err(); err != nil {
		return EmailResult{}, err
	}
	generatedAt := a.clock.Now()
	html, err := a.renderHTML(data, variant, render.ProfileScreen, generatedAt)
	if err != nil {
		return EmailResult{}, err
	}
	return EmailResult{
		Subject:     Subject(a.rendering.Get().Email.Subject, data),
		HTML:        html,
		Text:        HTMLToText(html),
		GeneratedAt: generatedAt,
	}, nil
}

// Subject expands {number}, {company}, {client} and {total} in pattern.
func Subject(pattern string, data domain.CanonicalData) string {
	if strings.TrimSpace(pattern) == "" {
		pattern = config.DefaultEmailSubject
	}
	replacer := strings.NewReplacer(
		"{number}", data.Invoice.Number,
		"{company}", data.Company.Name,
		"{client}", data.Client.Name,
		"{total}", format.Money(data.Totals.Total, data.Invoice.Currency),
	)
	return strings.TrimSpace(replacer.Replace(pattern))
}
