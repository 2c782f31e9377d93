package render

import (
	"fmt"

	"github.com/smallbiznis/facture/internal/invoice/domain"
	"github.com/smallbiznis/facture/internal/invoice/format"
	templatedomain "github.com/smallbiznis/facture/internal/invoicetemplate/domain"
)

// Variant legal clauses.
const (
	ExemptTitle       = "Exonération de TVA"
	ExemptClause      = "TVA non applicable, art. 293 B du CGI."
	ExemptClauseExtra = "Les montants sont indiqués hors taxes, sans TVA collectée."

	SelfLiquidationTitle     = "Autoliquidation"
	SelfLiquidationClause    = "Autoliquidation : TVA due par le preneur (article 283-2 du CGI)"
	SelfLiquidationDirective = "Exonération de TVA, article 196 de la directive 2006/112/CE."
)

// VariantBlock is the legal block printed just before the legal notes.
type VariantBlock struct {
	Title   string
	Clauses []string
}

// VATLines returns the VAT rows of the totals box. Each row is one text node.
// Variant aliases are accepted; unknown keys print standard VAT.
func VATLines(variant templatedomain.Variant, totals domain.Totals, currency string) []string {
	switch templatedomain.ResolveVariant(string(variant)) {
	case templatedomain.VariantTVAExempt:
		return []string{"TVA: Exonéré"}
	case templatedomain.VariantSelfLiquidation:
		return []string{"TVA (Autoliquidation): " + format.Money(0, currency)}
	}

	if len(totals.TaxBreakdown) == 0 {
		return []string{"TVA: " + format.Money(totals.TotalTVA, currency)}
	}
	lines := make([]string, 0, len(totals.TaxBreakdown))
	for _, line := range totals.TaxBreakdown {
		lines = append(lines, fmt.Sprintf("TVA (%s%%): %s", format.Rate(line.Rate), format.Money(line.Amount, currency)))
	}
	return lines
}

// ItemRate is the text of the VAT column for one line.
func ItemRate(variant templatedomain.Variant, rate float64) string {
	switch templatedomain.ResolveVariant(string(variant)) {
	case templatedomain.VariantTVAExempt:
		return "Exonéré"
	case templatedomain.VariantSelfLiquidation:
		return "Autoliq."
	default:
		return format.Rate(rate) + " %"
	}
}

// VariantLegal returns nil for the standard variant.
func VariantLegal(variant templatedomain.Variant) *VariantBlock {
	switch templatedomain.ResolveVariant(string(variant)) {
	case templatedomain.VariantTVAExempt:
		return &VariantBlock{
			Title:   ExemptTitle,
			Clauses: []string{ExemptClause, ExemptClauseExtra},
		}
	case templatedomain.VariantSelfLiquidation:
		return &VariantBlock{
			Title:   SelfLiquidationTitle,
			Clauses: []string{SelfLiquidationClause, SelfLiquidationDirective},
		}
	default:
		return nil
	}
}
