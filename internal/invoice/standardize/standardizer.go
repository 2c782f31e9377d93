// Package standardize turns raw caller input into the canonical invoice record.
package standardize

import (
	"github.com/smallbiznis/facture/internal/invoice/domain"
	taxdomain "github.com/smallbiznis/facture/internal/tax/domain"
	taxservice "github.com/smallbiznis/facture/internal/tax/service"
)

// Standardizer validates raw input and computes totals.
type Standardizer struct {
	calc taxdomain.Calculator
}

// New returns a Standardizer. A nil calculator selects the default one.
func New(calc taxdomain.Calculator) *Standardizer {
	if calc == nil {
		calc = taxservice.NewCalculator()
	}
	return &Standardizer{calc: calc}
}

var defaultStandardizer = New(nil)

// Standardize validates with the default calculator.
func Standardize(invoice, user, client domain.RawInput) (domain.CanonicalData, error) {
	return defaultStandardizer.Standardize(invoice, user, client)
}

// Standardize validates every entity and returns all rejected fields at once
// as a *domain.ValidationError. No partial record is returned on failure.
func (s *Standardizer) Standardize(invoice, user, client domain.RawInput) (domain.CanonicalData, error) {
	errs := &domain.ValidationError{}

	company := standardizeCompany(user, errs)
	buyer := standardizeClient(client, errs)
	meta := standardizeInvoiceMeta(invoice, errs)
	items := standardizeItems(invoice["items"], errs)
	discount := readDiscount(newReader("invoice", invoice, errs))

	if err := errs.Err(); err != nil {
		return domain.CanonicalData{}, err
	}
	return s.assemble(company, buyer, meta, items, discount), nil
}

func (s *Standardizer) assemble(company domain.Company, client domain.Client, meta domain.InvoiceMeta, items []domain.LineItem, discount float64) domain.CanonicalData {
	for i := range items {
		items[i].TotalPrice = taxservice.LineTotal(items[i].Quantity, items[i].UnitPrice)
	}
	totals := s.calc.ComputeTotals(items, discount)
	return domain.CanonicalData{
		Company:    company,
		Client:     client,
		Invoice:    meta,
		Items:      items,
		Totals:     totals,
		LegalNotes: LegalNotes(client, totals),
	}
}

func readDiscount(r fieldReader) float64 {
	discount, ok := r.optionalNumber("discount", 0)
	if !ok {
		return 0
	}
	if discount < 0 {
		r.fail("discount", domain.CodeOutOfRange, "la remise ne peut pas être négative")
		return 0
	}
	return discount
}
