package standardize

import (
	"time"

	"github.com/smallbiznis/facture/internal/invoice/domain"
	"github.com/smallbiznis/facture/internal/invoice/format"
)

// Placeholder values used by SafeStandardize.
const (
	FallbackCompanyName = "Demo Company"
	FallbackClientName  = "Client"
	FallbackAddress     = "1 rue de Rivoli"
	FallbackPostalCode  = "75001"
	FallbackCity        = "Paris"
	FallbackCountry     = "FR"
	FallbackItem        = "Article"
	fallbackDueDays     = 30
)

// SafeStandardize never fails. Invalid or missing values are replaced by
// placeholders, so the resulting document may look plausible while being
// wrong. Callers must report that it was used.
func SafeStandardize(invoice, user, client domain.RawInput, now time.Time) domain.CanonicalData {
	return defaultStandardizer.SafeStandardize(invoice, user, client, now)
}

func (s *Standardizer) SafeStandardize(invoice, user, client domain.RawInput, now time.Time) domain.CanonicalData {
	company := standardizeCompany(user, nil)
	fillParty(&company, FallbackCompanyName)

	buyer := standardizeClient(client, nil)
	fillParty(&buyer.Company, FallbackClientName)

	meta := standardizeInvoiceMeta(invoice, nil)
	today := dateOnly(now)
	if meta.IssuedOn.IsZero() {
		meta.IssuedOn = today
		meta.Date = today.Format(isoDate)
	}
	if meta.DueOn.IsZero() || meta.DueOn.Before(meta.IssuedOn) {
		meta.DueOn = meta.IssuedOn.AddDate(0, 0, fallbackDueDays)
		meta.DueDate = meta.DueOn.Format(isoDate)
	}
	if meta.ID == "" {
		meta.ID, _ = format.InvoiceNumber(format.DraftNumberTemplate, meta.IssuedOn, 1)
	}
	if meta.Number == "" {
		meta.Number = meta.ID
	}

	items := standardizeItems(invoice["items"], nil)
	if len(items) == 0 {
		items = []domain.LineItem{{
			Description: FallbackItem,
			Quantity:    1,
			Unit:        defaultUnit,
		}}
	}

	discount := readDiscount(newReader("invoice", invoice, nil))
	return s.assemble(company, buyer, meta, items, discount)
}

func fillParty(c *domain.Company, name string) {
	if c.Name == "" {
		c.Name = name
	}
	if c.Address == "" || c.PostalCode == "" || c.City == "" {
		c.Address = FallbackAddress
		c.PostalCode = FallbackPostalCode
		c.City = FallbackCity
	}
	if _, ok := normalizeCountry(c.Country); !ok {
		c.Country = FallbackCountry
	}
}
