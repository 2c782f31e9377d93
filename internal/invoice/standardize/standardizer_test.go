package standardize

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/smallbiznis/facture/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seller() domain.RawInput {
	return domain.RawInput{
		"name":       "Atelier Dupont SARL",
		"address":    "12 rue des Lilas",
		"postalCode": "69003",
		"city":       "Lyon",
		"country":    "fr",
		"siret":      "12345678900012",
	}
}

func buyer(country string) domain.RawInput {
	return domain.RawInput{
		"name":       "Boulangerie Martin",
		"address":    "3 place du Marché",
		"postalCode": "75011",
		"city":       "Paris",
		"country":    country,
	}
}

func invoiceWith(items ...any) domain.RawInput {
	return domain.RawInput{
		"id":      "F-2024-001",
		"date":    "2024-03-01",
		"dueDate": "2024-03-31",
		"items":   items,
	}
}

func consulting() map[string]any {
	return map[string]any{
		"description": "Consulting",
		"quantity":    10,
		"unitPrice":   150,
		"tvaRate":     20,
	}
}

func TestStandardizeConsultingScenario(t *testing.T) {
	data, err := Standardize(invoiceWith(consulting()), seller(), buyer("FR"))
	require.NoError(t, err)

	assert.Equal(t, 1500.00, data.Totals.Subtotal)
	assert.Equal(t, 300.00, data.Totals.TotalTVA)
	assert.Equal(t, 1800.00, data.Totals.Total)
	assert.Equal(t, 1500.00, data.Items[0].TotalPrice)
	assert.Equal(t, "unité", data.Items[0].Unit)

	assert.Equal(t, "FR", data.Company.Country)
	assert.Equal(t, "123456789", data.Company.SIREN)
	assert.Equal(t, domain.ClientTypeCompany, data.Client.Type)
	assert.True(t, data.Client.HasTVA)
	assert.Equal(t, "EUR", data.Invoice.Currency)
	assert.Equal(t, "draft", data.Invoice.Status)
	assert.Equal(t, "F-2024-001", data.Invoice.Number)
	assert.Equal(t, "2024-03-31", data.Invoice.DueDate)
	assert.Equal(t, []string{NoteLatePenalty, NoteRecoveryFee, NoteNoDiscount}, data.LegalNotes)
}

func TestStandardizeLineTotalsAddUpToSubtotal(t *testing.T) {
	half := map[string]any{"description": "Timbre", "quantity": 0.5, "unitPrice": 0.05, "tvaRate": 20}
	data, err := Standardize(invoiceWith(half, half), seller(), buyer("FR"))
	require.NoError(t, err)

	var sum float64
	for _, item := range data.Items {
		assert.Equal(t, 0.03, item.TotalPrice)
		sum += item.TotalPrice
	}
	assert.InDelta(t, sum, data.Totals.Subtotal, 1e-9)
	assert.Equal(t, 0.06, data.Totals.Subtotal)
}

func TestStandardizeZeroVATAddsExemptionClause(t *testing.T) {
	item := consulting()
	item["tvaRate"] = 0

	data, err := Standardize(invoiceWith(item), seller(), buyer("FR"))
	require.NoError(t, err)

	assert.Equal(t, 0.0, data.Totals.TotalTVA)
	assert.Contains(t, data.LegalNotes, "TVA non applicable, art. 293 B du CGI (régime de la franchise en base)")
}

func TestLegalNotesByCountry(t *testing.T) {
	vat := domain.Totals{TotalTVA: 10}
	noVAT := domain.Totals{}

	de := domain.Client{Company: domain.Company{Country: "DE"}}
	assert.Equal(t, []string{NotePaymentTermDE, NoteLateInterestDE}, LegalNotes(de, vat))
	assert.Equal(t, []string{NotePaymentTermDE, NoteLateInterestDE, NoteVATExemptDE}, LegalNotes(de, noVAT))

	be := domain.Client{Company: domain.Company{Country: "BE"}}
	notes := LegalNotes(be, vat)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
	assert.Equal(t, []string{NoteVATExemptFR}, LegalNotes(be, noVAT))
}

func TestStandardizeRejectsMissingItemFields(t *testing.T) {
	for _, field := range []string{"description", "quantity", "unitPrice", "tvaRate"} {
		t.Run(field, func(t *testing.T) {
			broken := consulting()
			delete(broken, field)

			_, err := Standardize(invoiceWith(consulting(), consulting(), broken), seller(), buyer("FR"))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
			assert.Contains(t, err.Error(), "items[2]."+field)

			vErr := domain.AsValidationError(err)
			require.NotNil(t, vErr)
			require.Len(t, vErr.Details, 1)
			require.NotNil(t, vErr.Details[0].Index)
			assert.Equal(t, 2, *vErr.Details[0].Index)
			assert.Equal(t, field, vErr.Details[0].Field)
			assert.Equal(t, domain.CodeRequired, vErr.Details[0].Code)
		})
	}
}

func TestStandardizeCollectsEveryError(t *testing.T) {
	user := seller()
	delete(user, "name")
	client := buyer("FR")
	client["city"] = "   "
	inv := invoiceWith(map[string]any{
		"description": "Audit",
		"quantity":    0,
		"unitPrice":   -5,
		"tvaRate":     120,
	})
	delete(inv, "dueDate")

	_, err := Standardize(inv, user, client)
	vErr := domain.AsValidationError(err)
	require.NotNil(t, vErr)

	paths := make([]string, 0, len(vErr.Details))
	for _, d := range vErr.Details {
		paths = append(paths, d.Path())
	}
	assert.ElementsMatch(t, []string{
		"company.name",
		"client.city",
		"invoice.dueDate",
		"items[0].quantity",
		"items[0].unitPrice",
		"items[0].tvaRate",
	}, paths)
}

func TestStandardizeItemsShape(t *testing.T) {
	tests := []struct {
		name  string
		items any
		path  string
	}{
		{name: "missing", items: nil, path: "invoice.items"},
		{name: "empty", items: []any{}, path: "invoice.items"},
		{name: "not a list", items: "Consulting", path: "invoice.items"},
		{name: "not an object", items: []any{"Consulting"}, path: "items[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := invoiceWith()
			inv["items"] = tt.items

			_, err := Standardize(inv, seller(), buyer("FR"))
			vErr := domain.AsValidationError(err)
			require.NotNil(t, vErr)
			require.Len(t, vErr.Details, 1)
			assert.Equal(t, tt.path, vErr.Details[0].Path())
		})
	}
}

func TestStandardizeCoercion(t *testing.T) {
	inv := invoiceWith(map[string]any{
		"description": "  Formation  ",
		"quantity":    "2",
		"unitPrice":   "99,90",
		"tvaRate":     "5.5",
		"totalPrice":  1e9,
	})
	inv["date"] = "01/03/2024"
	inv["dueDate"] = "2024-03-31T10:00:00Z"
	inv["currency"] = "chf"
	inv["discount"] = "10"
	client := buyer("Allemagne")
	client["hasTVA"] = "false"
	client["type"] = "FOREIGN"

	data, err := Standardize(inv, seller(), client)
	require.NoError(t, err)

	item := data.Items[0]
	assert.Equal(t, "Formation", item.Description)
	assert.Equal(t, 2.0, item.Quantity)
	assert.Equal(t, 99.9, item.UnitPrice)
	assert.Equal(t, 5.5, item.TVARate)
	assert.Equal(t, 199.8, item.TotalPrice)

	assert.Equal(t, "2024-03-01", data.Invoice.Date)
	assert.Equal(t, "2024-03-31", data.Invoice.DueDate)
	assert.Equal(t, "CHF", data.Invoice.Currency)
	assert.Equal(t, "DE", data.Client.Country)
	assert.False(t, data.Client.HasTVA)
	assert.Equal(t, domain.ClientTypeForeign, data.Client.Type)
	assert.Equal(t, 10.0, data.Totals.Discount)
	assert.InDelta(t, data.Totals.Subtotal+data.Totals.TotalTVA-10, data.Totals.Total, 1e-9)
}

func TestStandardizeRejectsInvalidValues(t *testing.T) {
	inv := invoiceWith(map[string]any{
		"description": "Audit",
		"quantity":    "beaucoup",
		"unitPrice":   math.NaN(),
		"tvaRate":     true,
	})
	inv["date"] = "demain"
	inv["discount"] = -3
	client := buyer("France métropolitaine")
	client["type"] = "robot"

	_, err := Standardize(inv, seller(), client)
	vErr := domain.AsValidationError(err)
	require.NotNil(t, vErr)

	codes := map[string]string{}
	for _, d := range vErr.Details {
		codes[d.Path()] = d.Code
	}
	assert.Equal(t, map[string]string{
		"client.country":     domain.CodeInvalidValue,
		"client.type":        domain.CodeInvalidValue,
		"invoice.date":       domain.CodeInvalidType,
		"invoice.discount":   domain.CodeOutOfRange,
		"items[0].quantity":  domain.CodeInvalidType,
		"items[0].unitPrice": domain.CodeInvalidType,
		"items[0].tvaRate":   domain.CodeInvalidType,
	}, codes)
}

func TestStandardizeRejectsDueDateBeforeIssue(t *testing.T) {
	inv := invoiceWith(consulting())
	inv["dueDate"] = "2024-02-01"

	_, err := Standardize(inv, seller(), buyer("FR"))
	vErr := domain.AsValidationError(err)
	require.NotNil(t, vErr)
	assert.Equal(t, "invoice.dueDate", vErr.Details[0].Path())
	assert.Equal(t, domain.CodeOutOfRange, vErr.Details[0].Code)
}

func TestStandardizeInvoiceNumberFallsBackToID(t *testing.T) {
	inv := invoiceWith(consulting())
	delete(inv, "id")
	inv["number"] = "2024-042"

	data, err := Standardize(inv, seller(), buyer("FR"))
	require.NoError(t, err)
	assert.Equal(t, "2024-042", data.Invoice.ID)
	assert.Equal(t, "2024-042", data.Invoice.Number)
}

func TestSafeStandardizeFillsPlaceholders(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 4, 0, 0, time.UTC)

	data := SafeStandardize(domain.RawInput{}, nil, domain.RawInput{"name": "ACME"}, now)

	assert.Equal(t, FallbackCompanyName, data.Company.Name)
	assert.Equal(t, FallbackCity, data.Company.City)
	assert.Equal(t, "ACME", data.Client.Name)
	assert.Equal(t, "FR", data.Client.Country)
	assert.Equal(t, "2024-05-10", data.Invoice.Date)
	assert.Equal(t, "2024-06-09", data.Invoice.DueDate)
	assert.Equal(t, "BROUILLON-20240510", data.Invoice.Number)
	require.Len(t, data.Items, 1)
	assert.Equal(t, FallbackItem, data.Items[0].Description)
	assert.Equal(t, 0.0, data.Totals.Total)
	assert.Contains(t, data.LegalNotes, NoteVATExemptFR)
}

func TestSafeStandardizeKeepsValidLines(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	broken := consulting()
	delete(broken, "quantity")

	data := SafeStandardize(invoiceWith(consulting(), broken), seller(), buyer("FR"), now)

	require.Len(t, data.Items, 1)
	assert.Equal(t, 1800.0, data.Totals.Total)
	assert.Equal(t, "Atelier Dupont SARL", data.Company.Name)
	assert.Equal(t, "2024-03-01", data.Invoice.Date)
}
