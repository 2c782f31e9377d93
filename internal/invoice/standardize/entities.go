package standardize

import (
	"strings"

	"github.com/smallbiznis/facture/internal/invoice/domain"
	taxdomain "github.com/smallbiznis/facture/internal/tax/domain"
)

const (
	defaultStatus = "draft"
	defaultUnit   = "unité"
)

var countryNames = map[string]string{
	"FRANCE":      "FR",
	"ALLEMAGNE":   "DE",
	"GERMANY":     "DE",
	"DEUTSCHLAND": "DE",
	"BELGIQUE":    "BE",
	"BELGIUM":     "BE",
	"SUISSE":      "CH",
	"SWITZERLAND": "CH",
	"ESPAGNE":     "ES",
	"SPAIN":       "ES",
	"ITALIE":      "IT",
	"ITALY":       "IT",
	"LUXEMBOURG":  "LU",
}

func normalizeCountry(raw string) (string, bool) {
	upper := strings.ToUpper(strings.TrimSpace(raw))
	if code, ok := countryNames[upper]; ok {
		return code, true
	}
	if len(upper) != 2 {
		return upper, false
	}
	for _, c := range upper {
		if c < 'A' || c > 'Z' {
			return upper, false
		}
	}
	return upper, true
}

func readCompany(r fieldReader) domain.Company {
	company := domain.Company{
		Name:            r.requiredString("name", "companyName"),
		Address:         r.requiredString("address"),
		PostalCode:      r.requiredString("postalCode", "zipCode"),
		City:            r.requiredString("city"),
		LegalForm:       r.optionalString("legalForm", ""),
		VATNumber:       r.optionalString("vatNumber", "", "tvaNumber"),
		SIRET:           r.optionalString("siret", ""),
		SIREN:           r.optionalString("siren", ""),
		Capital:         r.optionalString("capital", ""),
		RCS:             r.optionalString("rcs", ""),
		Email:           r.optionalString("email", ""),
		Phone:           r.optionalString("phone", ""),
		Website:         r.optionalString("website", ""),
		IBAN:            r.optionalString("iban", ""),
		BIC:             r.optionalString("bic", ""),
		BankName:        r.optionalString("bankName", ""),
		InsuranceName:   r.optionalString("insuranceName", ""),
		InsurancePolicy: r.optionalString("insurancePolicy", ""),
	}
	if country := r.requiredString("country"); country != "" {
		code, ok := normalizeCountry(country)
		if !ok {
			r.fail("country", domain.CodeInvalidValue, "code pays ISO à deux lettres attendu")
		}
		company.Country = code
	}
	if company.SIREN == "" && len(company.SIRET) == 14 {
		company.SIREN = company.SIRET[:9]
	}
	return company
}

// standardizeCompany validates the seller.
func standardizeCompany(raw domain.RawInput, errs *domain.ValidationError) domain.Company {
	return readCompany(newReader("company", raw, errs))
}

// standardizeClient validates the buyer.
func standardizeClient(raw domain.RawInput, errs *domain.ValidationError) domain.Client {
	r := newReader("client", raw, errs)
	client := domain.Client{
		Company: readCompany(r),
		Type:    domain.ClientTypeCompany,
		HasTVA:  r.optionalBool("hasTVA", true),
	}
	if kind := r.optionalString("type", ""); kind != "" {
		switch t := domain.ClientType(strings.ToLower(kind)); t {
		case domain.ClientTypeIndividual, domain.ClientTypeCompany, domain.ClientTypeForeign:
			client.Type = t
		default:
			r.fail("type", domain.CodeInvalidValue, "type attendu : individual, company ou foreign")
		}
	}
	return client
}

// standardizeInvoiceMeta validates the document identity and dates.
func standardizeInvoiceMeta(raw domain.RawInput, errs *domain.ValidationError) domain.InvoiceMeta {
	r := newReader("invoice", raw, errs)
	meta := domain.InvoiceMeta{
		Currency:      strings.ToUpper(r.optionalString("currency", domain.DefaultCurrency)),
		Status:        strings.ToLower(r.optionalString("status", defaultStatus)),
		Notes:         r.optionalString("notes", ""),
		PaymentTerms:  r.optionalString("paymentTerms", ""),
		PaymentMethod: r.optionalString("paymentMethod", ""),
	}
	meta.ID = r.requiredString("id", "number")
	meta.Number = r.optionalString("number", meta.ID)

	if issued, ok := r.requiredDate("date"); ok {
		meta.IssuedOn = issued
		meta.Date = issued.Format(isoDate)
	}
	if due, ok := r.requiredDate("dueDate"); ok {
		meta.DueOn = due
		meta.DueDate = due.Format(isoDate)
	}
	if !meta.IssuedOn.IsZero() && !meta.DueOn.IsZero() && meta.DueOn.Before(meta.IssuedOn) {
		r.fail("dueDate", domain.CodeOutOfRange, "la date d'échéance précède la date d'émission")
	}
	return meta
}

// standardizeItems validates every line. Errors carry the item index.
func standardizeItems(raw any, errs *domain.ValidationError) []domain.LineItem {
	list, ok := asList(raw)
	if !ok || len(list) == 0 {
		newReader("invoice", nil, errs).fail("items", domain.CodeRequired, "au moins une ligne de facture est requise")
		return []domain.LineItem{}
	}

	items := make([]domain.LineItem, 0, len(list))
	base := newReader("items", nil, errs)
	for i, element := range list {
		obj, isObject := asObject(element)
		r := base.at(i)
		if !isObject {
			r.fail("", domain.CodeInvalidType, "objet attendu")
			continue
		}
		r.src = obj
		if item, valid := readItem(r); valid {
			items = append(items, item)
		}
	}
	return items
}

func readItem(r fieldReader) (domain.LineItem, bool) {
	valid := true
	item := domain.LineItem{
		Description: r.requiredString("description"),
		Unit:        r.optionalString("unit", defaultUnit),
	}
	if item.Description == "" {
		valid = false
	}

	if quantity, ok := r.requiredNumber("quantity"); !ok {
		valid = false
	} else if quantity <= 0 {
		r.fail("quantity", domain.CodeOutOfRange, "la quantité doit être strictement positive")
		valid = false
	} else {
		item.Quantity = quantity
	}

	if price, ok := r.requiredNumber("unitPrice"); !ok {
		valid = false
	} else if price < 0 {
		r.fail("unitPrice", domain.CodeOutOfRange, "le prix unitaire ne peut pas être négatif")
		valid = false
	} else {
		item.UnitPrice = price
	}

	if rate, ok := r.requiredNumber("tvaRate"); !ok {
		valid = false
	} else if err := taxdomain.ValidateRate(rate); err != nil {
		r.fail("tvaRate", domain.CodeOutOfRange, "le taux de TVA doit être compris entre 0 et 100")
		valid = false
	} else {
		item.TVARate = rate
	}

	return item, valid
}

func asList(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, true
	case []domain.RawInput:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, true
	default:
		return nil, false
	}
}

func asObject(raw any) (domain.RawInput, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return v, true
	case domain.RawInput:
		return v, true
	default:
		return nil, false
	}
}
