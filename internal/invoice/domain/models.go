// Package domain contains the canonical invoice model shared by the rendering pipeline.
package domain

import "time"

// ClientType distinguishes the kind of buyer an invoice is addressed to.
type ClientType string

const (
	ClientTypeIndividual ClientType = "individual"
	ClientTypeCompany    ClientType = "company"
	ClientTypeForeign    ClientType = "foreign"
)

// DefaultCurrency is applied when the invoice does not name one.
const DefaultCurrency = "EUR"

// Company is the seller issuing the invoice.
type Company struct {
	Name            string `json:"name"`
	Address         string `json:"address"`
	PostalCode      string `json:"postalCode"`
	City            string `json:"city"`
	Country         string `json:"country"`
	LegalForm       string `json:"legalForm,omitempty"`
	VATNumber       string `json:"vatNumber,omitempty"`
	SIRET           string `json:"siret,omitempty"`
	SIREN           string `json:"siren,omitempty"`
	Capital         string `json:"capital,omitempty"`
	RCS             string `json:"rcs,omitempty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Website         string `json:"website,omitempty"`
	IBAN            string `json:"iban,omitempty"`
	BIC             string `json:"bic,omitempty"`
	BankName        string `json:"bankName,omitempty"`
	InsuranceName   string `json:"insuranceName,omitempty"`
	InsurancePolicy string `json:"insurancePolicy,omitempty"`
}

// Client is the buyer. It shares the company shape plus buyer-specific flags.
type Client struct {
	Company
	Type   ClientType `json:"type"`
	HasTVA bool       `json:"hasTVA"`
}

// InvoiceMeta carries the document identity and dates.
type InvoiceMeta struct {
	ID            string    `json:"id"`
	Number        string    `json:"number"`
	Date          string    `json:"date"`
	DueDate       string    `json:"dueDate"`
	IssuedOn      time.Time `json:"-"`
	DueOn         time.Time `json:"-"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	PaymentTerms  string    `json:"paymentTerms,omitempty"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
}

// LineItem is a validated invoice line. TotalPrice is always derived.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TVARate     float64 `json:"tvaRate"`
	Unit        string  `json:"unit,omitempty"`
	TotalPrice  float64 `json:"totalPrice"`
}

// TaxLine is the VAT due for one rate.
type TaxLine struct {
	Rate   float64 `json:"rate"`
	Base   float64 `json:"base"`
	Amount float64 `json:"amount"`
}

// Totals are recomputed from validated items and never taken from the caller.
type Totals struct {
	Subtotal     float64   `json:"subtotal"`
	TotalTVA     float64   `json:"totalTVA"`
	Discount     float64   `json:"discount"`
	Total        float64   `json:"total"`
	TaxBreakdown []TaxLine `json:"taxBreakdown"`
}

// CanonicalData is the normalized record every renderer consumes.
type CanonicalData struct {
	Company    Company     `json:"company"`
	Client     Client      `json:"client"`
	Invoice    InvoiceMeta `json:"invoice"`
	Items      []LineItem  `json:"items"`
	Totals     Totals      `json:"totals"`
	LegalNotes []string    `json:"legalNotes"`
}

// RawInput is one decoded JSON object as supplied by the caller.
type RawInput map[string]any
