// Package format renders amounts, rates and dates the way French invoices print them.
package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"CHF": "CHF",
}

// Money renders an amount with two decimals followed by the currency symbol,
// e.g. "1800.00 €". An empty currency means euros.
func Money(amount float64, currency string) string {
	return decimal.NewFromFloat(amount).StringFixed(2) + " " + symbol(currency)
}

// Euro is Money in euros.
func Euro(amount float64) string {
	return Money(amount, "EUR")
}

func symbol(currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = "EUR"
	}
	if s, ok := currencySymbols[code]; ok {
		return s
	}
	return code
}

// Rate renders a VAT percentage without trailing zeros: 20, 5.5, 2.1.
func Rate(rate float64) string {
	return decimal.NewFromFloat(rate).Round(2).String()
}

// Quantity renders a quantity without trailing zeros.
func Quantity(value float64) string {
	return decimal.NewFromFloat(value).Round(3).String()
}

// Date renders a date as DD/MM/YYYY. Zero dates render as "-".
func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("02/01/2006")
}

// ISODate parses a YYYY-MM-DD string and renders it as Date does.
func ISODate(value string) string {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		if value == "" {
			return "-"
		}
		return value
	}
	return Date(t)
}

// Timestamp renders a generation time as DD/MM/YYYY HH:MM UTC.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("02/01/2006 15:04") + " UTC"
}
