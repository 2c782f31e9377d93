package domain

import invoicedomain "github.com/smallbiznis/facture/internal/invoice/domain"

// Calculator computes invoice totals from validated lines.
type Calculator interface {
	ComputeTotals(items []invoicedomain.LineItem, discount float64) invoicedomain.Totals
}
