package service

import (
	"math"
	"sort"

	invoicedomain "github.com/smallbiznis/facture/internal/invoice/domain"
	taxdomain "github.com/smallbiznis/facture/internal/tax/domain"
)

type calculator struct{}

// NewCalculator returns the VAT totals calculator.
func NewCalculator() taxdomain.Calculator {
	return calculator{}
}

func (calculator) ComputeTotals(items []invoicedomain.LineItem, discount float64) invoicedomain.Totals {
	return ComputeTotals(items, discount)
}

// Round2 rounds to cents, half away from zero on the float value.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// LineTotal is the pre-tax amount of one line.
func LineTotal(quantity, unitPrice float64) float64 {
	return Round2(quantity * unitPrice)
}

// ComputeTotals derives subtotal, VAT and total purely from the given lines.
// Each line is rounded to cents with LineTotal, so the subtotal is the sum of
// the printed line totals. VAT is computed on those rounded bases and rounded
// once per aggregate.
func ComputeTotals(items []invoicedomain.LineItem, discount float64) invoicedomain.Totals {
	if math.IsNaN(discount) || math.IsInf(discount, 0) || discount < 0 {
		discount = 0
	}

	var subtotal, tva float64
	bases := map[float64]float64{}
	amounts := map[float64]float64{}
	for _, item := range items {
		line := LineTotal(item.Quantity, item.UnitPrice)
		lineTax := line * item.TVARate / 100
		subtotal += line
		tva += lineTax
		bases[item.TVARate] += line
		amounts[item.TVARate] += lineTax
	}

	rates := make([]float64, 0, len(bases))
	for rate := range bases {
		rates = append(rates, rate)
	}
	sort.Float64s(rates)

	breakdown := make([]invoicedomain.TaxLine, 0, len(rates))
	for _, rate := range rates {
		breakdown = append(breakdown, invoicedomain.TaxLine{
			Rate:   rate,
			Base:   Round2(bases[rate]),
			Amount: Round2(amounts[rate]),
		})
	}

	subtotal = Round2(subtotal)
	tva = Round2(tva)
	discount = Round2(discount)

	return invoicedomain.Totals{
		Subtotal:     subtotal,
		TotalTVA:     tva,
		Discount:     discount,
		Total:        Round2(subtotal + tva - discount),
		TaxBreakdown: breakdown,
	}
}

// RegimeFor reports how VAT is displayed for the given totals. The variant
// specific regimes are chosen by the template, not by the amounts.
func RegimeFor(totals invoicedomain.Totals) taxdomain.Regime {
	if totals.TotalTVA == 0 {
		return taxdomain.RegimeExempt
	}
	for _, line := range totals.TaxBreakdown {
		if line.Amount != 0 && line.Rate >= taxdomain.RateStandard {
			return taxdomain.RegimeStandard
		}
	}
	return taxdomain.RegimeReduced
}
