// Package domain defines the closed set of invoice template variants.
package domain

import (
	"strings"

	taxdomain "github.com/smallbiznis/facture/internal/tax/domain"
)

// Variant selects the legal presentation of VAT on the document.
type Variant string

const (
	VariantFrenchStandard  Variant = "french-standard"
	VariantTVAExempt       Variant = "tva-exempt"
	VariantSelfLiquidation Variant = "self-liquidation"
)

// DefaultVariant is used whenever a caller names a template we do not know.
const DefaultVariant = VariantFrenchStandard

// Variants lists every known variant in catalogue order.
var Variants = []Variant{VariantFrenchStandard, VariantTVAExempt, VariantSelfLiquidation}

var aliases = map[string]Variant{
	"french-standard":  VariantFrenchStandard,
	"standard":         VariantFrenchStandard,
	"tva-exempt":       VariantTVAExempt,
	"vat-exempt":       VariantTVAExempt,
	"exempt":           VariantTVAExempt,
	"self-liquidation": VariantSelfLiquidation,
	"auto-liquidation": VariantSelfLiquidation,
	"autoliquidation":  VariantSelfLiquidation,
	"reverse-charge":   VariantSelfLiquidation,
}

// ParseVariant is the strict lookup. Aliases are accepted, case-insensitively.
func ParseVariant(raw string) (Variant, bool) {
	v, ok := aliases[strings.ToLower(strings.TrimSpace(raw))]
	return v, ok
}

// ResolveVariant never fails: unknown keys degrade to DefaultVariant. Existing
// callers rely on this, so it must stay silent.
func ResolveVariant(raw string) Variant {
	if v, ok := ParseVariant(raw); ok {
		return v
	}
	return DefaultVariant
}

func (v Variant) String() string { return string(v) }

// Regime is the VAT regime the variant prints.
func (v Variant) Regime() taxdomain.Regime {
	switch v {
	case VariantTVAExempt:
		return taxdomain.RegimeExempt
	case VariantSelfLiquidation:
		return taxdomain.RegimeAutoliquidation
	default:
		return taxdomain.RegimeStandard
	}
}

// Descriptor is the catalogue entry exposed to callers.
type Descriptor struct {
	Key         Variant          `json:"key"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Regime      taxdomain.Regime `json:"regime"`
	IsDefault   bool             `json:"isDefault"`
}
