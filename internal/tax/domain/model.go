package domain

import "math"

// French VAT rates in percent. These are the rates an invoice line may carry
// under the general regime; any rate within [0, 100] is still accepted.
const (
	RateStandard     = 20.0
	RateIntermediate = 10.0
	RateReduced      = 5.5
	RateSuperReduced = 2.1
	RateZero         = 0.0
	MaxRate          = 100.0
)

// Regime is how VAT is presented on the issued document.
type Regime string

const (
	RegimeStandard        Regime = "standard"
	RegimeReduced         Regime = "reduced"
	RegimeExempt          Regime = "exempt"
	RegimeAutoliquidation Regime = "autoliquidation"
)

// KnownRates lists the French reference rates, highest first.
var KnownRates = []float64{RateStandard, RateIntermediate, RateReduced, RateSuperReduced, RateZero}

// ValidateRate rejects negative, non-finite and above-100 percent rates.
func ValidateRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return ErrInvalidTaxRate
	}
	if rate < 0 || rate > MaxRate {
		return ErrInvalidTaxRate
	}
	return nil
}

// IsKnownRate reports whether rate is one of the French reference rates.
func IsKnownRate(rate float64) bool {
	for _, known := range KnownRates {
		if math.Abs(known-rate) < 1e-9 {
			return true
		}
	}
	return false
}
