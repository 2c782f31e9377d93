package domain

import "errors"

var (
	ErrInvalidTaxRate = errors.New("invalid_tax_rate")
	ErrInvalidRegime  = errors.New("invalid_tax_regime")
)
