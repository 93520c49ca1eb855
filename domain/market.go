package domain

import "github.com/shopspring/decimal"

// MarketParameters are the inputs of the discount-rate methods that come
// from outside the contract. A nil field falls back to the configured default.
type MarketParameters struct {
	BaseRate            *decimal.Decimal `json:"base_rate,omitempty" yaml:"base_rate"`
	CreditSpread        *decimal.Decimal `json:"credit_spread,omitempty" yaml:"credit_spread"`
	AssetTypeMultiplier *decimal.Decimal `json:"asset_type_multiplier,omitempty" yaml:"asset_type_multiplier"`
	TermAdjustment      *decimal.Decimal `json:"term_adjustment,omitempty" yaml:"term_adjustment"`
}
