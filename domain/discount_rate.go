package domain

import "github.com/shopspring/decimal"

// RateMethod identifies how a discount rate was derived.
type RateMethod string

const (
	MethodIncrementalBorrowing RateMethod = "incremental_borrowing"
	MethodImplicit             RateMethod = "implicit"
	MethodMarketBased          RateMethod = "market_based"
	MethodContractual          RateMethod = "contractual"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Acceptable reports whether a rate with this confidence may be used
// without falling through to the next method.
func (c Confidence) Acceptable() bool {
	return c == ConfidenceHigh || c == ConfidenceMedium
}

type RateAdjustment struct {
	Name  string          `json:"name" yaml:"name"`
	Value decimal.Decimal `json:"value" yaml:"value"`
}

type RateReasonableness struct {
	Valid    bool     `json:"valid" yaml:"valid"`
	HighRisk bool     `json:"high_risk" yaml:"high_risk"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// DiscountRateResult carries an annual percentage rate.
type DiscountRateResult struct {
	CalculatedRate decimal.Decimal    `json:"calculated_rate" yaml:"calculated_rate"`
	Method         RateMethod         `json:"method" yaml:"method"`
	Confidence     Confidence         `json:"confidence" yaml:"confidence"`
	Breakdown      []RateAdjustment   `json:"breakdown" yaml:"breakdown"`
	Reasonableness RateReasonableness `json:"reasonableness" yaml:"reasonableness"`
	Iterations     int                `json:"iterations,omitempty" yaml:"iterations,omitempty"`
}
