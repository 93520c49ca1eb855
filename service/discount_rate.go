package service

import (
	"fmt"

	"github.com/phuslu/log"
	"github.com/shopspring/decimal"

	"lease-engine/domain"
)

// MarketDefaults fill in market parameters the caller leaves out.
type MarketDefaults struct {
	BaseRate               float64
	CreditSpread           float64
	AssetTypeMultiplier    float64
	DefaultCurrency        string
	CurrencyRiskAdjustment float64
}

func DefaultMarketDefaults() MarketDefaults {
	return MarketDefaults{
		BaseRate:               DefaultBaseRate,
		CreditSpread:           DefaultCreditSpread,
		AssetTypeMultiplier:    DefaultAssetTypeMultiplier,
		DefaultCurrency:        DefaultCurrency,
		CurrencyRiskAdjustment: DefaultCurrencyRiskAdjustment,
	}
}

// CreditRiskByTerm is the credit-risk premium for the lease term bucket.
func CreditRiskByTerm(termMonths int) decimal.Decimal {
	switch {
	case termMonths <= 12:
		return fromFloat(0.5)
	case termMonths <= 36:
		return fromFloat(1.0)
	default:
		return fromFloat(1.5)
	}
}

// AssetTypeRisk looks up the asset risk premium; unknown types are "other".
func AssetTypeRisk(assetType string) decimal.Decimal {
	if v, ok := assetTypeRisk[assetType]; ok {
		return fromFloat(v)
	}
	return fromFloat(assetTypeRisk[domain.AssetOther])
}

// TermRisk is the stepped premium for long leases.
func TermRisk(termMonths int) decimal.Decimal {
	switch {
	case termMonths <= 12:
		return zero
	case termMonths <= 24:
		return fromFloat(0.2)
	case termMonths <= 36:
		return fromFloat(0.4)
	case termMonths <= 60:
		return fromFloat(0.6)
	default:
		return fromFloat(0.8)
	}
}

// ConfidenceForRate rates how plausible an annual percentage is.
func ConfidenceForRate(rate decimal.Decimal) domain.Confidence {
	switch {
	case rate.IsNegative():
		return domain.ConfidenceLow
	case rate.LessThanOrEqual(fromFloat(HighConfidenceMax)):
		return domain.ConfidenceHigh
	case rate.LessThanOrEqual(fromFloat(LowConfidenceLimit)):
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// CheckReasonableness flags rates outside [0,100] as invalid and rates more
// than five points over the base rate as high risk.
func CheckReasonableness(rate, baseRate decimal.Decimal) domain.RateReasonableness {
	r := domain.RateReasonableness{Valid: true}
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		r.Valid = false
		r.Warnings = append(r.Warnings, fmt.Sprintf("rate %s%% is outside [0, 100]", rate.StringFixed(4)))
	}
	if rate.GreaterThan(baseRate.Add(decimal.NewFromInt(HighRiskSpreadOverBaseRate))) {
		r.HighRisk = true
		r.Warnings = append(r.Warnings, fmt.Sprintf("rate %s%% exceeds base rate %s%% by more than %d points",
			rate.StringFixed(4), baseRate.StringFixed(4), HighRiskSpreadOverBaseRate))
	}
	return r
}

// DiscountRateResolver derives the rate used to discount lease payments.
// It holds only read-only defaults and is safe for concurrent use.
type DiscountRateResolver struct {
	defaults MarketDefaults
}

func NewDiscountRateResolver(defaults MarketDefaults) *DiscountRateResolver {
	return &DiscountRateResolver{defaults: defaults}
}

func pick(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v != nil {
		return *v
	}
	return fallback
}

func (r *DiscountRateResolver) baseRate(params domain.MarketParameters) decimal.Decimal {
	return pick(params.BaseRate, fromFloat(r.defaults.BaseRate))
}

func (r *DiscountRateResolver) finish(result domain.DiscountRateResult, params domain.MarketParameters) domain.DiscountRateResult {
	result.Confidence = ConfidenceForRate(result.CalculatedRate)
	result.Reasonableness = CheckReasonableness(result.CalculatedRate, r.baseRate(params))
	return result
}

// IncrementalBorrowingRate adds the contract's risk premiums to the base rate.
func (r *DiscountRateResolver) IncrementalBorrowingRate(
	input domain.LeaseContractInput,
	params domain.MarketParameters,
) domain.DiscountRateResult {
	breakdown := []domain.RateAdjustment{
		{Name: "base_rate", Value: r.baseRate(params)},
		{Name: "credit_risk", Value: CreditRiskByTerm(input.TermMonths)},
		{Name: "asset_type_risk", Value: AssetTypeRisk(input.AssetType)},
		{Name: "term_risk", Value: TermRisk(input.TermMonths)},
	}
	if input.Currency != r.defaults.DefaultCurrency {
		breakdown = append(breakdown, domain.RateAdjustment{
			Name:  "currency_risk",
			Value: fromFloat(r.defaults.CurrencyRiskAdjustment),
		})
	}

	return r.finish(domain.DiscountRateResult{
		CalculatedRate: sumAdjustments(breakdown),
		Method:         domain.MethodIncrementalBorrowing,
		Breakdown:      breakdown,
	}, params)
}

// ImplicitRate solves for the rate that makes the payments worth the asset's
// fair value. It reports false when the contract has no fair value.
func (r *DiscountRateResolver) ImplicitRate(
	input domain.LeaseContractInput,
	params domain.MarketParameters,
) (domain.DiscountRateResult, bool) {
	if !input.AssetFairValue.IsPositive() {
		return domain.DiscountRateResult{}, false
	}

	fairValue, _ := input.AssetFairValue.Float64()
	payment, _ := input.PaymentAmount.Float64()
	solution := SolveImplicitMonthlyRate(fairValue, payment, input.TermMonths)

	annual := fromFloat(solution.MonthlyRate * 12 * 100).Round(ratePlaces)
	result := r.finish(domain.DiscountRateResult{
		CalculatedRate: annual,
		Method:         domain.MethodImplicit,
		Breakdown: []domain.RateAdjustment{
			{Name: "implicit_monthly_rate", Value: fromFloat(solution.MonthlyRate).Round(ratePlaces)},
		},
		Iterations: solution.Iterations,
	}, params)

	if !solution.Converged {
		result.Confidence = domain.ConfidenceLow
		result.Reasonableness.Warnings = append(result.Reasonableness.Warnings,
			fmt.Sprintf("implicit rate did not converge after %d iterations", solution.Iterations))
	}
	return result, true
}

// MarketBasedRate is the weighted composite of market inputs. It is always
// available.
func (r *DiscountRateResolver) MarketBasedRate(
	input domain.LeaseContractInput,
	params domain.MarketParameters,
) domain.DiscountRateResult {
	multiplier := pick(params.AssetTypeMultiplier, fromFloat(r.defaults.AssetTypeMultiplier))
	breakdown := []domain.RateAdjustment{
		{Name: "base_rate", Value: r.baseRate(params)},
		{Name: "credit_spread", Value: pick(params.CreditSpread, fromFloat(r.defaults.CreditSpread))},
		{Name: "asset_type_adjustment", Value: AssetTypeRisk(input.AssetType).Mul(multiplier)},
		{Name: "term_adjustment", Value: pick(params.TermAdjustment, TermRisk(input.TermMonths))},
	}

	return r.finish(domain.DiscountRateResult{
		CalculatedRate: sumAdjustments(breakdown),
		Method:         domain.MethodMarketBased,
		Breakdown:      breakdown,
	}, params)
}

// ContractualRate wraps a rate stated in the contract itself.
func (r *DiscountRateResolver) ContractualRate(rate decimal.Decimal, params domain.MarketParameters) domain.DiscountRateResult {
	result := r.finish(domain.DiscountRateResult{
		CalculatedRate: rate,
		Method:         domain.MethodContractual,
		Breakdown:      []domain.RateAdjustment{{Name: "contract_rate", Value: rate}},
	}, params)
	result.Confidence = domain.ConfidenceHigh
	return result
}

// Resolve picks the discount rate for a contract: the contract's own rate
// when stated, otherwise the first of incremental borrowing and implicit
// rate with acceptable confidence, falling back to the market composite.
func (r *DiscountRateResolver) Resolve(
	input domain.LeaseContractInput,
	params domain.MarketParameters,
) domain.DiscountRateResult {
	if input.HasExplicitRate() {
		return r.ContractualRate(*input.DiscountRate, params)
	}

	ibr := r.IncrementalBorrowingRate(input, params)
	if ibr.Confidence.Acceptable() {
		return ibr
	}
	log.Debug().Str("method", string(ibr.Method)).Str("rate", ibr.CalculatedRate.String()).
		Msg("discount rate confidence too low, trying next method")

	if implicit, ok := r.ImplicitRate(input, params); ok {
		if implicit.Confidence.Acceptable() {
			return implicit
		}
		log.Debug().Str("method", string(implicit.Method)).Str("rate", implicit.CalculatedRate.String()).
			Msg("discount rate confidence too low, trying next method")
	}

	return r.MarketBasedRate(input, params)
}

func sumAdjustments(adjustments []domain.RateAdjustment) decimal.Decimal {
	total := zero
	for _, a := range adjustments {
		total = total.Add(a.Value)
	}
	return total
}
