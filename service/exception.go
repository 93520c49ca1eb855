package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"lease-engine/domain"
)

// LowValueThreshold returns the fair-value ceiling for the low-value
// exemption in the given currency.
func LowValueThreshold(currency string) decimal.Decimal {
	if t, ok := lowValueThresholds[currency]; ok {
		return fromFloat(t)
	}
	return fromFloat(defaultLowValueThreshold)
}

// MeanRenewalProbability is the average probability (percentage) across the
// renewal options, zero when there are none.
func MeanRenewalProbability(options []domain.RenewalOption) decimal.Decimal {
	if len(options) == 0 {
		return zero
	}
	sum := zero
	for _, o := range options {
		sum = sum.Add(o.Probability)
	}
	return sum.DivRound(decimal.NewFromInt(int64(len(options))), ratePlaces)
}

func hasExercisablePurchaseOption(options []domain.PurchaseOption) bool {
	for _, o := range options {
		if o.Exercisable {
			return true
		}
	}
	return false
}

// EvaluateShortTerm applies the short-term exemption test.
func EvaluateShortTerm(input domain.LeaseContractInput) domain.ShortTermCriteria {
	c := domain.ShortTermCriteria{
		TermMonths:         input.TermMonths,
		HasPurchaseOption:  hasExercisablePurchaseOption(input.Options.PurchaseOptions),
		RenewalProbability: MeanRenewalProbability(input.Options.RenewalOptions),
	}
	c.MeetsCriteria = c.TermMonths <= ShortTermMaxMonths &&
		!c.HasPurchaseOption &&
		c.RenewalProbability.LessThan(decimal.NewFromInt(RenewalProbabilityCutoff))
	return c
}

// EvaluateLowValue applies the low-value exemption test. A contract without
// a fair value never qualifies.
func EvaluateLowValue(input domain.LeaseContractInput) domain.LowValueCriteria {
	c := domain.LowValueCriteria{
		AssetFairValue: input.AssetFairValue,
		Threshold:      LowValueThreshold(input.Currency),
		Currency:       input.Currency,
		AssetType:      input.AssetType,
	}
	excludedType := input.AssetType == domain.AssetRealEstate || input.AssetType == domain.AssetBuilding
	c.MeetsCriteria = input.AssetFairValue.IsPositive() &&
		input.AssetFairValue.LessThanOrEqual(c.Threshold) &&
		!excludedType &&
		!input.DependentOnOtherAssets
	return c
}

// ClassifyException decides whether the contract may skip liability and
// right-of-use recognition.
func ClassifyException(input domain.LeaseContractInput) domain.ExceptionAnalysis {
	a := domain.ExceptionAnalysis{
		ShortTerm: EvaluateShortTerm(input),
		LowValue:  EvaluateLowValue(input),
	}

	switch {
	case a.ShortTerm.MeetsCriteria && a.LowValue.MeetsCriteria:
		a.ExceptionType = domain.ExceptionBoth
	case a.ShortTerm.MeetsCriteria:
		a.ExceptionType = domain.ExceptionShortTerm
	case a.LowValue.MeetsCriteria:
		a.ExceptionType = domain.ExceptionLowValue
	default:
		a.ExceptionType = domain.ExceptionNone
	}

	if a.ExceptionType == domain.ExceptionNone {
		a.AccountingTreatment = domain.TreatmentFull
		return a
	}

	a.AccountingTreatment = domain.TreatmentSimplified
	policy := BuildExpensePolicy(input, a.ExceptionType)
	a.ExpensePolicy = &policy
	return a
}

// BuildExpensePolicy spreads every payment of a simplified lease evenly
// over the lease term.
func BuildExpensePolicy(input domain.LeaseContractInput, exception domain.ExceptionType) domain.ExpensePolicy {
	total := input.PaymentAmount.Mul(decimal.NewFromInt(int64(input.TermMonths))).
		Add(input.InitialPayment)
	for _, vp := range input.VariablePayments {
		total = total.Add(vp.Amount)
	}

	periodic := zero
	if input.TermMonths > 0 {
		periodic = total.DivRound(decimal.NewFromInt(int64(input.TermMonths)), workingPlaces)
	}

	var disclosure string
	switch exception {
	case domain.ExceptionShortTerm:
		disclosure = "short-term lease expense recognised on a straight-line basis (IFRS 16.6)"
	case domain.ExceptionLowValue:
		disclosure = "low-value asset lease expense recognised on a straight-line basis (IFRS 16.6)"
	case domain.ExceptionBoth:
		disclosure = "short-term and low-value lease expense recognised on a straight-line basis (IFRS 16.6)"
	default:
		disclosure = fmt.Sprintf("no exemption applies (%s)", exception)
	}

	return domain.ExpensePolicy{
		Basis:           "straight_line",
		Periods:         input.TermMonths,
		PeriodicExpense: periodic,
		TotalExpense:    total,
		Disclosure:      disclosure,
	}
}
