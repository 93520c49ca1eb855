package service

import (
	"math"

	"github.com/shopspring/decimal"
)

var (
	zero    = decimal.Zero
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// keep trims intermediate results to places decimals so long schedules do
// not grow unbounded digit strings.
func keep(value decimal.Decimal, places int32) decimal.Decimal {
	return value.Round(places)
}

func fromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// factorPlaces is the number of decimals needed to keep workingPlaces
// significant digits in (1+r)^-n. A rounding error in the liability grows
// by (1+r)^n over the schedule, so every factor and balance of the lease is
// carried at this precision.
func factorPlaces(r decimal.Decimal, n int) int32 {
	rf, _ := r.Float64()
	if n <= 0 || rf <= 0 {
		return workingPlaces
	}
	digits := math.Ceil(float64(n) * math.Log10(1+rf))
	return workingPlaces + precisionGuard + int32(digits)
}

// compoundFactor returns (1+r)^n for n >= 0.
func compoundFactor(r decimal.Decimal, n int, places int32) decimal.Decimal {
	base := one.Add(r)
	result := one
	for i := 0; i < n; i++ {
		result = keep(result.Mul(base), places)
	}
	return result
}

// discountFactorAt returns (1+r)^-n rounded to places decimals.
func discountFactorAt(r decimal.Decimal, n int, places int32) decimal.Decimal {
	if r.IsZero() || n <= 0 {
		return one
	}
	return one.DivRound(compoundFactor(r, n, places), places)
}

// DiscountFactor returns (1+r)^-n.
func DiscountFactor(r decimal.Decimal, n int) decimal.Decimal {
	return discountFactorAt(r, n, factorPlaces(r, n))
}

// MonthlyRateFromAnnual converts an annual effective percentage into the
// equivalent monthly effective rate, (1+annual/100)^(1/12) - 1.
func MonthlyRateFromAnnual(annualPercent decimal.Decimal) decimal.Decimal {
	if annualPercent.IsZero() {
		return zero
	}
	annual, _ := annualPercent.Div(hundred).Float64()
	return fromFloat(math.Pow(1+annual, 1.0/12) - 1)
}
