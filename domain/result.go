package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const MoneyPlaces = 2

type AmortizationPeriod struct {
	Period             int             `json:"period" yaml:"period"`
	Date               Date            `json:"date" yaml:"date"`
	BeginningLiability decimal.Decimal `json:"beginning_liability" yaml:"beginning_liability"`
	InterestExpense    decimal.Decimal `json:"interest_expense" yaml:"interest_expense"`
	Payment            decimal.Decimal `json:"payment" yaml:"payment"`
	PrincipalPayment   decimal.Decimal `json:"principal_payment" yaml:"principal_payment"`
	EndingLiability    decimal.Decimal `json:"ending_liability" yaml:"ending_liability"`
	BeginningAsset     decimal.Decimal `json:"beginning_asset" yaml:"beginning_asset"`
	Amortization       decimal.Decimal `json:"amortization" yaml:"amortization"`
	EndingAsset        decimal.Decimal `json:"ending_asset" yaml:"ending_asset"`
	// ResidualSettlement marks the final period when its ending liability is
	// the guaranteed residual value still owed to the lessor.
	ResidualSettlement bool `json:"residual_settlement,omitempty" yaml:"residual_settlement,omitempty"`
}

type Totals struct {
	TotalInterest     decimal.Decimal `json:"total_interest" yaml:"total_interest"`
	TotalPrincipal    decimal.Decimal `json:"total_principal" yaml:"total_principal"`
	TotalPayments     decimal.Decimal `json:"total_payments" yaml:"total_payments"`
	TotalDepreciation decimal.Decimal `json:"total_depreciation" yaml:"total_depreciation"`
}

type CalculationResult struct {
	LeaseLiabilityInitial    decimal.Decimal      `json:"lease_liability_initial" yaml:"lease_liability_initial"`
	RightOfUseAssetInitial   decimal.Decimal      `json:"right_of_use_asset_initial" yaml:"right_of_use_asset_initial"`
	Schedule                 []AmortizationPeriod `json:"schedule" yaml:"schedule"`
	Totals                   Totals               `json:"totals" yaml:"totals"`
	EffectiveAnnualRate      decimal.Decimal      `json:"effective_annual_rate" yaml:"effective_annual_rate"`
	EffectiveMonthlyRate     decimal.Decimal      `json:"effective_monthly_rate" yaml:"effective_monthly_rate"`
	ResidualValueOutstanding decimal.Decimal      `json:"residual_value_outstanding" yaml:"residual_value_outstanding"`
}

// Rounded returns a copy with every money value rounded to cents. Rates
// keep their precision.
func (r CalculationResult) Rounded() CalculationResult {
	out := r
	out.LeaseLiabilityInitial = r.LeaseLiabilityInitial.Round(MoneyPlaces)
	out.RightOfUseAssetInitial = r.RightOfUseAssetInitial.Round(MoneyPlaces)
	out.ResidualValueOutstanding = r.ResidualValueOutstanding.Round(MoneyPlaces)
	out.Totals = Totals{
		TotalInterest:     r.Totals.TotalInterest.Round(MoneyPlaces),
		TotalPrincipal:    r.Totals.TotalPrincipal.Round(MoneyPlaces),
		TotalPayments:     r.Totals.TotalPayments.Round(MoneyPlaces),
		TotalDepreciation: r.Totals.TotalDepreciation.Round(MoneyPlaces),
	}
	out.Schedule = make([]AmortizationPeriod, len(r.Schedule))
	for i, p := range r.Schedule {
		p.BeginningLiability = p.BeginningLiability.Round(MoneyPlaces)
		p.InterestExpense = p.InterestExpense.Round(MoneyPlaces)
		p.Payment = p.Payment.Round(MoneyPlaces)
		p.PrincipalPayment = p.PrincipalPayment.Round(MoneyPlaces)
		p.EndingLiability = p.EndingLiability.Round(MoneyPlaces)
		p.BeginningAsset = p.BeginningAsset.Round(MoneyPlaces)
		p.Amortization = p.Amortization.Round(MoneyPlaces)
		p.EndingAsset = p.EndingAsset.Round(MoneyPlaces)
		out.Schedule[i] = p
	}
	return out
}

// LeaseAssessment is everything produced for one contract. DiscountRate and
// Calculation are nil when the contract is invalid or gets simplified
// treatment.
type LeaseAssessment struct {
	ID           string              `json:"id" yaml:"id"`
	Validation   ValidationResult    `json:"validation" yaml:"validation"`
	Exception    *ExceptionAnalysis  `json:"exception,omitempty" yaml:"exception,omitempty"`
	DiscountRate *DiscountRateResult `json:"discount_rate,omitempty" yaml:"discount_rate,omitempty"`
	Calculation  *CalculationResult  `json:"calculation,omitempty" yaml:"calculation,omitempty"`
	CalculatedAt time.Time           `json:"calculated_at" yaml:"calculated_at"`
}

// Rounded rounds the calculation for output.
func (a LeaseAssessment) Rounded() LeaseAssessment {
	if a.Calculation != nil {
		rounded := a.Calculation.Rounded()
		a.Calculation = &rounded
	}
	return a
}

// CalculationRecord is what the persistence layer stores.
type CalculationRecord struct {
	Input      LeaseContractInput `json:"input"`
	Assessment LeaseAssessment    `json:"assessment"`
}
