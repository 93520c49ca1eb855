package service

import (
	"github.com/shopspring/decimal"

	"lease-engine/domain"
)

// LiabilityBreakdown shows how the initial lease liability was assembled.
type LiabilityBreakdown struct {
	MonthlyRate       decimal.Decimal
	BasePaymentsPV    decimal.Decimal
	InitialPayment    decimal.Decimal
	ResidualValuePV   decimal.Decimal
	VariablePaymentPV decimal.Decimal
	Total             decimal.Decimal
}

// PresentValueOrdinary is the present value of n end-of-period payments.
func PresentValueOrdinary(payment, r decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return zero
	}
	if r.IsZero() {
		return payment.Mul(decimal.NewFromInt(int64(n)))
	}
	places := factorPlaces(r, n)
	annuityFactor := one.Sub(discountFactorAt(r, n, places)).DivRound(r, places)
	return keep(payment.Mul(annuityFactor), places)
}

// PresentValueDue is the present value of n beginning-of-period payments.
func PresentValueDue(payment, r decimal.Decimal, n int) decimal.Decimal {
	ordinary := PresentValueOrdinary(payment, r, n)
	if r.IsZero() {
		return ordinary
	}
	return keep(ordinary.Mul(one.Add(r)), factorPlaces(r, n))
}

// PresentValueResidual discounts the guaranteed residual value from the
// end of the term.
func PresentValueResidual(residual, r decimal.Decimal, n int) decimal.Decimal {
	if residual.IsZero() {
		return zero
	}
	places := factorPlaces(r, n)
	return keep(residual.Mul(discountFactorAt(r, n, places)), places)
}

// VariablePaymentOffset is the number of whole months between the lease
// start and the payment date, clamped to the lease term.
func VariablePaymentOffset(start, paid domain.Date, termMonths int) int {
	offset := start.MonthsUntil(paid)
	if offset < 0 {
		return 0
	}
	if offset > termMonths {
		return termMonths
	}
	return offset
}

// PresentValueVariable discounts each variable payment from its own date,
// at the precision of the whole n-period lease.
func PresentValueVariable(payments []domain.VariablePayment, start domain.Date, r decimal.Decimal, n int) decimal.Decimal {
	places := factorPlaces(r, n)
	total := zero
	for _, p := range payments {
		offset := VariablePaymentOffset(start, p.Date, n)
		total = total.Add(keep(p.Amount.Mul(discountFactorAt(r, offset, places)), places))
	}
	return total
}

// CalculateLeaseLiability computes the initial lease liability at the
// given annual effective rate (percentage).
func CalculateLeaseLiability(input domain.LeaseContractInput, annualRate decimal.Decimal) LiabilityBreakdown {
	r := MonthlyRateFromAnnual(annualRate)
	n := input.TermMonths

	var base decimal.Decimal
	if input.PaymentTiming == domain.TimingStart {
		base = PresentValueDue(input.PaymentAmount, r, n)
	} else {
		base = PresentValueOrdinary(input.PaymentAmount, r, n)
	}

	b := LiabilityBreakdown{
		MonthlyRate:       r,
		BasePaymentsPV:    base,
		InitialPayment:    input.InitialPayment,
		ResidualValuePV:   PresentValueResidual(input.GuaranteedResidualValue, r, n),
		VariablePaymentPV: PresentValueVariable(input.VariablePayments, input.StartDate, r, n),
	}
	b.Total = b.BasePaymentsPV.
		Add(b.InitialPayment).
		Add(b.ResidualValuePV).
		Add(b.VariablePaymentPV)
	return b
}
