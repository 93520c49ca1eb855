package service

import (
	"github.com/shopspring/decimal"

	"lease-engine/domain"
)

// periodFlows are the payments that fall due inside one period, split by
// whether they are paid before or after the period's interest accrues.
type periodFlows struct {
	atBeginning decimal.Decimal
	atEnd       decimal.Decimal
}

// scheduleFlows lays the contract's cash flows out on periods 1..n using the
// same timing the liability was discounted with. Start-timed base payments,
// the initial payment and variable payments at month offset 0 are booked at
// the start of their period; end-timed base payments and variable payments
// at offset t > 0 are booked at the end of period t, whatever the base
// payment timing.
func scheduleFlows(input domain.LeaseContractInput) []periodFlows {
	n := input.TermMonths
	flows := make([]periodFlows, n+1)
	for i := range flows {
		flows[i] = periodFlows{atBeginning: zero, atEnd: zero}
	}

	for i := 1; i <= n; i++ {
		if input.PaymentTiming == domain.TimingStart {
			flows[i].atBeginning = flows[i].atBeginning.Add(input.PaymentAmount)
		} else {
			flows[i].atEnd = flows[i].atEnd.Add(input.PaymentAmount)
		}
	}

	flows[1].atBeginning = flows[1].atBeginning.Add(input.InitialPayment)

	for _, vp := range input.VariablePayments {
		offset := VariablePaymentOffset(input.StartDate, vp.Date, n)
		if offset == 0 {
			flows[1].atBeginning = flows[1].atBeginning.Add(vp.Amount)
			continue
		}
		flows[offset].atEnd = flows[offset].atEnd.Add(vp.Amount)
	}
	return flows
}

// GenerateAmortizationSchedule rolls the liability and the right-of-use
// asset forward one period at a time. The asset is depreciated straight
// line over the lease term.
func GenerateAmortizationSchedule(
	input domain.LeaseContractInput,
	liability decimal.Decimal,
	rightOfUse decimal.Decimal,
	monthlyRate decimal.Decimal,
) ([]domain.AmortizationPeriod, domain.Totals) {

	n := input.TermMonths
	if n < 1 {
		return nil, domain.Totals{}
	}
	flows := scheduleFlows(input)
	depreciation := rightOfUse.DivRound(decimal.NewFromInt(int64(n)), workingPlaces)
	hasResidual := input.GuaranteedResidualValue.IsPositive()
	places := factorPlaces(monthlyRate, n)

	schedule := make([]domain.AmortizationPeriod, 0, n)
	totals := domain.Totals{
		TotalInterest:     zero,
		TotalPrincipal:    zero,
		TotalPayments:     zero,
		TotalDepreciation: zero,
	}

	balance := liability
	asset := rightOfUse

	for i := 1; i <= n; i++ {
		f := flows[i]
		payment := f.atBeginning.Add(f.atEnd)

		// El interés se devenga sobre el saldo neto de los pagos anticipados
		interest := keep(balance.Sub(f.atBeginning).Mul(monthlyRate), places)
		principal := payment.Sub(interest)
		ending := balance.Sub(principal)

		amortization := depreciation
		if i == n {
			amortization = asset
		}

		date := input.StartDate.AddMonths(i)
		if input.PaymentTiming == domain.TimingStart {
			date = input.StartDate.AddMonths(i - 1)
		}

		schedule = append(schedule, domain.AmortizationPeriod{
			Period:             i,
			Date:               date,
			BeginningLiability: balance,
			InterestExpense:    interest,
			Payment:            payment,
			PrincipalPayment:   principal,
			EndingLiability:    ending,
			BeginningAsset:     asset,
			Amortization:       amortization,
			EndingAsset:        asset.Sub(amortization),
			ResidualSettlement: i == n && hasResidual,
		})

		totals.TotalInterest = totals.TotalInterest.Add(interest)
		totals.TotalPrincipal = totals.TotalPrincipal.Add(principal)
		totals.TotalPayments = totals.TotalPayments.Add(payment)
		totals.TotalDepreciation = totals.TotalDepreciation.Add(amortization)

		balance = ending
		asset = asset.Sub(amortization)
	}

	return schedule, totals
}
