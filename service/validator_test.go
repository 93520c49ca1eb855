package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lease-engine/domain"
)

func codes(r domain.ValidationResult) []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Code)
	}
	return out
}

func TestValidateLease_Valid(t *testing.T) {
	r := ValidateLease(newLease())

	assert.True(t, r.IsValid)
	assert.Empty(t, r.Errors)
}

func TestValidateLease_SingleRule(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.LeaseContractInput)
		field  string
		code   string
	}{
		{"pago cero", func(in *domain.LeaseContractInput) { in.PaymentAmount = d(0) }, "payment_amount", "INVALID_PAYMENT_AMOUNT"},
		{"pago negativo", func(in *domain.LeaseContractInput) { in.PaymentAmount = d(-10) }, "payment_amount", "INVALID_PAYMENT_AMOUNT"},
		{"tasa negativa", func(in *domain.LeaseContractInput) { in.DiscountRate = dp(-1) }, "discount_rate", "INVALID_DISCOUNT_RATE"},
		{"tasa sobre 100", func(in *domain.LeaseContractInput) { in.DiscountRate = dp(100.5) }, "discount_rate", "INVALID_DISCOUNT_RATE"},
		{"plazo cero", func(in *domain.LeaseContractInput) { in.TermMonths = 0 }, "term_months", "INVALID_TERM"},
		{"plazo excesivo", func(in *domain.LeaseContractInput) { in.TermMonths = MaxTermMonths + 1 }, "term_months", "INVALID_TERM"},
		{"moneda minúscula", func(in *domain.LeaseContractInput) { in.Currency = "brl" }, "currency", "INVALID_CURRENCY"},
		{"moneda larga", func(in *domain.LeaseContractInput) { in.Currency = "REAL" }, "currency", "INVALID_CURRENCY"},
		{"timing desconocido", func(in *domain.LeaseContractInput) { in.PaymentTiming = "middle" }, "payment_timing", "INVALID_PAYMENT_TIMING"},
		{"residual negativo", func(in *domain.LeaseContractInput) { in.GuaranteedResidualValue = d(-1) }, "guaranteed_residual_value", "INVALID_GUARANTEED_RESIDUAL_VALUE"},
		{"sin fecha de término", func(in *domain.LeaseContractInput) { in.EndDate = domain.Date{} }, "end_date", "MISSING_END_DATE"},
		{"rango invertido", func(in *domain.LeaseContractInput) { in.EndDate = in.StartDate }, "end_date", "INVALID_DATE_RANGE"},
		{"renovación sobre 100", func(in *domain.LeaseContractInput) {
			in.Options.RenewalOptions = []domain.RenewalOption{{TermMonths: 12, Probability: d(120)}}
		}, "options.renewal_options[0].probability", "INVALID_RENEWAL_PROBABILITY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := newLease()
			tt.mutate(&in)

			r := ValidateLease(in)
			assert.False(t, r.IsValid)
			require.Len(t, r.Errors, 1, "errors: %+v", r.Errors)
			assert.Equal(t, tt.field, r.Errors[0].Field)
			assert.Equal(t, tt.code, r.Errors[0].Code)
			assert.NotEmpty(t, r.Errors[0].Message)
		})
	}
}

func TestValidateLease_ZeroRateIsAllowed(t *testing.T) {
	in := newLease()
	in.DiscountRate = dp(0)

	assert.True(t, ValidateLease(in).IsValid)
}

func TestValidateLease_CollectsAllErrors(t *testing.T) {
	in := newLease()
	in.PaymentAmount = d(0)
	in.TermMonths = 0
	in.Currency = "x"
	in.StartDate = domain.Date{}
	in.EndDate = domain.Date{}

	r := ValidateLease(in)

	assert.False(t, r.IsValid)
	assert.ElementsMatch(t, []string{
		"INVALID_TERM",
		"INVALID_PAYMENT_AMOUNT",
		"INVALID_CURRENCY",
		"MISSING_START_DATE",
		"MISSING_END_DATE",
	}, codes(r))
}
