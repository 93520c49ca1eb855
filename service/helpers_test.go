package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"lease-engine/domain"
)

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func dp(f float64) *decimal.Decimal {
	v := decimal.NewFromFloat(f)
	return &v
}

// assertClose compares decimals within an absolute tolerance.
func assertClose(t *testing.T, want, got decimal.Decimal, tolerance float64, msgAndArgs ...interface{}) {
	t.Helper()
	diff := want.Sub(got).Abs()
	msg := fmt.Sprintf("want %s, got %s (diff %s)", want, got, diff)
	if len(msgAndArgs) > 0 {
		if format, ok := msgAndArgs[0].(string); ok {
			msg = fmt.Sprintf(format, msgAndArgs[1:]...) + ": " + msg
		}
	}
	assert.True(t, diff.LessThanOrEqual(d(tolerance)), msg)
}

// newLease returns a valid 36-month end-of-period contract paying 1000.
func newLease() domain.LeaseContractInput {
	return domain.LeaseContractInput{
		StartDate:     domain.NewDate(2025, time.January, 1),
		EndDate:       domain.NewDate(2028, time.January, 1),
		TermMonths:    36,
		PaymentAmount: d(1000),
		PaymentTiming: domain.TimingEnd,
		AssetType:     domain.AssetEquipment,
		Currency:      "BRL",
	}
}
