package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lease-engine/domain"
)

func newResolver() *DiscountRateResolver {
	return NewDiscountRateResolver(DefaultMarketDefaults())
}

func TestRiskLookups(t *testing.T) {
	credit := []struct {
		term int
		want float64
	}{{1, 0.5}, {12, 0.5}, {13, 1.0}, {36, 1.0}, {37, 1.5}, {240, 1.5}}
	for _, c := range credit {
		assert.True(t, CreditRiskByTerm(c.term).Equal(d(c.want)), "credit risk for %d months", c.term)
	}

	term := []struct {
		term int
		want float64
	}{{12, 0}, {24, 0.2}, {36, 0.4}, {60, 0.6}, {61, 0.8}}
	for _, c := range term {
		assert.True(t, TermRisk(c.term).Equal(d(c.want)), "term risk for %d months", c.term)
	}

	assets := map[string]float64{
		domain.AssetRealEstate: 0.2,
		domain.AssetEquipment:  0.5,
		domain.AssetVehicle:    0.8,
		domain.AssetMachinery:  0.6,
		domain.AssetTechnology: 1.2,
		domain.AssetOther:      0.7,
		"spaceship":            0.7,
	}
	for asset, want := range assets {
		assert.True(t, AssetTypeRisk(asset).Equal(d(want)), "asset risk for %s", asset)
	}
}

func TestConfidenceForRate(t *testing.T) {
	tests := []struct {
		rate float64
		want domain.Confidence
	}{
		{0, domain.ConfidenceHigh},
		{6.9, domain.ConfidenceHigh},
		{25, domain.ConfidenceHigh},
		{25.01, domain.ConfidenceMedium},
		{50, domain.ConfidenceMedium},
		{50.5, domain.ConfidenceLow},
		{-1, domain.ConfidenceLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfidenceForRate(d(tt.rate)), "rate %v", tt.rate)
	}
}

func TestCheckReasonableness(t *testing.T) {
	ok := CheckReasonableness(d(8), d(5))
	assert.True(t, ok.Valid)
	assert.False(t, ok.HighRisk)
	assert.Empty(t, ok.Warnings)

	risky := CheckReasonableness(d(12), d(5))
	assert.True(t, risky.Valid)
	assert.True(t, risky.HighRisk)

	invalid := CheckReasonableness(d(120), d(5))
	assert.False(t, invalid.Valid)
	assert.True(t, invalid.HighRisk)
	assert.Len(t, invalid.Warnings, 2)

	assert.False(t, CheckReasonableness(d(-0.5), d(5)).Valid)
}

func TestIncrementalBorrowingRate(t *testing.T) {
	r := newResolver()
	input := newLease()

	result := r.IncrementalBorrowingRate(input, domain.MarketParameters{})

	// 5.0 base + 1.0 credit + 0.5 equipment + 0.4 term
	assert.True(t, result.CalculatedRate.Equal(d(6.9)), "got %s", result.CalculatedRate)
	assert.Equal(t, domain.MethodIncrementalBorrowing, result.Method)
	assert.Equal(t, domain.ConfidenceHigh, result.Confidence)
	assert.Len(t, result.Breakdown, 4)
}

func TestIncrementalBorrowingRate_ForeignCurrencyAndBaseOverride(t *testing.T) {
	r := newResolver()
	input := newLease()
	input.Currency = "USD"

	result := r.IncrementalBorrowingRate(input, domain.MarketParameters{BaseRate: dp(4)})

	assert.True(t, result.CalculatedRate.Equal(d(6.4)), "got %s", result.CalculatedRate)
	require.Len(t, result.Breakdown, 5)
	assert.Equal(t, "currency_risk", result.Breakdown[4].Name)
}

func TestMarketBasedRate(t *testing.T) {
	r := newResolver()
	input := newLease()

	result := r.MarketBasedRate(input, domain.MarketParameters{})
	// 5.0 base + 2.0 spread + 0.5×1.0 asset + 0.4 term
	assert.True(t, result.CalculatedRate.Equal(d(7.9)), "got %s", result.CalculatedRate)
	assert.Equal(t, domain.MethodMarketBased, result.Method)

	overridden := r.MarketBasedRate(input, domain.MarketParameters{
		BaseRate:            dp(3),
		CreditSpread:        dp(1.5),
		AssetTypeMultiplier: dp(2),
		TermAdjustment:      dp(0.25),
	})
	assert.True(t, overridden.CalculatedRate.Equal(d(5.75)), "got %s", overridden.CalculatedRate)
}

func TestImplicitRate_UnavailableWithoutFairValue(t *testing.T) {
	r := newResolver()
	input := newLease()

	_, ok := r.ImplicitRate(input, domain.MarketParameters{})
	assert.False(t, ok)

	input.AssetFairValue = d(-10)
	_, ok = r.ImplicitRate(input, domain.MarketParameters{})
	assert.False(t, ok)
}

func TestImplicitRate_Annualised(t *testing.T) {
	r := newResolver()
	input := newLease()
	input.AssetFairValue = d(30000)

	result, ok := r.ImplicitRate(input, domain.MarketParameters{})
	require.True(t, ok)

	assert.Equal(t, domain.MethodImplicit, result.Method)
	assert.Equal(t, domain.ConfidenceHigh, result.Confidence)
	assertClose(t, d(12.2489), result.CalculatedRate, 0.001)
	assert.Positive(t, result.Iterations)
}

func TestResolve_ExplicitRateWins(t *testing.T) {
	input := newLease()
	input.DiscountRate = dp(8.5)
	input.AssetFairValue = d(30000)

	result := newResolver().Resolve(input, domain.MarketParameters{})

	assert.Equal(t, domain.MethodContractual, result.Method)
	assert.True(t, result.CalculatedRate.Equal(d(8.5)))
	assert.Equal(t, domain.ConfidenceHigh, result.Confidence)
}

func TestResolve_PrefersIncrementalBorrowingRate(t *testing.T) {
	input := newLease()
	input.AssetFairValue = d(30000)

	result := newResolver().Resolve(input, domain.MarketParameters{})

	assert.Equal(t, domain.MethodIncrementalBorrowing, result.Method)
}

func TestResolve_MediumConfidenceIsAccepted(t *testing.T) {
	result := newResolver().Resolve(newLease(), domain.MarketParameters{BaseRate: dp(30)})

	assert.Equal(t, domain.MethodIncrementalBorrowing, result.Method)
	assert.Equal(t, domain.ConfidenceMedium, result.Confidence)
}

func TestResolve_FallsThroughToImplicit(t *testing.T) {
	input := newLease()
	input.AssetFairValue = d(30000)

	result := newResolver().Resolve(input, domain.MarketParameters{BaseRate: dp(60)})

	assert.Equal(t, domain.MethodImplicit, result.Method)
	assert.Equal(t, domain.ConfidenceHigh, result.Confidence)
}

func TestResolve_FallsBackToMarketBased(t *testing.T) {
	result := newResolver().Resolve(newLease(), domain.MarketParameters{BaseRate: dp(60)})

	assert.Equal(t, domain.MethodMarketBased, result.Method)
	assert.True(t, result.CalculatedRate.Equal(d(62.9)), "got %s", result.CalculatedRate)
	assert.Equal(t, domain.ConfidenceLow, result.Confidence)
}

func TestResolve_ImplicitLowConfidenceFallsBack(t *testing.T) {
	input := newLease()
	// 36 pagos de 1000 contra un valor razonable de 5000: tasa implícita muy alta
	input.AssetFairValue = d(5000)

	result := newResolver().Resolve(input, domain.MarketParameters{BaseRate: dp(60)})

	assert.Equal(t, domain.MethodMarketBased, result.Method)
}
