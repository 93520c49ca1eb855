package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lease-engine/domain"
	"lease-engine/repository"
)

type MockLeaseRepository struct {
	mu         sync.Mutex
	SaveCalled bool
	ForceError bool
	Saved      []domain.CalculationRecord
}

func (m *MockLeaseRepository) Save(
	ctx context.Context,
	record domain.CalculationRecord,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalled = true
	if m.ForceError {
		return errors.New("save error")
	}
	m.Saved = append(m.Saved, record)
	return nil
}

func (m *MockLeaseRepository) Get(ctx context.Context, id string) (domain.CalculationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.Saved {
		if r.Assessment.ID == id {
			return r, nil
		}
	}
	return domain.CalculationRecord{}, repository.ErrNotFound
}

func newTestCache(t *testing.T) *repository.MemoryCache {
	t.Helper()
	cache, err := repository.NewMemoryCache(time.Hour, 1<<20)
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	return cache
}

func newTestService(t *testing.T, repo repository.LeaseRepository) *LeaseService {
	s := NewLeaseService(repo, newTestCache(t), NewDiscountRateResolver(DefaultMarketDefaults()))
	s.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestCalculateLease_ExplicitRate(t *testing.T) {
	input := newLease()
	input.DiscountRate = dp(8.5)
	input.InitialDirectCosts = d(500)
	input.LeaseIncentives = d(200)

	rate := NewDiscountRateResolver(DefaultMarketDefaults()).Resolve(input, domain.MarketParameters{})
	result := CalculateLease(input, rate)

	assertClose(t, d(31824.69), result.LeaseLiabilityInitial, 0.01)
	assertClose(t, d(32124.69), result.RightOfUseAssetInitial, 0.01)
	assert.Len(t, result.Schedule, 36)
	assert.True(t, result.EffectiveAnnualRate.Equal(d(8.5)))
	assertClose(t, d(0), result.Schedule[35].EndingLiability, BalanceTolerance)
	assertClose(t, d(36000), result.Totals.TotalPayments, 1e-9)
}

func TestAssess_FullTreatment(t *testing.T) {
	mockRepo := &MockLeaseRepository{}
	service := newTestService(t, mockRepo)

	input := newLease()
	input.DiscountRate = dp(8.5)

	a, err := service.Assess(context.Background(), input, domain.MarketParameters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.True(t, a.Validation.IsValid)
	assert.NotEmpty(t, a.ID)
	require.NotNil(t, a.Exception)
	assert.Equal(t, domain.TreatmentFull, a.Exception.AccountingTreatment)
	require.NotNil(t, a.DiscountRate)
	assert.Equal(t, domain.MethodContractual, a.DiscountRate.Method)
	require.NotNil(t, a.Calculation)
	assert.Len(t, a.Calculation.Schedule, 36)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), a.CalculatedAt)

	if !mockRepo.SaveCalled {
		t.Errorf("expected repository Save to be called")
	}
}

func TestAssess_ShortTermSkipsCalculation(t *testing.T) {
	mockRepo := &MockLeaseRepository{}
	service := newTestService(t, mockRepo)

	input := newLease()
	input.TermMonths = 12
	input.EndDate = input.StartDate.AddMonths(12)

	a, err := service.Assess(context.Background(), input, domain.MarketParameters{})
	require.NoError(t, err)

	require.NotNil(t, a.Exception)
	assert.Equal(t, domain.ExceptionShortTerm, a.Exception.ExceptionType)
	assert.Nil(t, a.DiscountRate)
	assert.Nil(t, a.Calculation)
	require.NotNil(t, a.Exception.ExpensePolicy)
	assert.True(t, a.Exception.ExpensePolicy.TotalExpense.Equal(d(12000)))
	assert.True(t, mockRepo.SaveCalled)
}

func TestAssess_InvalidInput(t *testing.T) {
	mockRepo := &MockLeaseRepository{}
	service := newTestService(t, mockRepo)

	input := newLease()
	input.PaymentAmount = d(0)

	a, err := service.Assess(context.Background(), input, domain.MarketParameters{})
	require.NoError(t, err)

	assert.False(t, a.Validation.IsValid)
	assert.Nil(t, a.Exception)
	assert.Nil(t, a.Calculation)

	if mockRepo.SaveCalled {
		t.Errorf("repository Save should not be called for invalid input")
	}
}

func TestAssess_SaveErrorIsNotFatal(t *testing.T) {
	mockRepo := &MockLeaseRepository{ForceError: true}
	service := newTestService(t, mockRepo)

	a, err := service.Assess(context.Background(), newLease(), domain.MarketParameters{})
	if err != nil {
		t.Fatalf("save errors must not fail the calculation: %v", err)
	}
	assert.NotNil(t, a.Calculation)
}

func TestAssess_CacheHitReturnsStoredAssessment(t *testing.T) {
	mockRepo := &MockLeaseRepository{}
	service := newTestService(t, mockRepo)
	input := newLease()

	first, err := service.Assess(context.Background(), input, domain.MarketParameters{})
	require.NoError(t, err)

	second, err := service.Assess(context.Background(), input, domain.MarketParameters{})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.Calculation)
	assert.True(t, first.Calculation.LeaseLiabilityInitial.Equal(second.Calculation.LeaseLiabilityInitial))
	assert.Len(t, mockRepo.Saved, 1)

	// parámetros de mercado distintos no comparten entrada
	third, err := service.Assess(context.Background(), input, domain.MarketParameters{BaseRate: dp(4)})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
}

func TestAssess_CacheKeyIncludesMarketDefaults(t *testing.T) {
	shared := newTestCache(t)

	lowBase := DefaultMarketDefaults()
	highBase := DefaultMarketDefaults()
	highBase.BaseRate = 9

	first := NewLeaseService(&MockLeaseRepository{}, shared, NewDiscountRateResolver(lowBase))
	second := NewLeaseService(&MockLeaseRepository{}, shared, NewDiscountRateResolver(highBase))

	a, err := first.Assess(context.Background(), newLease(), domain.MarketParameters{})
	require.NoError(t, err)
	b, err := second.Assess(context.Background(), newLease(), domain.MarketParameters{})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	require.NotNil(t, a.DiscountRate)
	require.NotNil(t, b.DiscountRate)
	assert.True(t, a.DiscountRate.CalculatedRate.Equal(d(6.9)), "got %s", a.DiscountRate.CalculatedRate)
	assert.True(t, b.DiscountRate.CalculatedRate.Equal(d(10.9)), "got %s", b.DiscountRate.CalculatedRate)
}

func TestAssess_CancelledContext(t *testing.T) {
	service := newTestService(t, &MockLeaseRepository{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Assess(ctx, newLease(), domain.MarketParameters{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLeaseService_ResolveDiscountRateAndClassify(t *testing.T) {
	service := newTestService(t, &MockLeaseRepository{})

	validation, rate := service.ResolveDiscountRate(newLease(), domain.MarketParameters{})
	assert.True(t, validation.IsValid)
	require.NotNil(t, rate)
	assert.Equal(t, domain.MethodIncrementalBorrowing, rate.Method)

	bad := newLease()
	bad.Currency = "usd"
	validation, analysis := service.ClassifyException(bad)
	assert.False(t, validation.IsValid)
	assert.Nil(t, analysis)
}

func TestLeaseService_Get(t *testing.T) {
	service := newTestService(t, repository.NewLeaseRepositoryMemory())

	a, err := service.Assess(context.Background(), newLease(), domain.MarketParameters{})
	require.NoError(t, err)

	record, err := service.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "BRL", record.Input.Currency)

	_, err = service.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAssessBatch_PreservesOrder(t *testing.T) {
	service := newTestService(t, &MockLeaseRepository{})

	var items []BatchItem
	for _, amount := range []float64{100, 200, 300} {
		in := newLease()
		in.PaymentAmount = d(amount)
		in.DiscountRate = dp(0)
		items = append(items, BatchItem{Input: in})
	}

	results, err := service.AssessBatch(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, want := range []float64{3600, 7200, 10800} {
		require.NotNil(t, results[i].Calculation)
		assert.True(t, results[i].Calculation.LeaseLiabilityInitial.Equal(d(want)),
			"item %d: got %s", i, results[i].Calculation.LeaseLiabilityInitial)
	}
}

func TestAssessBatch_Limits(t *testing.T) {
	service := newTestService(t, &MockLeaseRepository{})

	_, err := service.AssessBatch(context.Background(), nil)
	assert.Error(t, err)

	items := make([]BatchItem, MaxBatchSize+1)
	_, err = service.AssessBatch(context.Background(), items)
	assert.Error(t, err)
}
