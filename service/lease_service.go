package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"lease-engine/domain"
	"lease-engine/repository"
)

// CalculateLease runs the liability, right-of-use and schedule steps for a
// contract at an already resolved discount rate. The result keeps full
// precision; call Rounded before presenting it.
func CalculateLease(input domain.LeaseContractInput, rate domain.DiscountRateResult) domain.CalculationResult {
	liability := CalculateLeaseLiability(input, rate.CalculatedRate)
	rou := CalculateRightOfUseAsset(liability.Total, input.InitialDirectCosts, input.LeaseIncentives)
	schedule, totals := GenerateAmortizationSchedule(input, liability.Total, rou, liability.MonthlyRate)

	return domain.CalculationResult{
		LeaseLiabilityInitial:    liability.Total,
		RightOfUseAssetInitial:   rou,
		Schedule:                 schedule,
		Totals:                   totals,
		EffectiveAnnualRate:      rate.CalculatedRate,
		EffectiveMonthlyRate:     liability.MonthlyRate,
		ResidualValueOutstanding: input.GuaranteedResidualValue,
	}
}

type LeaseService struct {
	repo     repository.LeaseRepository
	cache    repository.CacheRepository
	resolver *DiscountRateResolver
	now      func() time.Time
}

// NewLeaseService creates a new LeaseService with the given collaborators.
func NewLeaseService(
	repo repository.LeaseRepository,
	cache repository.CacheRepository,
	resolver *DiscountRateResolver,
) *LeaseService {
	return &LeaseService{repo: repo, cache: cache, resolver: resolver, now: time.Now}
}

// Validate checks a contract without calculating anything.
func (s *LeaseService) Validate(input domain.LeaseContractInput) domain.ValidationResult {
	return ValidateLease(input)
}

// ResolveDiscountRate validates the contract and, when it is valid, derives
// its discount rate.
func (s *LeaseService) ResolveDiscountRate(
	input domain.LeaseContractInput,
	params domain.MarketParameters,
) (domain.ValidationResult, *domain.DiscountRateResult) {
	validation := ValidateLease(input)
	if !validation.IsValid {
		return validation, nil
	}
	rate := s.resolver.Resolve(input, params)
	return validation, &rate
}

// ClassifyException validates the contract and, when it is valid, runs the
// short-term and low-value tests.
func (s *LeaseService) ClassifyException(
	input domain.LeaseContractInput,
) (domain.ValidationResult, *domain.ExceptionAnalysis) {
	validation := ValidateLease(input)
	if !validation.IsValid {
		return validation, nil
	}
	analysis := ClassifyException(input)
	return validation, &analysis
}

// cacheEntry is what a cached assessment depends on. The resolver's
// defaults are part of it since instances with different market settings
// may share one redis.
type cacheEntry struct {
	Input    domain.LeaseContractInput `json:"input"`
	Market   domain.MarketParameters   `json:"market"`
	Defaults MarketDefaults            `json:"defaults"`
}

func cacheKey(input domain.LeaseContractInput, params domain.MarketParameters, defaults MarketDefaults) (string, error) {
	data, err := json.Marshal(cacheEntry{Input: input, Market: params, Defaults: defaults})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Assess validates, classifies and, unless a simplified treatment applies,
// fully calculates a lease contract. Validation problems are reported in
// the assessment; an error is returned only when the work could not be done.
func (s *LeaseService) Assess(
	ctx context.Context,
	input domain.LeaseContractInput,
	params domain.MarketParameters,
) (domain.LeaseAssessment, error) {

	if err := ctx.Err(); err != nil {
		return domain.LeaseAssessment{}, err
	}

	assessment := domain.LeaseAssessment{
		ID:           uuid.NewString(),
		Validation:   ValidateLease(input),
		CalculatedAt: s.now().UTC(),
	}
	if !assessment.Validation.IsValid {
		return assessment, nil
	}

	key, err := cacheKey(input, params, s.resolver.defaults)
	if err != nil {
		return domain.LeaseAssessment{}, fmt.Errorf("failed to build cache key: %w", err)
	}
	if cached, ok := s.cache.Get(ctx, key); ok {
		var hit domain.LeaseAssessment
		if err := json.Unmarshal([]byte(cached), &hit); err == nil {
			return hit, nil
		}
		log.Warn().Str("key", key).Msg("discarding unreadable cached assessment")
	}

	exception := ClassifyException(input)
	assessment.Exception = &exception

	if exception.AccountingTreatment == domain.TreatmentFull {
		rate := s.resolver.Resolve(input, params)
		calculation := CalculateLease(input, rate)
		assessment.DiscountRate = &rate
		assessment.Calculation = &calculation
	}

	// Guardar el resultado (no crítico si falla)
	record := domain.CalculationRecord{Input: input, Assessment: assessment}
	if err := s.repo.Save(ctx, record); err != nil {
		log.Warn().Err(err).Str("id", assessment.ID).Msg("failed to save lease calculation")
	}

	if data, err := json.Marshal(assessment); err == nil {
		if err := s.cache.Set(ctx, key, string(data)); err != nil {
			log.Warn().Err(err).Str("id", assessment.ID).Msg("failed to cache lease calculation")
		}
	}

	return assessment, nil
}

// Get returns a previously stored calculation.
func (s *LeaseService) Get(ctx context.Context, id string) (domain.CalculationRecord, error) {
	return s.repo.Get(ctx, id)
}
