package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"lease-engine/domain"
)

type BatchItem struct {
	Input  domain.LeaseContractInput `json:"contract" yaml:"contract"`
	Market domain.MarketParameters   `json:"market" yaml:"market"`
}

// AssessBatch assesses independent contracts concurrently and returns the
// assessments in input order.
func (s *LeaseService) AssessBatch(ctx context.Context, items []BatchItem) ([]domain.LeaseAssessment, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no se proporcionaron contratos")
	}
	if len(items) > MaxBatchSize {
		return nil, fmt.Errorf("número de contratos excede el máximo de %d", MaxBatchSize)
	}

	results := make([]domain.LeaseAssessment, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(BatchConcurrency)

	for i, item := range items {
		g.Go(func() error {
			assessment, err := s.Assess(ctx, item.Input, item.Market)
			if err != nil {
				return fmt.Errorf("contract %d: %w", i, err)
			}
			results[i] = assessment
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
