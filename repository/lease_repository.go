package repository

import (
	"context"
	"errors"

	"lease-engine/domain"
)

var ErrNotFound = errors.New("calculation not found")

type LeaseRepository interface {
	Save(ctx context.Context, record domain.CalculationRecord) error
	Get(ctx context.Context, id string) (domain.CalculationRecord, error)
}
