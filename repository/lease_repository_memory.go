package repository

import (
	"context"
	"sync"

	"lease-engine/domain"
)

// LeaseRepositoryMemory is an in-memory implementation of LeaseRepository.
type LeaseRepositoryMemory struct {
	mu   sync.RWMutex
	data map[string]domain.CalculationRecord
}

// NewLeaseRepositoryMemory creates a new in-memory lease repository.
func NewLeaseRepositoryMemory() *LeaseRepositoryMemory {
	return &LeaseRepositoryMemory{
		data: make(map[string]domain.CalculationRecord),
	}
}

// Save stores the calculation record in memory.
func (r *LeaseRepositoryMemory) Save(
	ctx context.Context,
	record domain.CalculationRecord,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[record.Assessment.ID] = record
	return nil
}

// Get returns a stored record by assessment id.
func (r *LeaseRepositoryMemory) Get(ctx context.Context, id string) (domain.CalculationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.data[id]
	if !ok {
		return domain.CalculationRecord{}, ErrNotFound
	}
	return record, nil
}

// Len returns how many records are stored.
func (r *LeaseRepositoryMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
