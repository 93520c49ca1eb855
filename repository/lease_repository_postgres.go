package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lease-engine/domain"
)

// Schema:
//
//	CREATE TABLE IF NOT EXISTS lease_calculations (
//	  id          UUID PRIMARY KEY,
//	  currency    TEXT NOT NULL,
//	  treatment   TEXT NOT NULL,
//	  record_json JSONB NOT NULL,
//	  updated_at  TIMESTAMPTZ NOT NULL
//	);
const createLeaseCalculationsTable = `
	CREATE TABLE IF NOT EXISTS lease_calculations (
		id          UUID PRIMARY KEY,
		currency    TEXT NOT NULL,
		treatment   TEXT NOT NULL,
		record_json JSONB NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`

// LeaseRepositoryPostgres stores calculation records as JSONB rows.
type LeaseRepositoryPostgres struct {
	pool *pgxpool.Pool
}

// NewPostgresPool connects to the database at url and checks the connection.
func NewPostgresPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, fmt.Errorf("database url not set")
	}
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return pool, nil
}

// NewLeaseRepositoryPostgres creates the repository and makes sure its table exists.
func NewLeaseRepositoryPostgres(ctx context.Context, pool *pgxpool.Pool) (*LeaseRepositoryPostgres, error) {
	if _, err := pool.Exec(ctx, createLeaseCalculationsTable); err != nil {
		return nil, fmt.Errorf("failed to create lease_calculations table: %w", err)
	}
	return &LeaseRepositoryPostgres{pool: pool}, nil
}

// Save upserts the record by assessment id.
func (r *LeaseRepositoryPostgres) Save(ctx context.Context, record domain.CalculationRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	treatment := string(domain.TreatmentFull)
	if record.Assessment.Exception != nil {
		treatment = string(record.Assessment.Exception.AccountingTreatment)
	}

	query := `
		INSERT INTO lease_calculations (id, currency, treatment, record_json, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id)
		DO UPDATE SET
			currency = EXCLUDED.currency,
			treatment = EXCLUDED.treatment,
			record_json = EXCLUDED.record_json,
			updated_at = EXCLUDED.updated_at`

	_, err = r.pool.Exec(ctx, query,
		record.Assessment.ID, record.Input.Currency, treatment, data, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save calculation: %w", err)
	}
	return nil
}

// Get loads a record by assessment id.
func (r *LeaseRepositoryPostgres) Get(ctx context.Context, id string) (domain.CalculationRecord, error) {
	var data []byte
	err := r.pool.QueryRow(ctx,
		`SELECT record_json FROM lease_calculations WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.CalculationRecord{}, ErrNotFound
	}
	if err != nil {
		return domain.CalculationRecord{}, fmt.Errorf("failed to load calculation: %w", err)
	}

	var record domain.CalculationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.CalculationRecord{}, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return record, nil
}
