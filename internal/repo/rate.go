package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tripledger/api/internal/domain"
)

// RateRepo persists one exchange-rate snapshot per base currency.
// It implements fx.SnapshotStore. The rates column is JSONB holding the
// currency → per-unit-rate map in API orientation (units of X per 1 base);
// the fx resolver owns the inversion to per-expense orientation.
type RateRepo interface {
	// Get returns the stored snapshot for base.
	// Returns domain.ErrNotFound when no snapshot exists.
	Get(ctx context.Context, base string) (domain.RateSnapshot, error)

	// Put overwrites the snapshot for snap.BaseCurrency. Last write wins —
	// there is no versioning and no staleness window.
	Put(ctx context.Context, snap domain.RateSnapshot) error
}

// pgRateRepo is the Postgres implementation of RateRepo.
type pgRateRepo struct {
	db db
}

// NewRateRepo constructs a RateRepo backed by the provided db connection.
func NewRateRepo(db db) RateRepo {
	return &pgRateRepo{db: db}
}

func (r *pgRateRepo) Get(ctx context.Context, base string) (domain.RateSnapshot, error) {
	const q = `
		SELECT base_currency, rates, updated_at
		FROM exchange_rates
		WHERE base_currency = @base`

	var (
		snap  domain.RateSnapshot
		rates []byte
	)
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"base": base}).
		Scan(&snap.BaseCurrency, &rates, &snap.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RateSnapshot{}, fmt.Errorf("repo.RateRepo.Get: %w", domain.ErrNotFound)
		}
		return domain.RateSnapshot{}, fmt.Errorf("repo.RateRepo.Get: %w", err)
	}

	if err := json.Unmarshal(rates, &snap.Rates); err != nil {
		return domain.RateSnapshot{}, fmt.Errorf("repo.RateRepo.Get: decode rates: %w", err)
	}
	return snap, nil
}

func (r *pgRateRepo) Put(ctx context.Context, snap domain.RateSnapshot) error {
	if snap.Rates == nil {
		snap.Rates = map[string]decimal.Decimal{}
	}
	rates, err := json.Marshal(snap.Rates)
	if err != nil {
		return fmt.Errorf("repo.RateRepo.Put: encode rates: %w", err)
	}

	const q = `
		INSERT INTO exchange_rates (base_currency, rates, updated_at)
		VALUES (@base, @rates, @updated_at)
		ON CONFLICT (base_currency) DO UPDATE
		SET rates = EXCLUDED.rates, updated_at = EXCLUDED.updated_at`

	_, err = r.db.Exec(ctx, q, pgx.NamedArgs{
		"base":       snap.BaseCurrency,
		"rates":      rates,
		"updated_at": snap.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("repo.RateRepo.Put: %w", err)
	}
	return nil
}
