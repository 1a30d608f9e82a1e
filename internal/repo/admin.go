package repo

import (
	"context"
	"fmt"

	"github.com/tripledger/api/internal/domain"
)

// StatsRepo reads the aggregate counts behind the admin dashboard.
type StatsRepo interface {
	Stats(ctx context.Context) (domain.AdminStats, error)
}

// pgStatsRepo is the Postgres implementation of StatsRepo.
type pgStatsRepo struct {
	db db
}

// NewStatsRepo constructs a StatsRepo backed by the provided db connection.
func NewStatsRepo(db db) StatsRepo {
	return &pgStatsRepo{db: db}
}

// Stats gathers all dashboard counts in a single round trip.
func (r *pgStatsRepo) Stats(ctx context.Context) (domain.AdminStats, error) {
	const q = `
		SELECT
			(SELECT count(*) FROM trips),
			(SELECT count(*) FROM trips WHERE NOT closed),
			(SELECT count(*) FROM expenses),
			(SELECT count(*) FROM expenses WHERE converted_amount IS NULL),
			(SELECT count(*) FROM trip_members),
			(SELECT count(*) FROM exchange_rates)`

	var s domain.AdminStats
	err := r.db.QueryRow(ctx, q).
		Scan(&s.Trips, &s.OpenTrips, &s.Expenses, &s.Unconverted, &s.Members, &s.CachedBases)
	if err != nil {
		return domain.AdminStats{}, fmt.Errorf("repo.StatsRepo.Stats: %w", err)
	}
	return s, nil
}
