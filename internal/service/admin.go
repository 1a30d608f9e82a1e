package service

import (
	"context"
	"fmt"

	"github.com/tripledger/api/internal/domain"
	"github.com/tripledger/api/internal/repo"
)

// AdminService exposes the aggregate counts behind the admin dashboard.
// Authorization (which users count as admins) is the gateway's problem,
// like all identity concerns in this API.
type AdminService struct {
	stats repo.StatsRepo
}

// NewAdminService constructs an AdminService.
func NewAdminService(stats repo.StatsRepo) *AdminService {
	return &AdminService{stats: stats}
}

// Stats returns the dashboard counts.
func (s *AdminService) Stats(ctx context.Context) (domain.AdminStats, error) {
	stats, err := s.stats.Stats(ctx)
	if err != nil {
		return domain.AdminStats{}, fmt.Errorf("service.AdminService.Stats: %w", err)
	}
	return stats, nil
}
