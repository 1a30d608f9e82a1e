package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tripledger/api/internal/domain"
	"github.com/tripledger/api/internal/repo"
	"github.com/tripledger/api/internal/report"
)

// countryBreakdownTop caps the country breakdown; smaller countries fold
// into a synthetic "Other" bucket.
const countryBreakdownTop = 5

// ReportService builds the full reporting payload for a trip.
type ReportService struct {
	trips    repo.TripRepo
	members  repo.MemberRepo
	expenses repo.ExpenseRepo
	// now is injectable so tests can pin "today".
	now func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(trips repo.TripRepo, members repo.MemberRepo, expenses repo.ExpenseRepo) *ReportService {
	return &ReportService{trips: trips, members: members, expenses: expenses, now: time.Now}
}

// Build assembles the report for a trip. Any member may read it.
//
// "Today" is computed exactly once here and threaded through every
// reduction, so classification and the daily series can never disagree
// about which side of midnight an expense falls on.
func (s *ReportService) Build(ctx context.Context, userID, tripID uuid.UUID) (domain.Report, error) {
	if _, err := requireMember(ctx, s.members, tripID, userID); err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.Build: %w", err)
	}
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.Build: %w", err)
	}
	expenses, err := s.expenses.ListByTrip(ctx, tripID)
	if err != nil {
		return domain.Report{}, fmt.Errorf("service.ReportService.Build: %w", err)
	}

	generatedAt := s.now().UTC()
	today := domain.DateOnly(generatedAt)

	classified := report.Classify(expenses, today)
	summary := report.Summarize(trip, classified)

	// Converted expenses (realized + future) feed the daily series and
	// accommodation stats; category/country breakdowns cover realized
	// spending only.
	converted := make([]domain.Expense, 0, len(classified.Realized)+len(classified.Future))
	converted = append(converted, classified.Realized...)
	converted = append(converted, classified.Future...)

	byCategory := report.ByCategory(classified.Realized)
	byCountry := report.TopWithOther(report.ByCountry(classified.Realized), countryBreakdownTop)
	daily := report.DailySeries(converted, today)
	accommodation := report.Accommodation(converted)

	return domain.Report{
		TripID:        trip.ID.String(),
		BaseCurrency:  trip.BaseCurrency,
		GeneratedAt:   generatedAt,
		Summary:       summary,
		ByCategory:    byCategory,
		ByCountry:     byCountry,
		ByCurrency:    report.ByCurrency(expenses),
		DailySpend:    daily,
		Accommodation: accommodation,
		Insights: report.BuildInsights(trip.BaseCurrency, summary, byCategory,
			daily, accommodation, len(classified.Future)),
	}, nil
}
