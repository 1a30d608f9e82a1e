package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripledger/api/internal/domain"
	"github.com/tripledger/api/internal/handler"
)

func TestGetReport(t *testing.T) {
	reports := &mockReportBuilder{
		build: func(_ context.Context, userID, tripID uuid.UUID) (domain.Report, error) {
			assert.Equal(t, testUserID, userID)
			assert.Equal(t, testTripID, tripID)
			return domain.Report{
				TripID:       tripID.String(),
				BaseCurrency: "USD",
				GeneratedAt:  time.Now().UTC(),
				Summary: domain.Summary{
					TotalRealized: dec("154"),
					TotalFuture:   dec("30"),
					TripDays:      5,
					AveragePerDay: dec("30.80"),
					ExpenseCount:  4,
					Unconverted: []domain.UnconvertedGroup{
						{Currency: "VND", Amount: dec("500000"), Count: 1},
					},
				},
				ByCategory: []domain.BreakdownEntry{
					{Key: "food", Amount: dec("154"), Count: 3, Percentage: 100},
				},
				Insights: []domain.Insight{
					{Type: domain.InsightFutureCommitments, Title: "Upcoming expenses"},
				},
			}, nil
		},
	}
	h := newTestRouter(serverOpts{reports: reports})

	var got handler.ReportResponse
	rec := doRequest(t, h, http.MethodGet, "/trips/"+testTripID.String()+"/report", nil, &got)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "USD", got.BaseCurrency)
	assert.True(t, got.Summary.TotalRealized.Equal(dec("154")))
	require.Len(t, got.Summary.Unconverted, 1)
	assert.Equal(t, "VND", got.Summary.Unconverted[0].Currency)
	require.Len(t, got.Insights, 1)
	assert.Equal(t, "future_commitments", got.Insights[0].Type)
	// Absent collections serialize as [], not null.
	assert.NotNil(t, got.ByCountry)
	assert.Nil(t, got.Accommodation)
}

func TestGetReport_ForbiddenMaps403(t *testing.T) {
	reports := &mockReportBuilder{
		build: func(context.Context, uuid.UUID, uuid.UUID) (domain.Report, error) {
			return domain.Report{}, domain.ErrForbidden
		},
	}
	h := newTestRouter(serverOpts{reports: reports})

	rec := doRequest(t, h, http.MethodGet, "/trips/"+testTripID.String()+"/report", nil, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
