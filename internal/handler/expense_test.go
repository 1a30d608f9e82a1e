package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripledger/api/internal/domain"
	"github.com/tripledger/api/internal/handler"
)

var testExpenseID = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")

func expenseFixture() domain.Expense {
	conv := dec("45.90")
	rate := dec("1.08")
	src := domain.RateSourceAuto
	return domain.Expense{
		ID:              testExpenseID,
		TripID:          testTripID,
		Amount:          dec("42.50"),
		Currency:        "EUR",
		Category:        domain.CategoryFood,
		Country:         "FR",
		Date:            time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
		ConvertedAmount: &conv,
		FxRate:          &rate,
		FxSource:        &src,
		CreatedBy:       testUserID,
	}
}

func TestCreateExpense(t *testing.T) {
	expenses := &mockExpenseServicer{
		create: func(_ context.Context, userID uuid.UUID, e domain.Expense, manualRate *decimal.Decimal) (domain.Expense, error) {
			assert.Equal(t, testUserID, userID)
			assert.Equal(t, testTripID, e.TripID)
			assert.True(t, e.Amount.Equal(dec("42.50")))
			assert.Nil(t, manualRate)
			stored := expenseFixture()
			return stored, nil
		},
	}
	h := newTestRouter(serverOpts{expenses: expenses})

	body := jsonBody(t, map[string]any{
		"amount":   "42.50",
		"currency": "EUR",
		"category": "food",
		"country":  "FR",
		"date":     "2025-08-10",
	})
	var got handler.ExpenseResponse
	rec := doRequest(t, h, http.MethodPost, "/trips/"+testTripID.String()+"/expenses", body, &got)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "converted", got.ConversionStatus)
	require.NotNil(t, got.ConvertedAmount)
	assert.True(t, got.ConvertedAmount.Equal(dec("45.90")))
	require.NotNil(t, got.FxSource)
	assert.Equal(t, "auto", *got.FxSource)
}

func TestCreateExpense_ManualRateForwarded(t *testing.T) {
	expenses := &mockExpenseServicer{
		create: func(_ context.Context, _ uuid.UUID, e domain.Expense, manualRate *decimal.Decimal) (domain.Expense, error) {
			require.NotNil(t, manualRate)
			assert.True(t, manualRate.Equal(dec("3.5")))
			return e, nil
		},
	}
	h := newTestRouter(serverOpts{expenses: expenses})

	body := jsonBody(t, map[string]any{
		"amount":      "100",
		"currency":    "EUR",
		"category":    "food",
		"date":        "2025-08-10",
		"manual_rate": "3.5",
	})
	rec := doRequest(t, h, http.MethodPost, "/trips/"+testTripID.String()+"/expenses", body, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateExpense_UnresolvedConversion(t *testing.T) {
	expenses := &mockExpenseServicer{
		create: func(_ context.Context, _ uuid.UUID, e domain.Expense, _ *decimal.Decimal) (domain.Expense, error) {
			return e, nil // no conversion fields set
		},
	}
	h := newTestRouter(serverOpts{expenses: expenses})

	body := jsonBody(t, map[string]any{
		"amount":   "500000",
		"currency": "VND",
		"category": "food",
		"date":     "2025-08-10",
	})
	var got handler.ExpenseResponse
	rec := doRequest(t, h, http.MethodPost, "/trips/"+testTripID.String()+"/expenses", body, &got)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "unresolved", got.ConversionStatus)
	assert.Nil(t, got.ConvertedAmount)
	assert.Nil(t, got.FxRate)
	assert.Nil(t, got.FxSource)
}

func TestCreateExpense_ClosedTripMaps409(t *testing.T) {
	expenses := &mockExpenseServicer{
		create: func(context.Context, uuid.UUID, domain.Expense, *decimal.Decimal) (domain.Expense, error) {
			return domain.Expense{}, domain.ErrTripClosed
		},
	}
	h := newTestRouter(serverOpts{expenses: expenses})

	body := jsonBody(t, map[string]any{
		"amount":   "10",
		"currency": "EUR",
		"category": "food",
		"date":     "2025-08-10",
	})
	rec := doRequest(t, h, http.MethodPost, "/trips/"+testTripID.String()+"/expenses", body, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "trip_closed")
}

func TestListExpenses(t *testing.T) {
	expenses := &mockExpenseServicer{
		list: func(_ context.Context, _, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Expense, int64, error) {
			assert.Equal(t, testTripID, tripID)
			return []domain.Expense{expenseFixture()}, 1, nil
		},
	}
	h := newTestRouter(serverOpts{expenses: expenses})

	var got handler.ExpenseListResponse
	rec := doRequest(t, h, http.MethodGet, "/trips/"+testTripID.String()+"/expenses", nil, &got)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, got.Data, 1)
	assert.Equal(t, testExpenseID, got.Data[0].ID)
	assert.Equal(t, "2025-08-10", got.Data[0].Date.Format("2006-01-02"))
}

func TestUpdateExpense(t *testing.T) {
	expenses := &mockExpenseServicer{
		update: func(_ context.Context, _ uuid.UUID, e domain.Expense, _ *decimal.Decimal) (domain.Expense, error) {
			assert.Equal(t, testExpenseID, e.ID)
			return e, nil
		},
	}
	h := newTestRouter(serverOpts{expenses: expenses})

	body := jsonBody(t, map[string]any{
		"amount":   "50",
		"currency": "EUR",
		"category": "food",
		"date":     "2025-08-10",
	})
	rec := doRequest(t, h, http.MethodPut, "/trips/"+testTripID.String()+"/expenses/"+testExpenseID.String(), body, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteExpense_ForbiddenMaps403(t *testing.T) {
	expenses := &mockExpenseServicer{
		delete: func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) error {
			return domain.ErrForbidden
		},
	}
	h := newTestRouter(serverOpts{expenses: expenses})

	rec := doRequest(t, h, http.MethodDelete, "/trips/"+testTripID.String()+"/expenses/"+testExpenseID.String(), nil, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
