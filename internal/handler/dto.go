package handler

import (
	"errors"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	"github.com/tripledger/api/internal/domain"
)

// Pagination echoes the paging parameters plus the total row count.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// --- trips ------------------------------------------------------------------

// TripRequest is the body for POST /trips and PUT /trips/{id}.
type TripRequest struct {
	Name            string              `json:"name"`
	BaseCurrency    string              `json:"base_currency"`
	StartDate       *openapi_types.Date `json:"start_date,omitempty"`
	EndDate         *openapi_types.Date `json:"end_date,omitempty"`
	Countries       []string            `json:"countries,omitempty"`
	CurrentCountry  string              `json:"current_country,omitempty"`
	CurrentCurrency string              `json:"current_currency,omitempty"`
	TargetBudget    *decimal.Decimal    `json:"target_budget,omitempty"`
}

// TripResponse is the JSON form of a trip.
type TripResponse struct {
	ID              uuid.UUID           `json:"id"`
	Name            string              `json:"name"`
	BaseCurrency    string              `json:"base_currency"`
	StartDate       *openapi_types.Date `json:"start_date,omitempty"`
	EndDate         *openapi_types.Date `json:"end_date,omitempty"`
	Countries       []string            `json:"countries"`
	CurrentCountry  string              `json:"current_country,omitempty"`
	CurrentCurrency string              `json:"current_currency,omitempty"`
	TargetBudget    *decimal.Decimal    `json:"target_budget,omitempty"`
	Closed          bool                `json:"closed"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// TripListResponse wraps a page of trips.
type TripListResponse struct {
	Data       []TripResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

func requestToTrip(body *TripRequest) (domain.Trip, error) {
	if body == nil {
		return domain.Trip{}, errors.New("request body is required")
	}
	t := domain.Trip{
		Name:            body.Name,
		BaseCurrency:    body.BaseCurrency,
		Countries:       body.Countries,
		CurrentCountry:  body.CurrentCountry,
		CurrentCurrency: body.CurrentCurrency,
		TargetBudget:    body.TargetBudget,
	}
	if body.StartDate != nil {
		sd := body.StartDate.Time
		t.StartDate = &sd
	}
	if body.EndDate != nil {
		ed := body.EndDate.Time
		t.EndDate = &ed
	}
	return t, nil
}

func tripToResponse(t domain.Trip) TripResponse {
	resp := TripResponse{
		ID:              t.ID,
		Name:            t.Name,
		BaseCurrency:    t.BaseCurrency,
		Countries:       t.Countries,
		CurrentCountry:  t.CurrentCountry,
		CurrentCurrency: t.CurrentCurrency,
		TargetBudget:    t.TargetBudget,
		Closed:          t.Closed,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	if resp.Countries == nil {
		resp.Countries = []string{}
	}
	if t.StartDate != nil {
		resp.StartDate = &openapi_types.Date{Time: *t.StartDate}
	}
	if t.EndDate != nil {
		resp.EndDate = &openapi_types.Date{Time: *t.EndDate}
	}
	return resp
}

// --- members ----------------------------------------------------------------

// MemberRequest is the body for POST /trips/{id}/members.
type MemberRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

// MemberResponse is the JSON form of a trip membership.
type MemberResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func memberToResponse(m domain.Member) MemberResponse {
	return MemberResponse{UserID: m.UserID, Role: string(m.Role), CreatedAt: m.CreatedAt}
}

// --- expenses ---------------------------------------------------------------

// ExpenseRequest is the body for expense creation and update.
// ManualRate, when set, overrides automatic rate resolution (units of base
// currency per 1 unit of the expense currency).
type ExpenseRequest struct {
	Amount     decimal.Decimal     `json:"amount"`
	Currency   string              `json:"currency"`
	Category   string              `json:"category"`
	Country    string              `json:"country,omitempty"`
	Note       string              `json:"note,omitempty"`
	Date       openapi_types.Date  `json:"date"`
	UsageDate  *openapi_types.Date `json:"usage_date,omitempty"`
	IsFuture   bool                `json:"is_future,omitempty"`
	Nights     *int                `json:"nights,omitempty"`
	ManualRate *decimal.Decimal    `json:"manual_rate,omitempty"`
}

// ExpenseResponse is the JSON form of an expense.
// ConversionStatus is "converted" or "unresolved"; unresolved expenses have
// null converted_amount, fx_rate, and fx_source.
type ExpenseResponse struct {
	ID               uuid.UUID           `json:"id"`
	TripID           uuid.UUID           `json:"trip_id"`
	Amount           decimal.Decimal     `json:"amount"`
	Currency         string              `json:"currency"`
	Category         string              `json:"category"`
	Country          string              `json:"country,omitempty"`
	Note             string              `json:"note,omitempty"`
	Date             openapi_types.Date  `json:"date"`
	UsageDate        *openapi_types.Date `json:"usage_date,omitempty"`
	IsFuture         bool                `json:"is_future"`
	Nights           *int                `json:"nights,omitempty"`
	ConvertedAmount  *decimal.Decimal    `json:"converted_amount"`
	FxRate           *decimal.Decimal    `json:"fx_rate"`
	FxSource         *string             `json:"fx_source"`
	ConversionStatus string              `json:"conversion_status"`
	CreatedBy        uuid.UUID           `json:"created_by"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// ExpenseListResponse wraps a page of expenses.
type ExpenseListResponse struct {
	Data       []ExpenseResponse `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

func requestToExpense(tripID uuid.UUID, body *ExpenseRequest) (domain.Expense, error) {
	if body == nil {
		return domain.Expense{}, errors.New("request body is required")
	}
	e := domain.Expense{
		TripID:   tripID,
		Amount:   body.Amount,
		Currency: body.Currency,
		Category: domain.Category(body.Category),
		Country:  body.Country,
		Note:     body.Note,
		Date:     body.Date.Time,
		IsFuture: body.IsFuture,
		Nights:   body.Nights,
	}
	if body.UsageDate != nil {
		ud := body.UsageDate.Time
		e.UsageDate = &ud
	}
	return e, nil
}

func expenseToResponse(e domain.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:               e.ID,
		TripID:           e.TripID,
		Amount:           e.Amount,
		Currency:         e.Currency,
		Category:         string(e.Category),
		Country:          e.Country,
		Note:             e.Note,
		Date:             openapi_types.Date{Time: e.Date},
		IsFuture:         e.IsFuture,
		Nights:           e.Nights,
		ConvertedAmount:  e.ConvertedAmount,
		FxRate:           e.FxRate,
		ConversionStatus: "unresolved",
		CreatedBy:        e.CreatedBy,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
	if e.UsageDate != nil {
		resp.UsageDate = &openapi_types.Date{Time: *e.UsageDate}
	}
	if e.FxSource != nil {
		src := string(*e.FxSource)
		resp.FxSource = &src
	}
	if e.ConvertedAmount != nil {
		resp.ConversionStatus = "converted"
	}
	return resp
}

// --- reports ----------------------------------------------------------------

// ReportResponse is the JSON form of a trip report.
type ReportResponse struct {
	TripID        string                  `json:"trip_id"`
	BaseCurrency  string                  `json:"base_currency"`
	GeneratedAt   time.Time               `json:"generated_at"`
	Summary       SummaryResponse         `json:"summary"`
	ByCategory    []BreakdownEntry        `json:"by_category"`
	ByCountry     []BreakdownEntry        `json:"by_country"`
	ByCurrency    []CurrencyGroup         `json:"by_currency"`
	DailySpend    []DailySpendEntry       `json:"daily_spend"`
	Accommodation *AccommodationStats     `json:"accommodation"`
	Insights      []InsightResponse       `json:"insights"`
}

// SummaryResponse mirrors domain.Summary.
type SummaryResponse struct {
	TotalRealized decimal.Decimal    `json:"total_realized"`
	TotalFuture   decimal.Decimal    `json:"total_future"`
	Unconverted   []UnconvertedGroup `json:"unconverted"`
	TripDays      int                `json:"trip_days"`
	AveragePerDay decimal.Decimal    `json:"average_per_day"`
	ExpenseCount  int                `json:"expense_count"`
}

// UnconvertedGroup mirrors domain.UnconvertedGroup.
type UnconvertedGroup struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
}

// BreakdownEntry mirrors domain.BreakdownEntry.
type BreakdownEntry struct {
	Key        string          `json:"key"`
	Amount     decimal.Decimal `json:"amount"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

// CurrencyGroup mirrors domain.CurrencyGroup.
type CurrencyGroup struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
}

// DailySpendEntry mirrors domain.DailySpend.
type DailySpendEntry struct {
	Date   openapi_types.Date `json:"date"`
	Amount decimal.Decimal    `json:"amount"`
	Count  int                `json:"count"`
	Future bool               `json:"future"`
}

// AccommodationStats mirrors domain.AccommodationStats.
type AccommodationStats struct {
	TotalSpent      decimal.Decimal      `json:"total_spent"`
	TotalNights     int                  `json:"total_nights"`
	AveragePerNight decimal.Decimal      `json:"average_per_night"`
	Entries         []AccommodationEntry `json:"entries"`
}

// AccommodationEntry mirrors domain.AccommodationEntry.
type AccommodationEntry struct {
	ExpenseID     string          `json:"expense_id"`
	Note          string          `json:"note,omitempty"`
	Nights        int             `json:"nights"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	PricePerNight decimal.Decimal `json:"price_per_night"`
	AboveAverage  bool            `json:"above_average"`
}

// InsightResponse mirrors domain.Insight.
type InsightResponse struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Value       string `json:"value,omitempty"`
}

func reportToResponse(rep domain.Report) ReportResponse {
	resp := ReportResponse{
		TripID:       rep.TripID,
		BaseCurrency: rep.BaseCurrency,
		GeneratedAt:  rep.GeneratedAt,
		Summary: SummaryResponse{
			TotalRealized: rep.Summary.TotalRealized,
			TotalFuture:   rep.Summary.TotalFuture,
			Unconverted:   []UnconvertedGroup{},
			TripDays:      rep.Summary.TripDays,
			AveragePerDay: rep.Summary.AveragePerDay,
			ExpenseCount:  rep.Summary.ExpenseCount,
		},
		ByCategory: []BreakdownEntry{},
		ByCountry:  []BreakdownEntry{},
		ByCurrency: []CurrencyGroup{},
		DailySpend: []DailySpendEntry{},
		Insights:   []InsightResponse{},
	}
	for _, g := range rep.Summary.Unconverted {
		resp.Summary.Unconverted = append(resp.Summary.Unconverted, UnconvertedGroup(g))
	}
	for _, e := range rep.ByCategory {
		resp.ByCategory = append(resp.ByCategory, BreakdownEntry(e))
	}
	for _, e := range rep.ByCountry {
		resp.ByCountry = append(resp.ByCountry, BreakdownEntry(e))
	}
	for _, g := range rep.ByCurrency {
		resp.ByCurrency = append(resp.ByCurrency, CurrencyGroup(g))
	}
	for _, d := range rep.DailySpend {
		resp.DailySpend = append(resp.DailySpend, DailySpendEntry{
			Date:   openapi_types.Date{Time: d.Date},
			Amount: d.Amount,
			Count:  d.Count,
			Future: d.Future,
		})
	}
	if rep.Accommodation != nil {
		stats := AccommodationStats{
			TotalSpent:      rep.Accommodation.TotalSpent,
			TotalNights:     rep.Accommodation.TotalNights,
			AveragePerNight: rep.Accommodation.AveragePerNight,
			Entries:         []AccommodationEntry{},
		}
		for _, e := range rep.Accommodation.Entries {
			stats.Entries = append(stats.Entries, AccommodationEntry(e))
		}
		resp.Accommodation = &stats
	}
	for _, in := range rep.Insights {
		resp.Insights = append(resp.Insights, InsightResponse{
			Type:        string(in.Type),
			Title:       in.Title,
			Description: in.Description,
			Value:       in.Value,
		})
	}
	return resp
}
