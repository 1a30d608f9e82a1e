package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report is the full reporting payload for one trip: summary, breakdowns,
// daily series, accommodation stats, and insights. All amounts are in the
// trip's base currency unless stated otherwise. Plain data — no framework
// types — so it serializes cleanly for any caller.
type Report struct {
	TripID       string
	BaseCurrency string
	GeneratedAt  time.Time

	Summary       Summary
	ByCategory    []BreakdownEntry
	ByCountry     []BreakdownEntry
	ByCurrency    []CurrencyGroup
	DailySpend    []DailySpend
	Accommodation *AccommodationStats // nil when no qualifying lodging exists
	Insights      []Insight
}

// Summary is the headline reduction over a trip's classified expenses.
type Summary struct {
	// TotalRealized is the sum of converted amounts of realized expenses.
	TotalRealized decimal.Decimal
	// TotalFuture is the sum of converted amounts of future-dated expenses.
	TotalFuture decimal.Decimal
	// Unconverted groups expenses without a resolved rate by their original
	// currency; amounts here are original, not converted.
	Unconverted []UnconvertedGroup
	// TripDays is the inclusive day count between the trip's dates, or the
	// inclusive span of observed expense dates when the trip has none.
	TripDays int
	// AveragePerDay is TotalRealized / TripDays, zero when TripDays is zero.
	AveragePerDay decimal.Decimal
	ExpenseCount  int
}

// UnconvertedGroup sums expenses that could not be converted, per original
// currency.
type UnconvertedGroup struct {
	Currency string
	Amount   decimal.Decimal
	Count    int
}

// BreakdownEntry is one group in a category or country breakdown.
// Percentage is the group's share of the breakdown's own total, 0–100.
type BreakdownEntry struct {
	Key        string
	Amount     decimal.Decimal
	Count      int
	Percentage float64
}

// CurrencyGroup is one group in the original-currency breakdown.
// Amount is in the original currency. Sorted descending by Count — how
// often a currency was used matters more here than how much was spent.
type CurrencyGroup struct {
	Currency string
	Amount   decimal.Decimal
	Count    int
}

// DailySpend is one bucket of the daily spend series, keyed by experience
// date. Only dates with at least one expense appear in the series.
type DailySpend struct {
	Date   time.Time
	Amount decimal.Decimal
	Count  int
	// Future is true when Date is after the report's reference "today".
	Future bool
}

// AccommodationStats summarizes lodging expenses that have a positive
// nights count and a resolved converted amount.
type AccommodationStats struct {
	TotalSpent  decimal.Decimal
	TotalNights int
	// AveragePerNight is TotalSpent / TotalNights over the qualifying set.
	AveragePerNight decimal.Decimal
	Entries         []AccommodationEntry
}

// AccommodationEntry is one qualifying lodging expense.
type AccommodationEntry struct {
	ExpenseID     string
	Note          string
	Nights        int
	TotalPrice    decimal.Decimal
	PricePerNight decimal.Decimal
	// AboveAverage is true when PricePerNight exceeds 1.2× the average
	// per-night price across the same qualifying set.
	AboveAverage bool
}

// InsightType tags an insight with the heuristic that produced it.
type InsightType string

const (
	InsightExpensiveDay      InsightType = "expensive_day"
	InsightTopCategory       InsightType = "top_category"
	InsightSpendingTrend     InsightType = "spending_trend"
	InsightAccommodation     InsightType = "accommodation"
	InsightFutureCommitments InsightType = "future_commitments"
)

// Insight is one human-readable observation surfaced from the aggregates.
type Insight struct {
	Type        InsightType
	Title       string
	Description string
	// Value is an optional formatted amount, e.g. "154.00 USD".
	Value string
}
