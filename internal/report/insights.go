package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tripledger/api/internal/domain"
)

// maxInsights caps the emitted insight list.
const maxInsights = 5

// Tuning constants for the insight heuristics.
var (
	// expensiveDayFactor: a day must exceed this multiple of the average
	// daily spend to be called out.
	expensiveDayFactor = decimal.RequireFromString("1.5")
	// topCategoryShare: minimum percentage share for the concentration insight.
	topCategoryShare = 30.0
	// trendThreshold: the half-over-half difference must exceed this
	// fraction of the larger half.
	trendThreshold = decimal.RequireFromString("0.3")
	// trendMinDays: the trend check needs at least this many spend-days.
	trendMinDays = 4
	// accommodationMinNights: minimum lodging nights for the stay insight.
	accommodationMinNights = 2
)

// BuildInsights runs the heuristic checks over the aggregates and returns
// at most maxInsights observations.
//
// Each check is gated independently — an earlier check firing never
// suppresses a later one — and the output order is fixed by priority:
// expensive day, category concentration, trend, accommodation, future
// commitments. The list is truncated, never re-sorted by magnitude.
func BuildInsights(
	baseCurrency string,
	summary domain.Summary,
	byCategory []domain.BreakdownEntry,
	daily []domain.DailySpend,
	accommodation *domain.AccommodationStats,
	futureCount int,
) []domain.Insight {
	var insights []domain.Insight

	if in, ok := expensiveDay(baseCurrency, summary, daily); ok {
		insights = append(insights, in)
	}
	if in, ok := topCategory(baseCurrency, byCategory); ok {
		insights = append(insights, in)
	}
	if in, ok := trend(daily); ok {
		insights = append(insights, in)
	}
	if in, ok := accommodationInsight(baseCurrency, accommodation); ok {
		insights = append(insights, in)
	}
	if in, ok := futureImpact(baseCurrency, summary, futureCount); ok {
		insights = append(insights, in)
	}

	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

// expensiveDay flags the single highest-spend day when it exceeds 1.5× the
// average daily spend.
func expensiveDay(currency string, summary domain.Summary, daily []domain.DailySpend) (domain.Insight, bool) {
	if len(daily) == 0 || !summary.AveragePerDay.IsPositive() {
		return domain.Insight{}, false
	}

	peak := daily[0]
	for _, d := range daily[1:] {
		if d.Amount.GreaterThan(peak.Amount) {
			peak = d
		}
	}

	if !peak.Amount.GreaterThan(summary.AveragePerDay.Mul(expensiveDayFactor)) {
		return domain.Insight{}, false
	}
	return domain.Insight{
		Type:  domain.InsightExpensiveDay,
		Title: "Most expensive day",
		Description: fmt.Sprintf("You spent the most on %s — well above your daily average of %s.",
			peak.Date.Format("Jan 2"), formatAmount(summary.AveragePerDay, currency)),
		Value: formatAmount(peak.Amount, currency),
	}, true
}

// topCategory flags the largest category when its share exceeds 30%.
func topCategory(currency string, byCategory []domain.BreakdownEntry) (domain.Insight, bool) {
	if len(byCategory) == 0 {
		return domain.Insight{}, false
	}
	top := byCategory[0] // already sorted descending by amount
	if top.Percentage <= topCategoryShare {
		return domain.Insight{}, false
	}
	return domain.Insight{
		Type:  domain.InsightTopCategory,
		Title: "Biggest spending category",
		Description: fmt.Sprintf("%s accounts for %.0f%% of your spending.",
			titleCase(top.Key), top.Percentage),
		Value: formatAmount(top.Amount, currency),
	}, true
}

// trend compares the first and second halves of the daily series and flags
// a clear direction. Needs at least trendMinDays distinct spend-days; the
// relative difference must exceed trendThreshold of the larger half.
func trend(daily []domain.DailySpend) (domain.Insight, bool) {
	if len(daily) < trendMinDays {
		return domain.Insight{}, false
	}

	mid := len(daily) / 2
	first, second := decimal.Zero, decimal.Zero
	for _, d := range daily[:mid] {
		first = first.Add(d.Amount)
	}
	for _, d := range daily[mid:] {
		second = second.Add(d.Amount)
	}

	larger := first
	if second.GreaterThan(larger) {
		larger = second
	}
	if !larger.IsPositive() {
		return domain.Insight{}, false
	}

	diff := second.Sub(first).Abs()
	if !diff.GreaterThan(larger.Mul(trendThreshold)) {
		return domain.Insight{}, false
	}

	direction := "decreasing"
	description := "Your daily spending has been trending down over the trip."
	if second.GreaterThan(first) {
		direction = "increasing"
		description = "Your daily spending has been trending up over the trip."
	}
	return domain.Insight{
		Type:        domain.InsightSpendingTrend,
		Title:       fmt.Sprintf("Spending is %s", direction),
		Description: description,
	}, true
}

// accommodationInsight reports the average nightly rate once the trip has
// at least two lodging nights.
func accommodationInsight(currency string, stats *domain.AccommodationStats) (domain.Insight, bool) {
	if stats == nil || stats.TotalNights < accommodationMinNights {
		return domain.Insight{}, false
	}
	return domain.Insight{
		Type:  domain.InsightAccommodation,
		Title: "Accommodation costs",
		Description: fmt.Sprintf("Across %d nights you averaged %s per night.",
			stats.TotalNights, formatAmount(stats.AveragePerNight, currency)),
		Value: formatAmount(stats.AveragePerNight, currency),
	}, true
}

// futureImpact reports upcoming pre-paid spending when any exists.
func futureImpact(currency string, summary domain.Summary, futureCount int) (domain.Insight, bool) {
	if futureCount == 0 || !summary.TotalFuture.IsPositive() {
		return domain.Insight{}, false
	}
	return domain.Insight{
		Type:  domain.InsightFutureCommitments,
		Title: "Upcoming expenses",
		Description: fmt.Sprintf("%d pre-paid expense(s) totalling %s are still ahead of you.",
			futureCount, formatAmount(summary.TotalFuture, currency)),
		Value: formatAmount(summary.TotalFuture, currency),
	}, true
}

// formatAmount renders an amount with its currency code, e.g. "154.00 USD".
func formatAmount(d decimal.Decimal, currency string) string {
	return d.StringFixed(2) + " " + currency
}

// titleCase upper-cases the first byte of an ASCII category key for display.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
