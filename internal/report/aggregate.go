package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tripledger/api/internal/domain"
)

// Summarize reduces classified expenses into the headline summary.
//
// TripDays comes from the trip's own dates when both are set; otherwise it
// is the inclusive span between the earliest and latest payment dates seen
// across all expenses (minimum 1), or 0 when there are no expenses at all.
func Summarize(trip domain.Trip, c Classified) domain.Summary {
	s := domain.Summary{
		TotalRealized: sumConverted(c.Realized),
		TotalFuture:   sumConverted(c.Future),
		Unconverted:   groupUnconverted(c.Unconverted),
		ExpenseCount:  len(c.Realized) + len(c.Future) + len(c.Unconverted),
	}

	s.TripDays = tripDays(trip, c)
	if s.TripDays > 0 {
		s.AveragePerDay = s.TotalRealized.Div(decimal.NewFromInt(int64(s.TripDays))).RoundBank(2)
	}
	return s
}

func tripDays(trip domain.Trip, c Classified) int {
	if trip.StartDate != nil && trip.EndDate != nil {
		return domain.InclusiveDays(*trip.StartDate, *trip.EndDate)
	}

	var earliest, latest time.Time
	seen := false
	for _, bucket := range [][]domain.Expense{c.Realized, c.Future, c.Unconverted} {
		for _, e := range bucket {
			d := domain.DateOnly(e.Date)
			if !seen {
				earliest, latest = d, d
				seen = true
				continue
			}
			if d.Before(earliest) {
				earliest = d
			}
			if d.After(latest) {
				latest = d
			}
		}
	}
	if !seen {
		return 0
	}
	return domain.InclusiveDays(earliest, latest)
}

func sumConverted(expenses []domain.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.ConvertedAmount != nil {
			total = total.Add(*e.ConvertedAmount)
		}
	}
	return total
}

// groupUnconverted groups by original currency, summing original amounts.
// Sorted by currency code so output is deterministic.
func groupUnconverted(expenses []domain.Expense) []domain.UnconvertedGroup {
	byCurrency := map[string]*domain.UnconvertedGroup{}
	for _, e := range expenses {
		g, ok := byCurrency[e.Currency]
		if !ok {
			g = &domain.UnconvertedGroup{Currency: e.Currency}
			byCurrency[e.Currency] = g
		}
		g.Amount = g.Amount.Add(e.Amount)
		g.Count++
	}

	groups := make([]domain.UnconvertedGroup, 0, len(byCurrency))
	for _, g := range byCurrency {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Currency < groups[j].Currency })
	return groups
}

// ByCategory groups converted amounts by category, sorted descending by
// amount. Percentages are shares of the breakdown's own total.
func ByCategory(expenses []domain.Expense) []domain.BreakdownEntry {
	return breakdown(expenses, func(e domain.Expense) (string, bool) {
		return string(e.Category), true
	})
}

// ByCountry groups converted amounts by country, sorted descending by
// amount. Expenses with no country (flights) are excluded; percentages are
// shares of the included total.
func ByCountry(expenses []domain.Expense) []domain.BreakdownEntry {
	return breakdown(expenses, func(e domain.Expense) (string, bool) {
		return e.Country, e.Country != ""
	})
}

func breakdown(expenses []domain.Expense, keyOf func(domain.Expense) (string, bool)) []domain.BreakdownEntry {
	byKey := map[string]*domain.BreakdownEntry{}
	total := decimal.Zero
	for _, e := range expenses {
		key, ok := keyOf(e)
		if !ok || e.ConvertedAmount == nil {
			continue
		}
		entry, exists := byKey[key]
		if !exists {
			entry = &domain.BreakdownEntry{Key: key}
			byKey[key] = entry
		}
		entry.Amount = entry.Amount.Add(*e.ConvertedAmount)
		entry.Count++
		total = total.Add(*e.ConvertedAmount)
	}

	entries := make([]domain.BreakdownEntry, 0, len(byKey))
	for _, entry := range byKey {
		entry.Percentage = percentage(entry.Amount, total)
		entries = append(entries, *entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Amount.Equal(entries[j].Amount) {
			return entries[i].Amount.GreaterThan(entries[j].Amount)
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// percentage returns amount/total × 100 as a float, 0 when total is zero.
func percentage(amount, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	p, _ := amount.Div(total).Mul(decimal.NewFromInt(100)).Float64()
	return p
}

// TopWithOther keeps the n largest entries and folds the rest into a
// synthetic "Other" bucket whose percentage is computed from the same
// total, so the sum of returned amounts always equals the sum of inputs.
func TopWithOther(entries []domain.BreakdownEntry, n int) []domain.BreakdownEntry {
	if n <= 0 || len(entries) <= n {
		return entries
	}

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}

	out := make([]domain.BreakdownEntry, n, n+1)
	copy(out, entries[:n])

	other := domain.BreakdownEntry{Key: "Other"}
	for _, e := range entries[n:] {
		other.Amount = other.Amount.Add(e.Amount)
		other.Count += e.Count
	}
	other.Percentage = percentage(other.Amount, total)
	return append(out, other)
}

// ByCurrency groups expenses by original currency, summing original
// (pre-conversion) amounts. Unlike the other breakdowns this sorts
// descending by count: how often a traveller reached for a currency, not
// how much it added up to.
func ByCurrency(expenses []domain.Expense) []domain.CurrencyGroup {
	byCode := map[string]*domain.CurrencyGroup{}
	for _, e := range expenses {
		g, ok := byCode[e.Currency]
		if !ok {
			g = &domain.CurrencyGroup{Currency: e.Currency}
			byCode[e.Currency] = g
		}
		g.Amount = g.Amount.Add(e.Amount)
		g.Count++
	}

	groups := make([]domain.CurrencyGroup, 0, len(byCode))
	for _, g := range byCode {
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Currency < groups[j].Currency
	})
	return groups
}

// DailySeries buckets converted expenses by experience date (usage date
// when set, payment date otherwise), ascending by date. Only dates with at
// least one expense appear — this is not a filled calendar range. Buckets
// dated after today are marked Future.
func DailySeries(expenses []domain.Expense, today time.Time) []domain.DailySpend {
	today = domain.DateOnly(today)

	byDate := map[time.Time]*domain.DailySpend{}
	for _, e := range expenses {
		if e.ConvertedAmount == nil {
			continue
		}
		d := e.ExperienceDate()
		bucket, ok := byDate[d]
		if !ok {
			bucket = &domain.DailySpend{Date: d, Future: d.After(today)}
			byDate[d] = bucket
		}
		bucket.Amount = bucket.Amount.Add(*e.ConvertedAmount)
		bucket.Count++
	}

	series := make([]domain.DailySpend, 0, len(byDate))
	for _, b := range byDate {
		series = append(series, *b)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series
}

// aboveAverageFactor flags accommodation entries priced more than 20% over
// the average per-night price of the qualifying set.
var aboveAverageFactor = decimal.RequireFromString("1.2")

// Accommodation computes per-night stats over lodging expenses that have a
// positive nights count and a resolved converted amount. Returns nil when
// no expense qualifies.
func Accommodation(expenses []domain.Expense) *domain.AccommodationStats {
	var qualifying []domain.Expense
	for _, e := range expenses {
		if e.Category == domain.CategoryLodging && e.Nights != nil && *e.Nights > 0 && e.Converted() {
			qualifying = append(qualifying, e)
		}
	}
	if len(qualifying) == 0 {
		return nil
	}

	stats := &domain.AccommodationStats{}
	for _, e := range qualifying {
		stats.TotalSpent = stats.TotalSpent.Add(*e.ConvertedAmount)
		stats.TotalNights += *e.Nights
	}
	stats.AveragePerNight = stats.TotalSpent.Div(decimal.NewFromInt(int64(stats.TotalNights))).RoundBank(2)

	threshold := stats.AveragePerNight.Mul(aboveAverageFactor)
	for _, e := range qualifying {
		perNight := e.ConvertedAmount.Div(decimal.NewFromInt(int64(*e.Nights))).RoundBank(2)
		stats.Entries = append(stats.Entries, domain.AccommodationEntry{
			ExpenseID:     e.ID.String(),
			Note:          e.Note,
			Nights:        *e.Nights,
			TotalPrice:    *e.ConvertedAmount,
			PricePerNight: perNight,
			AboveAverage:  perNight.GreaterThan(threshold),
		})
	}
	return stats
}
