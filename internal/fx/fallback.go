package fx

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tripledger/api/internal/domain"
)

// fallbackPerUSD holds approximate units-per-USD rates for the currencies
// travellers spend in most. It is immutable, process-wide configuration —
// the absolute last resort when both the live provider and the cached
// snapshot come up empty. Rates resolved from it carry source "auto" like
// any cached rate; the converted amount is better than nothing but should
// be refreshed once the live provider recovers.
var fallbackPerUSD = map[string]decimal.Decimal{
	"USD": decimal.NewFromInt(1),
	"EUR": decimal.RequireFromString("0.92"),
	"GBP": decimal.RequireFromString("0.79"),
	"JPY": decimal.RequireFromString("149.50"),
	"CHF": decimal.RequireFromString("0.88"),
	"CAD": decimal.RequireFromString("1.36"),
	"AUD": decimal.RequireFromString("1.52"),
	"NZD": decimal.RequireFromString("1.64"),
	"SEK": decimal.RequireFromString("10.45"),
	"NOK": decimal.RequireFromString("10.60"),
	"DKK": decimal.RequireFromString("6.87"),
	"PLN": decimal.RequireFromString("3.98"),
	"CZK": decimal.RequireFromString("23.20"),
	"HUF": decimal.RequireFromString("355.00"),
	"MXN": decimal.RequireFromString("17.10"),
	"BRL": decimal.RequireFromString("4.97"),
	"THB": decimal.RequireFromString("35.60"),
	"VND": decimal.RequireFromString("24400"),
	"IDR": decimal.RequireFromString("15600"),
	"INR": decimal.RequireFromString("83.10"),
	"CNY": decimal.RequireFromString("7.19"),
	"KRW": decimal.RequireFromString("1330.00"),
	"SGD": decimal.RequireFromString("1.34"),
	"HKD": decimal.RequireFromString("7.82"),
	"TRY": decimal.RequireFromString("32.10"),
	"ZAR": decimal.RequireFromString("18.70"),
	"AED": decimal.RequireFromString("3.67"),
}

// fallbackRate returns the units-of-from per 1 unit-of-base rate derived
// from the static table by crossing through USD. Both currencies must be
// in the table.
func fallbackRate(from, base string) (decimal.Decimal, bool) {
	f, okF := fallbackPerUSD[from]
	b, okB := fallbackPerUSD[base]
	if !okF || !okB || !b.IsPositive() {
		return decimal.Decimal{}, false
	}
	// (from per USD) / (base per USD) = from per base.
	return f.Div(b), true
}

// fallbackSnapshot builds a RateSnapshot for base from the static table.
// UpdatedAt is the zero time so callers can tell it apart from a real cache
// entry.
func fallbackSnapshot(base string) (domain.RateSnapshot, bool) {
	if _, ok := fallbackPerUSD[base]; !ok {
		return domain.RateSnapshot{}, false
	}
	rates := make(map[string]decimal.Decimal, len(fallbackPerUSD))
	for code := range fallbackPerUSD {
		r, ok := fallbackRate(code, base)
		if !ok {
			continue
		}
		rates[code] = r
	}
	return domain.RateSnapshot{BaseCurrency: base, Rates: rates, UpdatedAt: time.Time{}}, true
}
