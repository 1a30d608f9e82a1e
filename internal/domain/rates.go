package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSnapshot is a cached mapping from one base currency to the per-unit
// rates of other currencies at a point in time.
//
// Orientation matters and is fixed across the whole system: for a snapshot
// with base B, Rates[X] is "units of X per 1 unit of B" — the orientation
// live rate APIs use. The per-expense rate stored on an Expense is the
// inverse ("units of base per 1 unit of original"); that inversion happens
// in exactly one place, the fx resolver.
//
// Snapshots are not authoritative: they are a write-through cache refreshed
// after every successful live lookup and read as a fallback when the live
// source is unavailable. Overwrites are last-write-wins; no staleness
// window is enforced.
type RateSnapshot struct {
	BaseCurrency string
	Rates        map[string]decimal.Decimal
	UpdatedAt    time.Time
}

// Rate returns the per-unit rate for currency (units of currency per 1 unit
// of the snapshot base), and whether a positive rate is present.
func (s RateSnapshot) Rate(currency string) (decimal.Decimal, bool) {
	r, ok := s.Rates[currency]
	if !ok || !r.IsPositive() {
		return decimal.Decimal{}, false
	}
	return r, true
}
