// Package domain contains the core data types for the trip expense tracker.
// This package has no dependencies on other internal packages and is imported
// by every layer above it (fx, report, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Trip is the top-level aggregate: a container of expenses sharing a base
// currency and a membership list. All converted expense amounts are
// normalized into BaseCurrency.
type Trip struct {
	ID   uuid.UUID
	Name string

	// BaseCurrency is the ISO 4217 code all expenses are converted into.
	// It becomes immutable once the trip has at least one expense.
	BaseCurrency string

	StartDate *time.Time // nil when the trip has no fixed dates
	EndDate   *time.Time

	// Countries lists planned or visited ISO 3166-1 alpha-2 codes.
	Countries []string

	// CurrentCountry and CurrentCurrency form the mutable "where am I now"
	// pointer used by the quick-add flow to prefill new expenses.
	CurrentCountry  string
	CurrentCurrency string

	// TargetBudget is an optional spending target in the base currency.
	TargetBudget *decimal.Decimal

	// Closed trips reject new expenses and expense edits.
	Closed bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InclusiveDays returns the number of calendar days from a to b inclusive,
// with a minimum of 1 when b is not before a. Returns 0 when b < a.
func InclusiveDays(a, b time.Time) int {
	a = DateOnly(a)
	b = DateOnly(b)
	if b.Before(a) {
		return 0
	}
	return int(b.Sub(a).Hours()/24) + 1
}

// DateOnly truncates a timestamp to midnight UTC. All date comparisons in
// reporting operate on calendar days, never on wall-clock instants.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
