package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category classifies an expense. The set is closed: every category stored
// in the database is one of the constants below.
type Category string

const (
	CategoryFood       Category = "food"
	CategoryTransport  Category = "transport"
	CategoryFlights    Category = "flights"
	CategoryLodging    Category = "lodging"
	CategoryActivities Category = "activities"
	CategoryShopping   Category = "shopping"
	CategoryHealth     Category = "health"
	CategoryOther      Category = "other"
)

// Categories lists every valid category, in display order.
var Categories = []Category{
	CategoryFood, CategoryTransport, CategoryFlights, CategoryLodging,
	CategoryActivities, CategoryShopping, CategoryHealth, CategoryOther,
}

// ParseCategory validates a raw string against the closed category set.
// Returns ErrValidation for anything else.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if Category(s) == c {
			return c, nil
		}
	}
	return "", ErrValidation
}

// RateSource records how an expense's FX rate was obtained.
type RateSource string

const (
	// RateSourceAuto means the rate came from the live provider or the
	// cached snapshot (possibly stale — no staleness window is enforced).
	RateSourceAuto RateSource = "auto"
	// RateSourceManual means the user supplied the rate verbatim.
	RateSourceManual RateSource = "manual"
)

// Expense is a single spending event on a trip.
//
// Amount is always in Currency (the original currency the money was spent
// in). ConvertedAmount is the same value expressed in the trip's base
// currency; it is nil only when no FX rate could be resolved. When
// Currency equals the trip's base currency, ConvertedAmount equals Amount
// exactly and FxRate is exactly 1.
type Expense struct {
	ID     uuid.UUID
	TripID uuid.UUID

	Amount   decimal.Decimal
	Currency string

	Category Category
	// Country is the ISO 3166-1 alpha-2 code where the money was spent.
	// Empty for flights, which belong to no single country.
	Country string
	// Note is free-text merchant or description.
	Note string

	// Date is the payment date.
	Date time.Time
	// UsageDate, when set, is the date the expense's benefit is consumed
	// (e.g. a hotel booked today for next month). Never before Date.
	UsageDate *time.Time
	// IsFuture marks the expense as pre-paid for a later date. Reporting
	// classifies it as future only while UsageDate is still ahead of today.
	IsFuture bool

	// Nights is the stay length for lodging expenses; nil otherwise.
	Nights *int

	ConvertedAmount *decimal.Decimal
	FxRate          *decimal.Decimal
	FxSource        *RateSource

	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Converted reports whether the expense has a usable converted amount.
func (e Expense) Converted() bool {
	return e.ConvertedAmount != nil && e.ConvertedAmount.IsPositive()
}

// ExperienceDate returns the date the expense's benefit is consumed:
// UsageDate when set, otherwise the payment date. Daily spend bucketing
// groups by this, not by payment date.
func (e Expense) ExperienceDate() time.Time {
	if e.UsageDate != nil {
		return DateOnly(*e.UsageDate)
	}
	return DateOnly(e.Date)
}
