// Package report reduces a trip's expense list into the reporting payload:
// classification into realized/future/unconverted, summary aggregates,
// breakdowns, the daily spend series, accommodation stats, and insights.
//
// Everything here is a pure, synchronous reduction over an in-memory slice.
// The reference "today" is computed once by the caller and threaded through
// so a single report never straddles a date change.
package report

import (
	"time"

	"github.com/tripledger/api/internal/domain"
)

// Classified partitions a trip's expenses into three disjoint buckets.
// Every expense lands in exactly one bucket; order within a bucket follows
// input order.
type Classified struct {
	// Realized expenses have a converted amount and their benefit is not
	// deferred past today.
	Realized []domain.Expense
	// Future expenses are converted, flagged as pre-paid, and have a usage
	// date still ahead of today.
	Future []domain.Expense
	// Unconverted expenses have no usable converted amount (no rate could
	// be resolved).
	Unconverted []domain.Expense
}

// Classify partitions expenses relative to today.
//
// The rules, checked in order per expense:
//  1. no positive converted amount → Unconverted
//  2. pre-paid flag set and usage date after today → Future
//  3. otherwise → Realized
func Classify(expenses []domain.Expense, today time.Time) Classified {
	today = domain.DateOnly(today)

	var c Classified
	for _, e := range expenses {
		switch {
		case !e.Converted():
			c.Unconverted = append(c.Unconverted, e)
		case e.IsFuture && e.UsageDate != nil && domain.DateOnly(*e.UsageDate).After(today):
			c.Future = append(c.Future, e)
		default:
			c.Realized = append(c.Realized, e)
		}
	}
	return c
}
