package fx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tripledger/api/internal/domain"
)

// SnapshotStore persists one RateSnapshot per base currency.
// Implemented by repo.RateRepo in production and by in-memory fakes in tests.
type SnapshotStore interface {
	// Get returns the stored snapshot for base.
	// Returns domain.ErrNotFound when no snapshot exists.
	Get(ctx context.Context, base string) (domain.RateSnapshot, error)
	// Put overwrites the snapshot for snap.BaseCurrency. Last write wins.
	Put(ctx context.Context, snap domain.RateSnapshot) error
}

// Conversion is the result of resolving one (amount, from, to, date) request.
//
// When Resolved is false no rate could be found anywhere; Amount and Rate
// are zero and the caller must persist a null converted amount rather than
// guessing. Rate unavailability is deliberately not an error — see the
// Resolver.Convert contract.
type Conversion struct {
	// Amount is the input amount expressed in the target currency.
	Amount decimal.Decimal
	// Rate is units of target currency per 1 unit of source currency.
	// This is the orientation stored on expenses. Snapshots hold the
	// opposite orientation; the flip happens here and nowhere else.
	Rate     decimal.Decimal
	Source   domain.RateSource
	Resolved bool
	// AsOf is when the winning rate was last updated. Zero for manual
	// rates and static-table fallbacks.
	AsOf time.Time
}

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidCurrency reports whether code is a well-formed ISO 4217 code.
func ValidCurrency(code string) bool {
	return currencyCodeRe.MatchString(code)
}

// Resolver produces conversion rates using a fixed preference ladder:
// same-currency shortcut, manual override, live provider (write-through to
// the snapshot store), stored snapshot, static fallback table, unresolved.
type Resolver struct {
	provider RateProvider
	store    SnapshotStore
	logger   *slog.Logger
}

// NewResolver constructs a Resolver. provider may be nil in deployments
// with no live rate source configured; the ladder then starts at the store.
func NewResolver(provider RateProvider, store SnapshotStore, logger *slog.Logger) *Resolver {
	return &Resolver{provider: provider, store: store, logger: logger}
}

// Convert resolves amount from one currency into another as of a date.
//
// manual, when non-nil and positive, is used verbatim as units-of-to per
// 1 unit-of-from and wins over every automatic source.
//
// The error return covers malformed input and context cancellation only.
// "No rate available anywhere" is not an error: it returns a Conversion
// with Resolved=false, and the caller decides what to do — expense writes
// persist a null converted amount, the calculator endpoint reports
// unavailability.
func (r *Resolver) Convert(ctx context.Context, amount decimal.Decimal, from, to string, on time.Time, manual *decimal.Decimal) (Conversion, error) {
	if !ValidCurrency(from) || !ValidCurrency(to) {
		return Conversion{}, fmt.Errorf("fx.Resolver.Convert: bad currency pair %q/%q: %w", from, to, domain.ErrValidation)
	}

	// Same currency: no lookup, exact identity. ConvertedAmount must equal
	// Amount to the digit, so Amount is passed through unmultiplied.
	if from == to {
		return Conversion{
			Amount:   amount,
			Rate:     decimal.NewFromInt(1),
			Source:   domain.RateSourceAuto,
			Resolved: true,
		}, nil
	}

	if manual != nil && manual.IsPositive() {
		return Conversion{
			Amount:   roundMoney(amount.Mul(*manual)),
			Rate:     *manual,
			Source:   domain.RateSourceManual,
			Resolved: true,
		}, nil
	}

	if r.provider != nil {
		snap, err := r.provider.FetchRates(ctx, to, on)
		if err == nil {
			// Write-through: cache the whole table for the base so later
			// lookups for any currency against this base can reuse it.
			if putErr := r.store.Put(ctx, snap); putErr != nil {
				r.logger.Warn("failed to cache rate snapshot", "base", to, "error", putErr)
			}
			if conv, ok := conversionFrom(snap, amount, from); ok {
				return conv, nil
			}
			r.logger.Warn("live rate table missing currency", "base", to, "currency", from)
		} else {
			if ctx.Err() != nil {
				return Conversion{}, fmt.Errorf("fx.Resolver.Convert: %w", ctx.Err())
			}
			r.logger.Warn("live rate lookup failed, falling back to cache", "base", to, "error", err)
		}
	}

	snap, err := r.store.Get(ctx, to)
	if err == nil {
		if conv, ok := conversionFrom(snap, amount, from); ok {
			return conv, nil
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return Conversion{}, fmt.Errorf("fx.Resolver.Convert: read snapshot: %w", err)
	}

	if snap, ok := fallbackSnapshot(to); ok {
		if conv, ok := conversionFrom(snap, amount, from); ok {
			r.logger.Info("resolved rate from static fallback table", "from", from, "to", to)
			return conv, nil
		}
	}

	return Conversion{Resolved: false}, nil
}

// conversionFrom derives a Conversion from a base=target snapshot.
// snap.Rates[from] is units-of-from per 1 target; the stored expense rate
// is its reciprocal. This is the single place the orientation is inverted.
func conversionFrom(snap domain.RateSnapshot, amount decimal.Decimal, from string) (Conversion, bool) {
	perUnit, ok := snap.Rate(from)
	if !ok {
		return Conversion{}, false
	}
	rate := decimal.NewFromInt(1).Div(perUnit)
	return Conversion{
		Amount:   roundMoney(amount.Mul(rate)),
		Rate:     rate,
		Source:   domain.RateSourceAuto,
		Resolved: true,
		AsOf:     snap.UpdatedAt,
	}, true
}

// roundMoney rounds a converted amount to 2 decimal places, banker's
// rounding. Stored original amounts are never rounded — only derived ones.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}
