package fx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripledger/api/internal/domain"
	"github.com/tripledger/api/internal/fx"
)

// mockProvider is a hand-written test double for fx.RateProvider.
type mockProvider struct {
	fetchRates func(ctx context.Context, base string, on time.Time) (domain.RateSnapshot, error)
}

func (m *mockProvider) FetchRates(ctx context.Context, base string, on time.Time) (domain.RateSnapshot, error) {
	return m.fetchRates(ctx, base, on)
}

var _ fx.RateProvider = (*mockProvider)(nil)

// mockStore is a hand-written test double for fx.SnapshotStore.
// Each method is a function field — set only the ones your test needs.
type mockStore struct {
	get func(ctx context.Context, base string) (domain.RateSnapshot, error)
	put func(ctx context.Context, snap domain.RateSnapshot) error
}

func (m *mockStore) Get(ctx context.Context, base string) (domain.RateSnapshot, error) {
	return m.get(ctx, base)
}
func (m *mockStore) Put(ctx context.Context, snap domain.RateSnapshot) error {
	return m.put(ctx, snap)
}

var _ fx.SnapshotStore = (*mockStore)(nil)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// emptyStore has no snapshots and accepts writes silently.
func emptyStore() *mockStore {
	return &mockStore{
		get: func(context.Context, string) (domain.RateSnapshot, error) {
			return domain.RateSnapshot{}, domain.ErrNotFound
		},
		put: func(context.Context, domain.RateSnapshot) error { return nil },
	}
}

func usdSnapshot(updated time.Time) domain.RateSnapshot {
	return domain.RateSnapshot{
		BaseCurrency: "USD",
		Rates: map[string]decimal.Decimal{
			"EUR": decimal.RequireFromString("0.92"),
			"JPY": decimal.RequireFromString("150"),
		},
		UpdatedAt: updated,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ---- input validation ------------------------------------------------------

func TestResolver_Convert_BadCurrency(t *testing.T) {
	r := fx.NewResolver(nil, emptyStore(), testLogger())

	for _, pair := range [][2]string{{"usd", "EUR"}, {"USD", "EURO"}, {"", "EUR"}, {"US1", "EUR"}} {
		_, err := r.Convert(context.Background(), dec("10"), pair[0], pair[1], time.Time{}, nil)
		assert.ErrorIs(t, err, domain.ErrValidation, "pair %v", pair)
	}
}

// ---- same currency ---------------------------------------------------------

func TestResolver_Convert_SameCurrency(t *testing.T) {
	// Same-currency conversion must return the amount untouched — not
	// multiplied by 1 and re-rounded — so stored and converted amounts are
	// identical to the digit.
	r := fx.NewResolver(nil, emptyStore(), testLogger())

	amount := dec("123.4567")
	conv, err := r.Convert(context.Background(), amount, "USD", "USD", time.Time{}, nil)

	require.NoError(t, err)
	assert.True(t, conv.Resolved)
	assert.True(t, conv.Amount.Equal(amount), "amount changed: %s", conv.Amount)
	assert.True(t, conv.Rate.Equal(dec("1")))
	assert.Equal(t, domain.RateSourceAuto, conv.Source)
}

// ---- manual override -------------------------------------------------------

func TestResolver_Convert_ManualRateWins(t *testing.T) {
	// A manual rate beats the live provider: the provider must not even be
	// consulted.
	provider := &mockProvider{
		fetchRates: func(context.Context, string, time.Time) (domain.RateSnapshot, error) {
			t.Fatal("provider should not be called when a manual rate is set")
			return domain.RateSnapshot{}, nil
		},
	}
	r := fx.NewResolver(provider, emptyStore(), testLogger())

	manual := dec("3.5")
	conv, err := r.Convert(context.Background(), dec("100"), "EUR", "USD", time.Time{}, &manual)

	require.NoError(t, err)
	assert.True(t, conv.Resolved)
	assert.True(t, conv.Amount.Equal(dec("350")), "got %s", conv.Amount)
	assert.True(t, conv.Rate.Equal(manual))
	assert.Equal(t, domain.RateSourceManual, conv.Source)
}

func TestResolver_Convert_NonPositiveManualIgnored(t *testing.T) {
	// A zero or negative manual rate is treated as absent and the ladder
	// proceeds — here down to the static fallback table.
	r := fx.NewResolver(nil, emptyStore(), testLogger())

	zero := decimal.Zero
	conv, err := r.Convert(context.Background(), dec("92"), "EUR", "USD", time.Time{}, &zero)

	require.NoError(t, err)
	assert.True(t, conv.Resolved)
	assert.Equal(t, domain.RateSourceAuto, conv.Source)
}

// ---- live provider ---------------------------------------------------------

func TestResolver_Convert_LiveProvider(t *testing.T) {
	updated := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	provider := &mockProvider{
		fetchRates: func(_ context.Context, base string, _ time.Time) (domain.RateSnapshot, error) {
			assert.Equal(t, "USD", base, "snapshots are fetched for the target currency")
			return usdSnapshot(updated), nil
		},
	}
	var cached *domain.RateSnapshot
	store := emptyStore()
	store.put = func(_ context.Context, snap domain.RateSnapshot) error {
		cached = &snap
		return nil
	}
	r := fx.NewResolver(provider, store, testLogger())

	// 92 EUR at 0.92 EUR per USD → 100 USD. The snapshot holds EUR-per-USD;
	// the stored rate must be the inverse (USD per EUR).
	conv, err := r.Convert(context.Background(), dec("92"), "EUR", "USD", time.Time{}, nil)

	require.NoError(t, err)
	assert.True(t, conv.Resolved)
	assert.True(t, conv.Amount.Equal(dec("100")), "got %s", conv.Amount)
	assert.True(t, conv.Rate.Mul(dec("0.92")).Sub(dec("1")).Abs().LessThan(dec("0.0000001")),
		"rate should be ~1/0.92, got %s", conv.Rate)
	assert.Equal(t, updated, conv.AsOf)

	// Write-through: the fetched table must land in the store.
	require.NotNil(t, cached, "snapshot was not cached")
	assert.Equal(t, "USD", cached.BaseCurrency)
}

func TestResolver_Convert_CacheWriteFailureIsNotFatal(t *testing.T) {
	provider := &mockProvider{
		fetchRates: func(_ context.Context, _ string, _ time.Time) (domain.RateSnapshot, error) {
			return usdSnapshot(time.Now()), nil
		},
	}
	store := emptyStore()
	store.put = func(context.Context, domain.RateSnapshot) error {
		return errors.New("disk full")
	}
	r := fx.NewResolver(provider, store, testLogger())

	conv, err := r.Convert(context.Background(), dec("92"), "EUR", "USD", time.Time{}, nil)

	require.NoError(t, err)
	assert.True(t, conv.Resolved)
}

// ---- cached snapshot -------------------------------------------------------

func TestResolver_Convert_FallsBackToCachedSnapshot(t *testing.T) {
	provider := &mockProvider{
		fetchRates: func(context.Context, string, time.Time) (domain.RateSnapshot, error) {
			return domain.RateSnapshot{}, errors.New("provider down")
		},
	}
	updated := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	store := emptyStore()
	store.get = func(_ context.Context, base string) (domain.RateSnapshot, error) {
		require.Equal(t, "USD", base)
		return usdSnapshot(updated), nil
	}
	r := fx.NewResolver(provider, store, testLogger())

	conv, err := r.Convert(context.Background(), dec("15000"), "JPY", "USD", time.Time{}, nil)

	require.NoError(t, err)
	assert.True(t, conv.Resolved)
	assert.True(t, conv.Amount.Equal(dec("100")), "got %s", conv.Amount)
	assert.Equal(t, updated, conv.AsOf)
}

func TestResolver_Convert_StoreErrorPropagates(t *testing.T) {
	store := emptyStore()
	store.get = func(context.Context, string) (domain.RateSnapshot, error) {
		return domain.RateSnapshot{}, errors.New("connection refused")
	}
	r := fx.NewResolver(nil, store, testLogger())

	_, err := r.Convert(context.Background(), dec("10"), "EUR", "USD", time.Time{}, nil)

	assert.Error(t, err)
}

// ---- static fallback table -------------------------------------------------

func TestResolver_Convert_StaticFallback(t *testing.T) {
	// No provider, no cache: the static per-USD table is the last source.
	// 92 EUR at the table's 0.92 EUR per USD → 100 USD.
	r := fx.NewResolver(nil, emptyStore(), testLogger())

	conv, err := r.Convert(context.Background(), dec("92"), "EUR", "USD", time.Time{}, nil)

	require.NoError(t, err)
	assert.True(t, conv.Resolved)
	assert.True(t, conv.Amount.Equal(dec("100")), "got %s", conv.Amount)
	assert.Equal(t, domain.RateSourceAuto, conv.Source)
	assert.True(t, conv.AsOf.IsZero(), "static fallback rates carry no timestamp")
}

func TestResolver_Convert_StaticFallbackCrossRate(t *testing.T) {
	// Neither side is USD: the table crosses through it.
	// 100 GBP → EUR: (0.92 EUR/USD) / (0.79 GBP/USD) EUR per GBP.
	r := fx.NewResolver(nil, emptyStore(), testLogger())

	conv, err := r.Convert(context.Background(), dec("100"), "GBP", "EUR", time.Time{}, nil)

	require.NoError(t, err)
	assert.True(t, conv.Resolved)
	expected := dec("100").Mul(dec("0.92").Div(dec("0.79"))).RoundBank(2)
	assert.True(t, conv.Amount.Equal(expected), "got %s want %s", conv.Amount, expected)
}

// ---- unresolved ------------------------------------------------------------

func TestResolver_Convert_Unresolved(t *testing.T) {
	// A currency nowhere to be found is not an error: the caller persists a
	// null conversion instead.
	r := fx.NewResolver(nil, emptyStore(), testLogger())

	conv, err := r.Convert(context.Background(), dec("10"), "XXX", "USD", time.Time{}, nil)

	require.NoError(t, err)
	assert.False(t, conv.Resolved)
	assert.True(t, conv.Amount.IsZero())
	assert.True(t, conv.Rate.IsZero())
}
