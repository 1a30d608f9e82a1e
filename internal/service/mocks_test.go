package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tripledger/api/internal/domain"
	"github.com/tripledger/api/internal/fx"
	"github.com/tripledger/api/internal/repo"
	"github.com/tripledger/api/internal/service"
)

// Hand-written test doubles for the repo interfaces. Each method is a
// function field — set only the ones your test needs; unset methods panic,
// which surfaces unexpected calls immediately.

type mockTripRepo struct {
	create     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listByUser func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListByUser(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listByUser(ctx, userID, p)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockMemberRepo struct {
	upsert     func(ctx context.Context, m domain.Member) (domain.Member, error)
	get        func(ctx context.Context, tripID, userID uuid.UUID) (domain.Member, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Member, error)
	remove     func(ctx context.Context, tripID, userID uuid.UUID) error
}

func (m *mockMemberRepo) Upsert(ctx context.Context, member domain.Member) (domain.Member, error) {
	return m.upsert(ctx, member)
}
func (m *mockMemberRepo) Get(ctx context.Context, tripID, userID uuid.UUID) (domain.Member, error) {
	return m.get(ctx, tripID, userID)
}
func (m *mockMemberRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Member, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockMemberRepo) Remove(ctx context.Context, tripID, userID uuid.UUID) error {
	return m.remove(ctx, tripID, userID)
}

var _ repo.MemberRepo = (*mockMemberRepo)(nil)

type mockExpenseRepo struct {
	create          func(ctx context.Context, e domain.Expense) (domain.Expense, error)
	getByID         func(ctx context.Context, tripID, expenseID uuid.UUID) (domain.Expense, error)
	listByTrip      func(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)
	listByTripPaged func(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Expense, int64, error)
	update          func(ctx context.Context, e domain.Expense) (domain.Expense, error)
	delete          func(ctx context.Context, tripID, expenseID uuid.UUID) error
	countByTrip     func(ctx context.Context, tripID uuid.UUID) (int64, error)
}

func (m *mockExpenseRepo) Create(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	return m.create(ctx, e)
}
func (m *mockExpenseRepo) GetByID(ctx context.Context, tripID, expenseID uuid.UUID) (domain.Expense, error) {
	return m.getByID(ctx, tripID, expenseID)
}
func (m *mockExpenseRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	return m.listByTrip(ctx, tripID)
}
func (m *mockExpenseRepo) ListByTripPaged(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Expense, int64, error) {
	return m.listByTripPaged(ctx, tripID, p)
}
func (m *mockExpenseRepo) Update(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	return m.update(ctx, e)
}
func (m *mockExpenseRepo) Delete(ctx context.Context, tripID, expenseID uuid.UUID) error {
	return m.delete(ctx, tripID, expenseID)
}
func (m *mockExpenseRepo) CountByTrip(ctx context.Context, tripID uuid.UUID) (int64, error) {
	return m.countByTrip(ctx, tripID)
}

var _ repo.ExpenseRepo = (*mockExpenseRepo)(nil)

// mockConverter is a test double for the service.Converter interface.
type mockConverter struct {
	convert func(ctx context.Context, amount decimal.Decimal, from, to string, on time.Time, manual *decimal.Decimal) (fx.Conversion, error)
}

func (m *mockConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to string, on time.Time, manual *decimal.Decimal) (fx.Conversion, error) {
	return m.convert(ctx, amount, from, to, on, manual)
}

var _ service.Converter = (*mockConverter)(nil)

// ---- shared helpers --------------------------------------------------------

var (
	ownerID  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	editorID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	viewerID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	otherID  = uuid.MustParse("44444444-4444-4444-4444-444444444444")
	tripID   = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// membersFixture resolves roles for the well-known user IDs above and
// answers ErrNotFound for anyone else.
func membersFixture() *mockMemberRepo {
	return &mockMemberRepo{
		get: func(_ context.Context, _ uuid.UUID, userID uuid.UUID) (domain.Member, error) {
			switch userID {
			case ownerID:
				return domain.Member{TripID: tripID, UserID: userID, Role: domain.RoleOwner}, nil
			case editorID:
				return domain.Member{TripID: tripID, UserID: userID, Role: domain.RoleEditor}, nil
			case viewerID:
				return domain.Member{TripID: tripID, UserID: userID, Role: domain.RoleViewer}, nil
			}
			return domain.Member{}, domain.ErrNotFound
		},
	}
}

func validTrip() domain.Trip {
	return domain.Trip{
		ID:           tripID,
		Name:         "Japan 2025",
		BaseCurrency: "USD",
	}
}

// tripStore returns a trip repo that serves and echoes validTrip.
func tripStore() *mockTripRepo {
	return &mockTripRepo{
		create: func(_ context.Context, t domain.Trip) (domain.Trip, error) {
			t.ID = tripID
			return t, nil
		},
		getByID: func(context.Context, uuid.UUID) (domain.Trip, error) { return validTrip(), nil },
		update:  func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
		delete:  func(context.Context, uuid.UUID) error { return nil },
	}
}

func validExpense() domain.Expense {
	return domain.Expense{
		TripID:   tripID,
		Amount:   dec("42.50"),
		Currency: "EUR",
		Category: domain.CategoryFood,
		Country:  "FR",
		Date:     time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
	}
}

// echoExpenses echoes writes back — for tests that only care about what the
// service computed, not what the DB did.
func echoExpenses() *mockExpenseRepo {
	return &mockExpenseRepo{
		create: func(_ context.Context, e domain.Expense) (domain.Expense, error) { return e, nil },
		update: func(_ context.Context, e domain.Expense) (domain.Expense, error) { return e, nil },
	}
}

// identityConverter resolves every request at rate 1.
func identityConverter() *mockConverter {
	return &mockConverter{
		convert: func(_ context.Context, amount decimal.Decimal, _, _ string, _ time.Time, _ *decimal.Decimal) (fx.Conversion, error) {
			return fx.Conversion{
				Amount:   amount,
				Rate:     decimal.NewFromInt(1),
				Source:   domain.RateSourceAuto,
				Resolved: true,
			}, nil
		},
	}
}

// unresolvedConverter never finds a rate.
func unresolvedConverter() *mockConverter {
	return &mockConverter{
		convert: func(context.Context, decimal.Decimal, string, string, time.Time, *decimal.Decimal) (fx.Conversion, error) {
			return fx.Conversion{Resolved: false}, nil
		},
	}
}
