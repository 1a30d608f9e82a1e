package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/tripledger/api/internal/domain"
	"github.com/tripledger/api/internal/fx"
	"github.com/tripledger/api/internal/handler"
)

// Test doubles for the handler-side service interfaces. Each method is a
// function field — set only the ones your test needs.

type mockTripServicer struct {
	create       func(ctx context.Context, ownerID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	getByID      func(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	list         func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update       func(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	close        func(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	reopen       func(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	delete       func(ctx context.Context, userID, tripID uuid.UUID) error
	addMember    func(ctx context.Context, actorID, tripID, userID uuid.UUID, role domain.Role) (domain.Member, error)
	removeMember func(ctx context.Context, actorID, tripID, userID uuid.UUID) error
	listMembers  func(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Member, error)
}

func (m *mockTripServicer) Create(ctx context.Context, ownerID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, ownerID, trip)
}
func (m *mockTripServicer) GetByID(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, userID, tripID)
}
func (m *mockTripServicer) List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.list(ctx, userID, p)
}
func (m *mockTripServicer) Update(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, userID, trip)
}
func (m *mockTripServicer) Close(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	return m.close(ctx, userID, tripID)
}
func (m *mockTripServicer) Reopen(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	return m.reopen(ctx, userID, tripID)
}
func (m *mockTripServicer) Delete(ctx context.Context, userID, tripID uuid.UUID) error {
	return m.delete(ctx, userID, tripID)
}
func (m *mockTripServicer) AddMember(ctx context.Context, actorID, tripID, userID uuid.UUID, role domain.Role) (domain.Member, error) {
	return m.addMember(ctx, actorID, tripID, userID, role)
}
func (m *mockTripServicer) RemoveMember(ctx context.Context, actorID, tripID, userID uuid.UUID) error {
	return m.removeMember(ctx, actorID, tripID, userID)
}
func (m *mockTripServicer) ListMembers(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Member, error) {
	return m.listMembers(ctx, userID, tripID)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockExpenseServicer struct {
	create  func(ctx context.Context, userID uuid.UUID, e domain.Expense, manualRate *decimal.Decimal) (domain.Expense, error)
	getByID func(ctx context.Context, userID, tripID, expenseID uuid.UUID) (domain.Expense, error)
	list    func(ctx context.Context, userID, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Expense, int64, error)
	update  func(ctx context.Context, userID uuid.UUID, e domain.Expense, manualRate *decimal.Decimal) (domain.Expense, error)
	delete  func(ctx context.Context, userID, tripID, expenseID uuid.UUID) error
}

func (m *mockExpenseServicer) Create(ctx context.Context, userID uuid.UUID, e domain.Expense, manualRate *decimal.Decimal) (domain.Expense, error) {
	return m.create(ctx, userID, e, manualRate)
}
func (m *mockExpenseServicer) GetByID(ctx context.Context, userID, tripID, expenseID uuid.UUID) (domain.Expense, error) {
	return m.getByID(ctx, userID, tripID, expenseID)
}
func (m *mockExpenseServicer) List(ctx context.Context, userID, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Expense, int64, error) {
	return m.list(ctx, userID, tripID, p)
}
func (m *mockExpenseServicer) Update(ctx context.Context, userID uuid.UUID, e domain.Expense, manualRate *decimal.Decimal) (domain.Expense, error) {
	return m.update(ctx, userID, e, manualRate)
}
func (m *mockExpenseServicer) Delete(ctx context.Context, userID, tripID, expenseID uuid.UUID) error {
	return m.delete(ctx, userID, tripID, expenseID)
}

var _ handler.ExpenseServicer = (*mockExpenseServicer)(nil)

type mockReportBuilder struct {
	build func(ctx context.Context, userID, tripID uuid.UUID) (domain.Report, error)
}

func (m *mockReportBuilder) Build(ctx context.Context, userID, tripID uuid.UUID) (domain.Report, error) {
	return m.build(ctx, userID, tripID)
}

var _ handler.ReportBuilder = (*mockReportBuilder)(nil)

type mockConverter struct {
	convert func(ctx context.Context, amount decimal.Decimal, from, to string, on time.Time) (fx.Conversion, error)
}

func (m *mockConverter) Convert(ctx context.Context, amount decimal.Decimal, from, to string, on time.Time) (fx.Conversion, error) {
	return m.convert(ctx, amount, from, to, on)
}

var _ handler.CurrencyConverter = (*mockConverter)(nil)

type mockAdminStatser struct {
	stats func(ctx context.Context) (domain.AdminStats, error)
}

func (m *mockAdminStatser) Stats(ctx context.Context) (domain.AdminStats, error) {
	return m.stats(ctx)
}

var _ handler.AdminStatser = (*mockAdminStatser)(nil)

// ---- helpers ---------------------------------------------------------------

var (
	testUserID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	testTripID = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
)

// serverOpts bundles the optional dependencies of a test Server.
type serverOpts struct {
	trips    handler.TripServicer
	expenses handler.ExpenseServicer
	reports  handler.ReportBuilder
	convert  handler.CurrencyConverter
	admin    handler.AdminStatser
}

// newTestRouter builds the same route tree production uses, around mocks.
func newTestRouter(opts serverOpts) http.Handler {
	srv := handler.NewServer(opts.trips, opts.expenses, opts.reports, opts.convert, opts.admin, nil)
	return srv.Routes()
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:           testTripID,
		Name:         "Japan 2025",
		BaseCurrency: "USD",
		Countries:    []string{"JP"},
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// doRequest performs a request against the router with the identity header
// set and decodes the JSON response body into out (when non-nil).
func doRequest(t *testing.T, h http.Handler, method, target string, body *bytes.Buffer, out any) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("X-User-ID", testUserID.String())
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}
