package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tripledger/api/internal/domain"
	"github.com/tripledger/api/internal/fx"
	"github.com/tripledger/api/internal/repo"
)

// Converter resolves currency conversions. Implemented by *fx.Resolver in
// production; tests inject a stub.
type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string, on time.Time, manual *decimal.Decimal) (fx.Conversion, error)
}

// ExpenseService implements business logic for Expense operations,
// including FX resolution on create and selective re-resolution on edit.
type ExpenseService struct {
	trips    repo.TripRepo
	members  repo.MemberRepo
	expenses repo.ExpenseRepo
	fx       Converter
}

// NewExpenseService constructs an ExpenseService.
func NewExpenseService(trips repo.TripRepo, members repo.MemberRepo, expenses repo.ExpenseRepo, converter Converter) *ExpenseService {
	return &ExpenseService{trips: trips, members: members, expenses: expenses, fx: converter}
}

// Create validates and persists a new expense, resolving its FX conversion
// once. The caller must be an owner or editor, and the trip must be open.
//
// Rate resolution is lenient: when no rate can be found the expense is
// persisted with a null converted amount, and the response carries the
// unresolved state for the client to surface. manualRate, when given,
// overrides every automatic source.
func (s *ExpenseService) Create(ctx context.Context, userID uuid.UUID, e domain.Expense, manualRate *decimal.Decimal) (domain.Expense, error) {
	if _, err := requireEditor(ctx, s.members, e.TripID, userID); err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	trip, err := s.trips.GetByID(ctx, e.TripID)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	if trip.Closed {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", domain.ErrTripClosed)
	}

	normalizeExpense(&e)
	if err := validateExpense(e); err != nil {
		return domain.Expense{}, err
	}

	e.CreatedBy = userID
	if err := s.resolve(ctx, &e, trip.BaseCurrency, manualRate); err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}

	created, err := s.expenses.Create(ctx, e)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns one expense. Any trip member may read it.
func (s *ExpenseService) GetByID(ctx context.Context, userID, tripID, expenseID uuid.UUID) (domain.Expense, error) {
	if _, err := requireMember(ctx, s.members, tripID, userID); err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.GetByID: %w", err)
	}
	e, err := s.expenses.GetByID(ctx, tripID, expenseID)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.GetByID: %w", err)
	}
	return e, nil
}

// List returns one page of a trip's expenses plus the total count.
func (s *ExpenseService) List(ctx context.Context, userID, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Expense, int64, error) {
	if _, err := requireMember(ctx, s.members, tripID, userID); err != nil {
		return nil, 0, fmt.Errorf("service.ExpenseService.List: %w", err)
	}
	expenses, total, err := s.expenses.ListByTripPaged(ctx, tripID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ExpenseService.List: %w", err)
	}
	return expenses, total, nil
}

// Update validates and persists changes to an expense.
//
// The FX conversion is re-resolved only when the currency, amount, or
// payment date changed, or when a manual rate is supplied; otherwise the
// stored conversion is kept untouched.
func (s *ExpenseService) Update(ctx context.Context, userID uuid.UUID, e domain.Expense, manualRate *decimal.Decimal) (domain.Expense, error) {
	if _, err := requireEditor(ctx, s.members, e.TripID, userID); err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", err)
	}
	trip, err := s.trips.GetByID(ctx, e.TripID)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", err)
	}
	if trip.Closed {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", domain.ErrTripClosed)
	}

	current, err := s.expenses.GetByID(ctx, e.TripID, e.ID)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", err)
	}

	normalizeExpense(&e)
	if err := validateExpense(e); err != nil {
		return domain.Expense{}, err
	}

	e.CreatedBy = current.CreatedBy
	if needsReresolution(current, e) || manualRate != nil {
		if err := s.resolve(ctx, &e, trip.BaseCurrency, manualRate); err != nil {
			return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", err)
		}
	} else {
		e.ConvertedAmount = current.ConvertedAmount
		e.FxRate = current.FxRate
		e.FxSource = current.FxSource
	}

	updated, err := s.expenses.Update(ctx, e)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("service.ExpenseService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes an expense. Allowed for its creator and the trip owner.
func (s *ExpenseService) Delete(ctx context.Context, userID, tripID, expenseID uuid.UUID) error {
	m, err := requireMember(ctx, s.members, tripID, userID)
	if err != nil {
		return fmt.Errorf("service.ExpenseService.Delete: %w", err)
	}
	e, err := s.expenses.GetByID(ctx, tripID, expenseID)
	if err != nil {
		return fmt.Errorf("service.ExpenseService.Delete: %w", err)
	}
	if e.CreatedBy != userID && m.Role != domain.RoleOwner {
		return fmt.Errorf("%w: only the creator or the trip owner may delete an expense", domain.ErrForbidden)
	}
	if err := s.expenses.Delete(ctx, tripID, expenseID); err != nil {
		return fmt.Errorf("service.ExpenseService.Delete: %w", err)
	}
	return nil
}

// resolve runs the FX ladder and writes the outcome onto e.
// An unresolved conversion leaves the converted fields nil (lenient policy).
func (s *ExpenseService) resolve(ctx context.Context, e *domain.Expense, baseCurrency string, manualRate *decimal.Decimal) error {
	conv, err := s.fx.Convert(ctx, e.Amount, e.Currency, baseCurrency, e.Date, manualRate)
	if err != nil {
		return err
	}
	if !conv.Resolved {
		e.ConvertedAmount = nil
		e.FxRate = nil
		e.FxSource = nil
		return nil
	}
	e.ConvertedAmount = &conv.Amount
	e.FxRate = &conv.Rate
	src := conv.Source
	e.FxSource = &src
	return nil
}

// needsReresolution reports whether an edit touched a conversion input.
func needsReresolution(old, new domain.Expense) bool {
	return old.Currency != new.Currency ||
		!old.Amount.Equal(new.Amount) ||
		!domain.DateOnly(old.Date).Equal(domain.DateOnly(new.Date))
}

// normalizeExpense applies structural defaults before validation:
// flights belong to no single country, and the pre-paid flag only makes
// sense with a usage date.
func normalizeExpense(e *domain.Expense) {
	if e.Category == domain.CategoryFlights {
		e.Country = ""
	}
	if e.UsageDate == nil {
		e.IsFuture = false
	}
}

// validateExpense enforces business rules common to Create and Update.
//   - Amount must be positive.
//   - Currency must be a well-formed ISO 4217 code.
//   - Category must be one of the closed set.
//   - UsageDate, if set, must not be before the payment date.
//   - Nights is only valid on lodging expenses and must be positive.
func validateExpense(e domain.Expense) error {
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	if !fx.ValidCurrency(e.Currency) {
		return fmt.Errorf("%w: currency must be a 3-letter ISO code", domain.ErrValidation)
	}
	if _, err := domain.ParseCategory(string(e.Category)); err != nil {
		return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, string(e.Category))
	}
	if e.UsageDate != nil && domain.DateOnly(*e.UsageDate).Before(domain.DateOnly(e.Date)) {
		return fmt.Errorf("%w: usage_date must not be before the payment date", domain.ErrValidation)
	}
	if e.Nights != nil {
		if e.Category != domain.CategoryLodging {
			return fmt.Errorf("%w: nights is only valid for lodging expenses", domain.ErrValidation)
		}
		if *e.Nights <= 0 {
			return fmt.Errorf("%w: nights must be positive", domain.ErrValidation)
		}
	}
	return nil
}
