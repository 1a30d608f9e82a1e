package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripledger/api/internal/domain"
)

// ExpenseRepo defines the persistence operations for Expenses.
// All write and single-read operations are scoped by tripID to enforce
// ownership.
type ExpenseRepo interface {
	// Create inserts a new expense and returns the persisted record.
	Create(ctx context.Context, e domain.Expense) (domain.Expense, error)

	// GetByID retrieves a single expense by its UUID, scoped to the trip.
	// Returns domain.ErrNotFound if no expense with that ID exists under
	// that trip.
	GetByID(ctx context.Context, tripID, expenseID uuid.UUID) (domain.Expense, error)

	// ListByTrip returns all expenses for a trip ordered by payment date
	// ascending, then creation time. Reporting consumes this.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)

	// ListByTripPaged returns one page of a trip's expenses, newest payment
	// date first, plus the total count.
	ListByTripPaged(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Expense, int64, error)

	// Update overwrites the mutable fields of an expense, scoped to the trip.
	// Returns domain.ErrNotFound if it does not exist under that trip.
	Update(ctx context.Context, e domain.Expense) (domain.Expense, error)

	// Delete removes an expense by ID, scoped to the trip.
	// Returns domain.ErrNotFound if it does not exist under that trip.
	Delete(ctx context.Context, tripID, expenseID uuid.UUID) error

	// CountByTrip returns the number of expenses recorded on the trip.
	CountByTrip(ctx context.Context, tripID uuid.UUID) (int64, error)
}

// pgExpenseRepo is the Postgres implementation of ExpenseRepo.
type pgExpenseRepo struct {
	db db
}

// NewExpenseRepo constructs an ExpenseRepo backed by the provided db
// connection. In production pass *pgxpool.Pool; in tests pass a pgx.Tx for
// rollback isolation.
func NewExpenseRepo(db db) ExpenseRepo {
	return &pgExpenseRepo{db: db}
}

const expenseColumns = `id, trip_id, amount, currency, category, country, note,
	expense_date, usage_date, is_future, nights, converted_amount, fx_rate,
	fx_source, created_by, created_at, updated_at`

func (r *pgExpenseRepo) Create(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	const q = `
		INSERT INTO expenses (trip_id, amount, currency, category, country, note,
		                      expense_date, usage_date, is_future, nights,
		                      converted_amount, fx_rate, fx_source, created_by)
		VALUES (@trip_id, @amount, @currency, @category, @country, @note,
		        @expense_date, @usage_date, @is_future, @nights,
		        @converted_amount, @fx_rate, @fx_source, @created_by)
		RETURNING ` + expenseColumns

	row := r.db.QueryRow(ctx, q, expenseArgs(e))
	result, err := scanExpense(row)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgExpenseRepo) GetByID(ctx context.Context, tripID, expenseID uuid.UUID) (domain.Expense, error) {
	const q = `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE id = @id AND trip_id = @trip_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": expenseID, "trip_id": tripID})
	result, err := scanExpense(row)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgExpenseRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	const q = `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE trip_id = @trip_id
		ORDER BY expense_date, created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ExpenseRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	return collectExpenses(rows, "repo.ExpenseRepo.ListByTrip")
}

func (r *pgExpenseRepo) ListByTripPaged(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Expense, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM expenses WHERE trip_id = @trip_id`,
		pgx.NamedArgs{"trip_id": tripID},
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.ExpenseRepo.ListByTripPaged: count: %w", err)
	}

	const q = `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE trip_id = @trip_id
		ORDER BY expense_date DESC, created_at DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"trip_id": tripID,
		"limit":   p.Limit,
		"offset":  p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ExpenseRepo.ListByTripPaged: %w", err)
	}
	defer rows.Close()

	expenses, err := collectExpenses(rows, "repo.ExpenseRepo.ListByTripPaged")
	if err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

func (r *pgExpenseRepo) Update(ctx context.Context, e domain.Expense) (domain.Expense, error) {
	const q = `
		UPDATE expenses
		SET amount           = @amount,
		    currency         = @currency,
		    category         = @category,
		    country          = @country,
		    note             = @note,
		    expense_date     = @expense_date,
		    usage_date       = @usage_date,
		    is_future        = @is_future,
		    nights           = @nights,
		    converted_amount = @converted_amount,
		    fx_rate          = @fx_rate,
		    fx_source        = @fx_source,
		    updated_at       = now()
		WHERE id = @id AND trip_id = @trip_id
		RETURNING ` + expenseColumns

	args := expenseArgs(e)
	args["id"] = e.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanExpense(row)
	if err != nil {
		return domain.Expense{}, fmt.Errorf("repo.ExpenseRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgExpenseRepo) Delete(ctx context.Context, tripID, expenseID uuid.UUID) error {
	const q = `DELETE FROM expenses WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": expenseID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.ExpenseRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ExpenseRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgExpenseRepo) CountByTrip(ctx context.Context, tripID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM expenses WHERE trip_id = @trip_id`,
		pgx.NamedArgs{"trip_id": tripID},
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("repo.ExpenseRepo.CountByTrip: %w", err)
	}
	return n, nil
}

func expenseArgs(e domain.Expense) pgx.NamedArgs {
	var fxSource any
	if e.FxSource != nil {
		fxSource = string(*e.FxSource)
	}
	return pgx.NamedArgs{
		"trip_id":          e.TripID,
		"amount":           e.Amount,
		"currency":         e.Currency,
		"category":         string(e.Category),
		"country":          e.Country,
		"note":             e.Note,
		"expense_date":     e.Date,
		"usage_date":       e.UsageDate, // nil becomes NULL
		"is_future":        e.IsFuture,
		"nights":           e.Nights,
		"converted_amount": decimalArg(e.ConvertedAmount),
		"fx_rate":          decimalArg(e.FxRate),
		"fx_source":        fxSource,
		"created_by":       e.CreatedBy,
	}
}

func collectExpenses(rows pgx.Rows, op string) ([]domain.Expense, error) {
	expenses := []domain.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return expenses, nil
}

// scanExpense maps a single database row into a domain.Expense.
// It handles UUIDs, nullable dates, nullable NUMERICs, and the enum columns.
func scanExpense(s scanner) (domain.Expense, error) {
	var (
		e         domain.Expense
		id        pgtype.UUID
		tripID    pgtype.UUID
		amount    pgtype.Numeric
		category  string
		date      pgtype.Date
		usageDate pgtype.Date
		nights    pgtype.Int4
		converted pgtype.Numeric
		fxRate    pgtype.Numeric
		fxSource  pgtype.Text
		createdBy pgtype.UUID
	)

	err := s.Scan(&id, &tripID, &amount, &e.Currency, &category, &e.Country, &e.Note,
		&date, &usageDate, &e.IsFuture, &nights, &converted, &fxRate,
		&fxSource, &createdBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Expense{}, domain.ErrNotFound
		}
		return domain.Expense{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.TripID = uuid.UUID(tripID.Bytes)
	e.CreatedBy = uuid.UUID(createdBy.Bytes)
	e.Amount = numericToDecimal(amount)
	e.Category = domain.Category(category)
	e.Date = date.Time
	if usageDate.Valid {
		ud := usageDate.Time
		e.UsageDate = &ud
	}
	if nights.Valid {
		n := int(nights.Int32)
		e.Nights = &n
	}
	e.ConvertedAmount = nullableDecimal(converted)
	e.FxRate = nullableDecimal(fxRate)
	if fxSource.Valid {
		src := domain.RateSource(fxSource.String)
		e.FxSource = &src
	}

	return e, nil
}
