// Package handler implements the HTTP layer for the trip expense API.
// All handlers are methods on Server. Methods are split into
// resource-specific files (trip.go, expense.go, report.go, ...) but all
// share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tripledger/api/internal/domain"
	"github.com/tripledger/api/internal/fx"
	"github.com/tripledger/api/internal/scanning"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining interfaces here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, ownerID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	Close(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	Reopen(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	Delete(ctx context.Context, userID, tripID uuid.UUID) error
	AddMember(ctx context.Context, actorID, tripID, userID uuid.UUID, role domain.Role) (domain.Member, error)
	RemoveMember(ctx context.Context, actorID, tripID, userID uuid.UUID) error
	ListMembers(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Member, error)
}

// ExpenseServicer defines the business operations the expense handlers
// depend on.
type ExpenseServicer interface {
	Create(ctx context.Context, userID uuid.UUID, e domain.Expense, manualRate *decimal.Decimal) (domain.Expense, error)
	GetByID(ctx context.Context, userID, tripID, expenseID uuid.UUID) (domain.Expense, error)
	List(ctx context.Context, userID, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Expense, int64, error)
	Update(ctx context.Context, userID uuid.UUID, e domain.Expense, manualRate *decimal.Decimal) (domain.Expense, error)
	Delete(ctx context.Context, userID, tripID, expenseID uuid.UUID) error
}

// ReportBuilder builds the reporting payload for a trip.
type ReportBuilder interface {
	Build(ctx context.Context, userID, tripID uuid.UUID) (domain.Report, error)
}

// CurrencyConverter backs the standalone conversion calculator.
type CurrencyConverter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string, on time.Time) (fx.Conversion, error)
}

// AdminStatser reads the admin dashboard counts.
type AdminStatser interface {
	Stats(ctx context.Context) (domain.AdminStats, error)
}

// Server holds every dependency the HTTP handlers need.
type Server struct {
	trips    TripServicer
	expenses ExpenseServicer
	reports  ReportBuilder
	convert  CurrencyConverter
	admin    AdminStatser
	// scanner is nil when no receipt-scanning backend is configured;
	// the scan endpoint then answers 503.
	scanner scanning.Scanner
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, expenses ExpenseServicer, reports ReportBuilder, convert CurrencyConverter, admin AdminStatser, scanner scanning.Scanner) *Server {
	return &Server{
		trips:    trips,
		expenses: expenses,
		reports:  reports,
		convert:  convert,
		admin:    admin,
		scanner:  scanner,
	}
}
