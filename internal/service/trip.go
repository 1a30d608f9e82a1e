package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tripledger/api/internal/domain"
	"github.com/tripledger/api/internal/fx"
	"github.com/tripledger/api/internal/repo"
)

// TripService implements business logic for Trip and membership operations.
type TripService struct {
	trips    repo.TripRepo
	members  repo.MemberRepo
	expenses repo.ExpenseRepo
}

// NewTripService constructs a TripService backed by the provided repos.
// The expense repo is needed only to enforce base-currency immutability.
func NewTripService(trips repo.TripRepo, members repo.MemberRepo, expenses repo.ExpenseRepo) *TripService {
	return &TripService{trips: trips, members: members, expenses: expenses}
}

// Create validates and persists a new trip, making ownerID its owner.
func (s *TripService) Create(ctx context.Context, ownerID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	_, err = s.members.Upsert(ctx, domain.Member{
		TripID: created.ID,
		UserID: ownerID,
		Role:   domain.RoleOwner,
	})
	if err != nil {
		// Don't leave an ownerless trip behind.
		_ = s.trips.Delete(ctx, created.ID)
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: add owner: %w", err)
	}
	return created, nil
}

// GetByID returns a single trip. The caller must be a member.
func (s *TripService) GetByID(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	if _, err := requireMember(ctx, s.members, tripID, userID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns one page of the user's trips plus the total count.
func (s *TripService) List(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.trips.ListByUser(ctx, userID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	return trips, total, nil
}

// Update validates and persists changes to trip settings. Owner only.
// The base currency is immutable once the trip has any expense recorded.
func (s *TripService) Update(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	if _, err := requireOwner(ctx, s.members, trip.ID, userID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	current, err := s.trips.GetByID(ctx, trip.ID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if trip.BaseCurrency != current.BaseCurrency {
		n, err := s.expenses.CountByTrip(ctx, trip.ID)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
		}
		if n > 0 {
			return domain.Trip{}, fmt.Errorf("%w: base currency cannot change once expenses exist", domain.ErrValidation)
		}
	}
	// Open/closed is controlled by Close and Reopen, not by settings updates.
	trip.Closed = current.Closed

	updated, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	return updated, nil
}

// Close marks a trip closed so it stops accepting expense writes. Owner only.
func (s *TripService) Close(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	return s.setClosed(ctx, userID, tripID, true, "Close")
}

// Reopen reverses Close. Owner only.
func (s *TripService) Reopen(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	return s.setClosed(ctx, userID, tripID, false, "Reopen")
}

func (s *TripService) setClosed(ctx context.Context, userID, tripID uuid.UUID, closed bool, op string) (domain.Trip, error) {
	if _, err := requireOwner(ctx, s.members, tripID, userID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.%s: %w", op, err)
	}
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.%s: %w", op, err)
	}
	trip.Closed = closed
	updated, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.%s: %w", op, err)
	}
	return updated, nil
}

// Delete removes a trip; expenses and memberships cascade. Owner only.
func (s *TripService) Delete(ctx context.Context, userID, tripID uuid.UUID) error {
	if _, err := requireOwner(ctx, s.members, tripID, userID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if err := s.trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// AddMember grants a user a role on the trip. Owner only. The owner role
// cannot be granted — every trip has exactly one owner, fixed at creation.
func (s *TripService) AddMember(ctx context.Context, actorID, tripID, userID uuid.UUID, role domain.Role) (domain.Member, error) {
	if _, err := requireOwner(ctx, s.members, tripID, actorID); err != nil {
		return domain.Member{}, fmt.Errorf("service.TripService.AddMember: %w", err)
	}
	if role != domain.RoleEditor && role != domain.RoleViewer {
		return domain.Member{}, fmt.Errorf("%w: role must be editor or viewer", domain.ErrValidation)
	}
	if userID == actorID {
		return domain.Member{}, fmt.Errorf("%w: owner role cannot be changed", domain.ErrValidation)
	}
	m, err := s.members.Upsert(ctx, domain.Member{TripID: tripID, UserID: userID, Role: role})
	if err != nil {
		return domain.Member{}, fmt.Errorf("service.TripService.AddMember: %w", err)
	}
	return m, nil
}

// RemoveMember revokes a user's membership. Owner only; the owner cannot be
// removed.
func (s *TripService) RemoveMember(ctx context.Context, actorID, tripID, userID uuid.UUID) error {
	if _, err := requireOwner(ctx, s.members, tripID, actorID); err != nil {
		return fmt.Errorf("service.TripService.RemoveMember: %w", err)
	}
	if userID == actorID {
		return fmt.Errorf("%w: the owner cannot be removed", domain.ErrValidation)
	}
	if err := s.members.Remove(ctx, tripID, userID); err != nil {
		return fmt.Errorf("service.TripService.RemoveMember: %w", err)
	}
	return nil
}

// ListMembers returns a trip's membership list. Any member may read it.
func (s *TripService) ListMembers(ctx context.Context, userID, tripID uuid.UUID) ([]domain.Member, error) {
	if _, err := requireMember(ctx, s.members, tripID, userID); err != nil {
		return nil, fmt.Errorf("service.TripService.ListMembers: %w", err)
	}
	members, err := s.members.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListMembers: %w", err)
	}
	return members, nil
}

// validateTrip enforces business rules common to Create and Update.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - BaseCurrency must be a well-formed ISO 4217 code.
//   - EndDate, if set together with StartDate, must not precede it.
//   - TargetBudget, if set, must be positive.
//   - CurrentCurrency, if set, must be well-formed.
func validateTrip(trip domain.Trip) error {
	if strings.TrimSpace(trip.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !fx.ValidCurrency(trip.BaseCurrency) {
		return fmt.Errorf("%w: base_currency must be a 3-letter ISO code", domain.ErrValidation)
	}
	if trip.StartDate != nil && trip.EndDate != nil && trip.EndDate.Before(*trip.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	if trip.TargetBudget != nil && !trip.TargetBudget.IsPositive() {
		return fmt.Errorf("%w: target_budget must be positive", domain.ErrValidation)
	}
	if trip.CurrentCurrency != "" && !fx.ValidCurrency(trip.CurrentCurrency) {
		return fmt.Errorf("%w: current_currency must be a 3-letter ISO code", domain.ErrValidation)
	}
	return nil
}
