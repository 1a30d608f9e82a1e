// Package service contains the business logic for the trip expense API.
// Services validate inputs, enforce business rules and membership roles, and
// orchestrate repo calls. No SQL lives here — services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tripledger/api/internal/domain"
	"github.com/tripledger/api/internal/repo"
)

// requireMember returns the caller's membership on a trip.
// A user with no membership gets domain.ErrForbidden — not ErrNotFound —
// so the handler layer cannot leak whether a trip exists to non-members.
func requireMember(ctx context.Context, members repo.MemberRepo, tripID, userID uuid.UUID) (domain.Member, error) {
	m, err := members.Get(ctx, tripID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Member{}, domain.ErrForbidden
		}
		return domain.Member{}, err
	}
	return m, nil
}

// requireEditor returns the caller's membership if it can mutate expenses.
func requireEditor(ctx context.Context, members repo.MemberRepo, tripID, userID uuid.UUID) (domain.Member, error) {
	m, err := requireMember(ctx, members, tripID, userID)
	if err != nil {
		return domain.Member{}, err
	}
	if !m.Role.CanEdit() {
		return domain.Member{}, fmt.Errorf("%w: viewer role cannot modify expenses", domain.ErrForbidden)
	}
	return m, nil
}

// requireOwner returns the caller's membership if it is the trip owner.
func requireOwner(ctx context.Context, members repo.MemberRepo, tripID, userID uuid.UUID) (domain.Member, error) {
	m, err := requireMember(ctx, members, tripID, userID)
	if err != nil {
		return domain.Member{}, err
	}
	if m.Role != domain.RoleOwner {
		return domain.Member{}, fmt.Errorf("%w: only the trip owner may do this", domain.ErrForbidden)
	}
	return m, nil
}
