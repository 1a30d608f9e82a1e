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

// MemberRepo defines the persistence operations for trip memberships.
type MemberRepo interface {
	// Upsert inserts a membership or updates the role if the (trip, user)
	// pair already exists.
	Upsert(ctx context.Context, m domain.Member) (domain.Member, error)

	// Get retrieves one membership.
	// Returns domain.ErrNotFound if the user is not a member of the trip.
	Get(ctx context.Context, tripID, userID uuid.UUID) (domain.Member, error)

	// ListByTrip returns all memberships for a trip, owner first, then by
	// join time.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Member, error)

	// Remove deletes a membership.
	// Returns domain.ErrNotFound if the user is not a member of the trip.
	Remove(ctx context.Context, tripID, userID uuid.UUID) error
}

// pgMemberRepo is the Postgres implementation of MemberRepo.
type pgMemberRepo struct {
	db db
}

// NewMemberRepo constructs a MemberRepo backed by the provided db connection.
func NewMemberRepo(db db) MemberRepo {
	return &pgMemberRepo{db: db}
}

func (r *pgMemberRepo) Upsert(ctx context.Context, m domain.Member) (domain.Member, error) {
	const q = `
		INSERT INTO trip_members (trip_id, user_id, role)
		VALUES (@trip_id, @user_id, @role)
		ON CONFLICT (trip_id, user_id) DO UPDATE SET role = EXCLUDED.role
		RETURNING trip_id, user_id, role, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"trip_id": m.TripID,
		"user_id": m.UserID,
		"role":    string(m.Role),
	})
	result, err := scanMember(row)
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgMemberRepo) Get(ctx context.Context, tripID, userID uuid.UUID) (domain.Member, error) {
	const q = `
		SELECT trip_id, user_id, role, created_at
		FROM trip_members
		WHERE trip_id = @trip_id AND user_id = @user_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	result, err := scanMember(row)
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.Get: %w", err)
	}
	return result, nil
}

func (r *pgMemberRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Member, error) {
	const q = `
		SELECT trip_id, user_id, role, created_at
		FROM trip_members
		WHERE trip_id = @trip_id
		ORDER BY (role = 'owner') DESC, created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.MemberRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	members := []domain.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.MemberRepo.ListByTrip: scan: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.MemberRepo.ListByTrip: rows: %w", err)
	}
	return members, nil
}

func (r *pgMemberRepo) Remove(ctx context.Context, tripID, userID uuid.UUID) error {
	const q = `DELETE FROM trip_members WHERE trip_id = @trip_id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.MemberRepo.Remove: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.MemberRepo.Remove: %w", domain.ErrNotFound)
	}
	return nil
}

// scanMember maps a single database row into a domain.Member.
func scanMember(s scanner) (domain.Member, error) {
	var (
		m      domain.Member
		tripID pgtype.UUID
		userID pgtype.UUID
		role   string
	)
	err := s.Scan(&tripID, &userID, &role, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Member{}, domain.ErrNotFound
		}
		return domain.Member{}, err
	}
	m.TripID = uuid.UUID(tripID.Bytes)
	m.UserID = uuid.UUID(userID.Bytes)
	m.Role = domain.Role(role)
	return m, nil
}
