package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is a trip member's permission level. The set is closed: every role
// stored in the database is one of the three constants below.
type Role string

const (
	// RoleOwner can do everything, including managing members, trip
	// settings, and deletion. Every trip has exactly one owner.
	RoleOwner Role = "owner"
	// RoleEditor can record, edit, and delete expenses.
	RoleEditor Role = "editor"
	// RoleViewer has read-only access to the trip and its reports.
	RoleViewer Role = "viewer"
)

// ParseRole validates a raw string against the closed role set.
// Returns ErrValidation for anything else.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner, RoleEditor, RoleViewer:
		return Role(s), nil
	}
	return "", ErrValidation
}

// CanEdit reports whether the role may create or mutate expenses.
func (r Role) CanEdit() bool {
	return r == RoleOwner || r == RoleEditor
}

// Member links a user to a trip with a role.
// Membership identity is the (TripID, UserID) pair.
type Member struct {
	TripID    uuid.UUID
	UserID    uuid.UUID
	Role      Role
	CreatedAt time.Time
}
