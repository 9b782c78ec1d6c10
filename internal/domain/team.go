package domain

import "time"

// TeamRole enumerates membership roles within a team.
type TeamRole string

const (
	TeamRoleOwner  TeamRole = "owner"
	TeamRoleMember TeamRole = "member"
)

// Valid reports whether the role is a known one.
func (r TeamRole) Valid() bool {
	return r == TeamRoleOwner || r == TeamRoleMember
}

// Team groups users and owns projects. Name is globally unique.
type Team struct {
	ID          int64
	Name        string
	Description *string
	CreatedBy   int64
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// TeamWithRole is a team joined with the requesting user's membership role.
type TeamWithRole struct {
	Team
	Role TeamRole
}

// Membership is the (team, user, role) relation. It is the sole source of
// access rights: a row exists iff the user currently has access to the team.
// Rows are insert-only; there is no role-update operation.
type Membership struct {
	ID       int64
	TeamID   int64
	UserID   int64
	Role     TeamRole
	JoinedAt time.Time
}

// MemberDetail is a membership joined with the member's user profile.
type MemberDetail struct {
	Membership
	Username  string
	Email     string
	FirstName string
	LastName  string
}
