package dto

import (
	"time"

	"github.com/hunde51/task-management-app/internal/domain"
)

// CreateTeamRequest payload.
type CreateTeamRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// AddMemberRequest adds a known user by id.
type AddMemberRequest struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

// InviteMemberRequest adds a user by username or email.
type InviteMemberRequest struct {
	Identifier string `json:"identifier"`
	Role       string `json:"role"`
}

// TeamResponse carries a team plus the caller's role, derived per request
// and never persisted.
type TeamResponse struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	CreatedBy       int64           `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       *time.Time      `json:"updated_at,omitempty"`
	CurrentUserRole domain.TeamRole `json:"current_user_role"`
}

// TeamMemberResponse is a roster entry joined with the member profile.
type TeamMemberResponse struct {
	ID        int64           `json:"id"`
	TeamID    int64           `json:"team_id"`
	UserID    int64           `json:"user_id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Role      domain.TeamRole `json:"role"`
	JoinedAt  time.Time       `json:"joined_at"`
}

// NewTeamResponse maps a team with the caller's role.
func NewTeamResponse(team *domain.Team, role domain.TeamRole) TeamResponse {
	return TeamResponse{
		ID:              team.ID,
		Name:            team.Name,
		Description:     team.Description,
		CreatedBy:       team.CreatedBy,
		CreatedAt:       team.CreatedAt,
		UpdatedAt:       team.UpdatedAt,
		CurrentUserRole: role,
	}
}

// NewTeamMemberResponse maps a roster entry.
func NewTeamMemberResponse(detail *domain.MemberDetail) TeamMemberResponse {
	return TeamMemberResponse{
		ID:        detail.ID,
		TeamID:    detail.TeamID,
		UserID:    detail.UserID,
		Username:  detail.Username,
		Email:     detail.Email,
		FirstName: detail.FirstName,
		LastName:  detail.LastName,
		Role:      detail.Role,
		JoinedAt:  detail.JoinedAt,
	}
}
