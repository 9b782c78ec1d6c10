package dto

import (
	"time"

	"github.com/hunde51/task-management-app/internal/domain"
)

// CreateProjectRequest payload.
type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateProjectRequest is a partial update; absent fields stay untouched.
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ProjectResponse carries a project plus the caller-relative can_delete
// flag, derived per request and never persisted.
type ProjectResponse struct {
	ID          int64      `json:"id"`
	TeamID      int64      `json:"team_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	CreatedBy   int64      `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	CanDelete   bool       `json:"can_delete"`
}

// NewProjectResponse maps a project relative to the caller.
func NewProjectResponse(project *domain.Project, callerID int64) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		TeamID:      project.TeamID,
		Name:        project.Name,
		Description: project.Description,
		CreatedBy:   project.CreatedBy,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
		CanDelete:   project.CreatedBy == callerID,
	}
}
