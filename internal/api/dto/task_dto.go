package dto

import (
	"time"

	"github.com/hunde51/task-management-app/internal/domain"
)

// CreateTaskRequest payload.
type CreateTaskRequest struct {
	ProjectID      int64      `json:"project_id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	AssignedUserID *int64     `json:"assigned_user_id"`
	DueDate        *time.Time `json:"due_date"`
}

// UpdateTaskRequest is a partial update; absent fields stay untouched.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskStatusRequest payload.
type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

// AssignTaskRequest payload; a null assigned_user_id unassigns.
type AssignTaskRequest struct {
	AssignedUserID *int64 `json:"assigned_user_id"`
}

// TaskResponse carries a task with its project name, assignee profile
// fields, and the caller-relative can_update flag.
type TaskResponse struct {
	ID                int64             `json:"id"`
	ProjectID         int64             `json:"project_id"`
	ProjectName       string            `json:"project_name"`
	Title             string            `json:"title"`
	Description       *string           `json:"description,omitempty"`
	Status            domain.TaskStatus `json:"status"`
	DueDate           *time.Time        `json:"due_date,omitempty"`
	AssignedUserID    *int64            `json:"assigned_user_id,omitempty"`
	AssignedUsername  *string           `json:"assigned_username,omitempty"`
	AssignedFirstName *string           `json:"assigned_first_name,omitempty"`
	AssignedLastName  *string           `json:"assigned_last_name,omitempty"`
	CreatedBy         int64             `json:"created_by"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         *time.Time        `json:"updated_at,omitempty"`
	CanUpdate         bool              `json:"can_update"`
}

// MyTasksSummaryResponse aggregates the caller's assigned tasks. The status
// counts always contain every known status, zeroes included.
type MyTasksSummaryResponse struct {
	Tasks         []TaskResponse            `json:"tasks"`
	StatusCounts  map[domain.TaskStatus]int `json:"status_counts"`
	TotalProjects int64                     `json:"total_projects"`
}

// NewTaskResponse maps a task detail relative to the caller.
func NewTaskResponse(detail *domain.TaskDetail, callerID int64) TaskResponse {
	return TaskResponse{
		ID:                detail.ID,
		ProjectID:         detail.ProjectID,
		ProjectName:       detail.ProjectName,
		Title:             detail.Title,
		Description:       detail.Description,
		Status:            detail.Status,
		DueDate:           detail.DueDate,
		AssignedUserID:    detail.AssignedUserID,
		AssignedUsername:  detail.AssignedUsername,
		AssignedFirstName: detail.AssignedFirstName,
		AssignedLastName:  detail.AssignedLastName,
		CreatedBy:         detail.CreatedBy,
		CreatedAt:         detail.CreatedAt,
		UpdatedAt:         detail.UpdatedAt,
		CanUpdate:         detail.AssignedUserID != nil && *detail.AssignedUserID == callerID,
	}
}

// NewTaskResponses maps a slice of task details.
func NewTaskResponses(details []domain.TaskDetail, callerID int64) []TaskResponse {
	items := make([]TaskResponse, 0, len(details))
	for i := range details {
		items = append(items, NewTaskResponse(&details[i], callerID))
	}
	return items
}
