package events

import (
	"time"

	"github.com/hunde51/task-management-app/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTeamCreated       EventType = "team_created"
	EventMemberAdded       EventType = "member_added"
	EventProjectCreated    EventType = "project_created"
	EventTaskCreated       EventType = "task_created"
	EventTaskAssigned      EventType = "task_assigned"
	EventTaskStatusChanged EventType = "task_status_changed"
)

// Event represents a domain event emitted by services. ActorID is the user
// who performed the operation.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TeamCreatedPayload payload.
type TeamCreatedPayload struct {
	TeamID int64  `json:"team_id"`
	Name   string `json:"name"`
}

// MemberAddedPayload payload.
type MemberAddedPayload struct {
	TeamID int64           `json:"team_id"`
	UserID int64           `json:"user_id"`
	Role   domain.TeamRole `json:"role"`
}

// ProjectCreatedPayload payload.
type ProjectCreatedPayload struct {
	ProjectID int64  `json:"project_id"`
	TeamID    int64  `json:"team_id"`
	Name      string `json:"name"`
}

// TaskCreatedPayload payload.
type TaskCreatedPayload struct {
	TaskID         int64  `json:"task_id"`
	ProjectID      int64  `json:"project_id"`
	Title          string `json:"title"`
	AssignedUserID *int64 `json:"assigned_user_id,omitempty"`
}

// TaskAssignedPayload payload.
type TaskAssignedPayload struct {
	TaskID         int64  `json:"task_id"`
	AssignedUserID *int64 `json:"assigned_user_id,omitempty"`
}

// TaskStatusChangedPayload payload.
type TaskStatusChangedPayload struct {
	TaskID    int64             `json:"task_id"`
	OldStatus domain.TaskStatus `json:"old_status"`
	NewStatus domain.TaskStatus `json:"new_status"`
}
