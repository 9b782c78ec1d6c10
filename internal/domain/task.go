package domain

import "time"

// TaskStatus enumerates lifecycle states for tasks.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

// TaskStatuses lists every known status in display order.
var TaskStatuses = []TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}

// Valid reports whether the status is a known one.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task belongs to a project. The assignee is nullable and set null by the
// database when the assigned user is deleted.
type Task struct {
	ID             int64
	ProjectID      int64
	Title          string
	Description    *string
	Status         TaskStatus
	AssignedUserID *int64
	DueDate        *time.Time
	CreatedBy      int64
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// TaskDetail is a task joined with its project name and the assignee's
// profile fields, as returned by listing queries.
type TaskDetail struct {
	Task
	ProjectName       string
	AssignedUsername  *string
	AssignedFirstName *string
	AssignedLastName  *string
}
