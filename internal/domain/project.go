package domain

import "time"

// Project belongs to a team. Name is unique within the team. Deleting a
// project cascades to its tasks.
type Project struct {
	ID          int64
	TeamID      int64
	Name        string
	Description *string
	CreatedBy   int64
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
