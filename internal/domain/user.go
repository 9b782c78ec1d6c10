package domain

import "time"

// User is an account that can authenticate and join teams.
type User struct {
	ID             int64
	Username       string
	Email          string
	FirstName      string
	LastName       string
	HashedPassword string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
