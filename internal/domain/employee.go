package domain

import "time"

// Employee is a member of a company who raises tickets.
type Employee struct {
	ID         int64
	Name       string
	Email      string
	Role       string
	Department string
	Company    string
	AdminID    int64
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
