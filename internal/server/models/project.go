package models

import "time"

// Project groups related tasks. Name is unique.
type Project struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
