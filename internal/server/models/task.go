package models

import "time"

// Task status values.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

// TaskStatuses lists the allowed status values in display order.
var TaskStatuses = []string{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}

// ValidTaskStatus reports whether s is one of the allowed status values.
func ValidTaskStatus(s string) bool {
	for _, v := range TaskStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Task struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	Status      string
	DueAt       *time.Time
	AssigneeID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
