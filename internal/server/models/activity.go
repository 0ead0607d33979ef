package models

import "time"

// Activity is an audit line attached to a task, written asynchronously by
// the activity recorder when a task's status changes.
type Activity struct {
	ID        string
	TaskID    string
	Action    string
	CreatedAt time.Time
}
