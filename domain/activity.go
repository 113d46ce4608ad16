package domain

import "time"

// Activity action labels.
const (
	ActionCreatedTask   = "Created Task"
	ActionUpdatedStatus = "Updated Status"
	ActionUpdatedTask   = "Updated Task"
	ActionDeletedTask   = "Deleted Task"
	ActionAddedComment  = "Added Comment"
)

// ActivityLog is a single audit entry. EntityID optionally links it to a task.
type ActivityLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details,omitempty"`
	EntityID  string    `json:"entityId,omitempty"`
}
