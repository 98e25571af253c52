// internal/models/task.go
package models

import "time"

// Task status constants
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

// Priority constants
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Defaults applied when a request omits the field.
const (
	DefaultStatus   = StatusTodo
	DefaultPriority = PriorityMedium
)

// Field length limits enforced at the request boundary.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

type Task struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Status      string    `db:"status"`
	Priority    string    `db:"priority"`
	DueDate     string    `db:"due_date"`
	CreatedAt   time.Time `db:"created_at"`
	UserID      int64     `db:"user_id"`
}

// TaskStatuses returns the closed set of valid statuses, in workflow order.
func TaskStatuses() []string {
	return []string{StatusTodo, StatusInProgress, StatusDone}
}

// TaskPriorities returns the closed set of valid priorities.
func TaskPriorities() []string {
	return []string{PriorityLow, PriorityMedium, PriorityHigh}
}

// ValidStatus reports whether s is one of the closed status values.
func ValidStatus(s string) bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// ValidPriority reports whether p is one of the closed priority values.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}
