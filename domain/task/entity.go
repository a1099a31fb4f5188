package task

import (
	"time"

	"github.com/example/task-manager/domain/user"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every status value, in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

// Valid reports whether the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether the priority is a known value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task represents a task in the system. CreatedBy is set once at
// creation and never changes; CompletedAt is derived by the lifecycle
// rule when the status transitions into completed.
type Task struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	Title       string     `gorm:"not null;size:200" json:"title"`
	Description string     `gorm:"size:1000" json:"description,omitempty"`
	Status      Status     `gorm:"not null;default:pending;index;type:text" json:"status"`
	Priority    Priority   `gorm:"not null;default:medium;type:text" json:"priority"`
	AssignedTo  string     `gorm:"index;type:text" json:"assignedTo,omitempty"`
	CreatedBy   string     `gorm:"not null;index;type:text" json:"createdBy"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// WithUsers is a task joined with summaries of its linked users.
type WithUsers struct {
	Task
	AssignedUser  *user.Summary `json:"assignedUser,omitempty"`
	CreatedByUser *user.Summary `json:"createdByUser,omitempty"`
}

// Filters narrows a task list query. Absent fields impose no
// constraint; present fields are AND-combined.
type Filters struct {
	Status      Status     `json:"status,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	DueDateFrom *time.Time `json:"dueDateFrom,omitempty"`
	DueDateTo   *time.Time `json:"dueDateTo,omitempty"`
}
