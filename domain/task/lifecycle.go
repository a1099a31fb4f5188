package task

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/task-manager/domain/apperr"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
)

// CreateInput is the caller-supplied portion of a new task.
type CreateInput struct {
	Title       string
	Description string
	Priority    Priority
	AssignedTo  string
	DueDate     *time.Time
}

// New assembles a task from creation input, filling defaults: status
// starts at pending and priority falls back to medium. The due date, if
// given, must not lie strictly before now; this is only enforced at
// creation, never re-validated on update.
func New(in CreateInput, createdBy string, now time.Time) (*Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.Validation("Title is required")
	}
	// Limits count characters, not bytes.
	if utf8.RuneCountInString(title) > maxTitleLen {
		return nil, apperr.Validation("Title is too long")
	}
	description := strings.TrimSpace(in.Description)
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return nil, apperr.Validation("Description is too long")
	}
	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperr.Validation("Invalid priority")
	}
	if in.DueDate != nil && in.DueDate.Before(now) {
		return nil, apperr.Validation("Due date cannot be in the past")
	}

	return &Task{
		Title:       title,
		Description: description,
		Status:      StatusPending,
		Priority:    priority,
		AssignedTo:  in.AssignedTo,
		CreatedBy:   createdBy,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update is a partial change to a task. Nil fields leave the existing
// value untouched.
type Update struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	AssignedTo  *string
	DueDate     *time.Time
}

// Validate checks the field-level rules on the supplied fields.
func (u Update) Validate() error {
	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return apperr.Validation("Title is required")
		}
		if utf8.RuneCountInString(title) > maxTitleLen {
			return apperr.Validation("Title is too long")
		}
	}
	if u.Description != nil && utf8.RuneCountInString(strings.TrimSpace(*u.Description)) > maxDescriptionLen {
		return apperr.Validation("Description is too long")
	}
	if u.Status != nil && !u.Status.Valid() {
		return apperr.Validation("Invalid status")
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return apperr.Validation("Invalid priority")
	}
	return nil
}

// Change is the applied update the lifecycle rule produces: the
// caller-supplied fields plus any derived mutation. It is a value the
// rule returns, never an in-place mutation of its inputs.
type Change struct {
	Update
	CompletedAt *time.Time
}

// BuildChange evaluates the lifecycle rule for a proposed update
// against the existing task. Entering completed from any non-completed
// status derives a completion timestamp; completing an already
// completed task does not re-stamp it, and leaving completed does not
// clear it. No other transition is restricted or derives anything.
func BuildChange(existing *Task, u Update, now time.Time) Change {
	change := Change{Update: u}
	if u.Status != nil && *u.Status == StatusCompleted && existing.Status != StatusCompleted {
		completedAt := now
		change.CompletedAt = &completedAt
	}
	return change
}

// Apply merges the change into the task and refreshes UpdatedAt.
// Unspecified fields keep their existing values.
func (c Change) Apply(t *Task, now time.Time) {
	if c.Title != nil {
		t.Title = strings.TrimSpace(*c.Title)
	}
	if c.Description != nil {
		t.Description = strings.TrimSpace(*c.Description)
	}
	if c.Status != nil {
		t.Status = *c.Status
	}
	if c.Priority != nil {
		t.Priority = *c.Priority
	}
	if c.AssignedTo != nil {
		t.AssignedTo = *c.AssignedTo
	}
	if c.DueDate != nil {
		t.DueDate = c.DueDate
	}
	if c.CompletedAt != nil {
		t.CompletedAt = c.CompletedAt
	}
	t.UpdatedAt = now
}
