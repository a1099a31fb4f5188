package task

import (
	"time"

	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/domain/user"
)

// CreateTaskRequest is the request for creating a task. Actor is the
// authenticated caller, forwarded by the API boundary.
type CreateTaskRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Priority    domain.Priority `json:"priority,omitempty"`
	AssignedTo  string          `json:"assignedTo,omitempty"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Actor       user.Claims     `json:"actor"`
}

// CreateTaskResponse is the response after creating a task.
type CreateTaskResponse struct {
	Task domain.Task `json:"task"`
}

// GetTaskRequest is the request for fetching a single task.
type GetTaskRequest struct {
	ID    string      `json:"id"`
	Actor user.Claims `json:"actor"`
}

// GetTaskResponse carries the task with linked user summaries.
type GetTaskResponse struct {
	Task domain.WithUsers `json:"task"`
}

// ListTasksRequest is the request for listing tasks. The filters are
// scoped to the actor's visibility before querying.
type ListTasksRequest struct {
	Filters domain.Filters `json:"filters"`
	Actor   user.Claims    `json:"actor"`
}

// ListTasksResponse is the response containing matching tasks.
type ListTasksResponse struct {
	Tasks []domain.WithUsers `json:"tasks"`
	Count int                `json:"count"`
}

// MineTasksRequest asks for every task involving the actor, whether
// assigned to them or created by them.
type MineTasksRequest struct {
	Filters domain.Filters `json:"filters"`
	Actor   user.Claims    `json:"actor"`
}

// MineTasksResponse is the response containing the actor's tasks.
type MineTasksResponse struct {
	Tasks []domain.WithUsers `json:"tasks"`
	Count int                `json:"count"`
}

// UpdateTaskRequest is a partial update; nil fields are left untouched.
type UpdateTaskRequest struct {
	ID          string           `json:"id"`
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Status      *domain.Status   `json:"status,omitempty"`
	Priority    *domain.Priority `json:"priority,omitempty"`
	AssignedTo  *string          `json:"assignedTo,omitempty"`
	DueDate     *time.Time       `json:"dueDate,omitempty"`
	Actor       user.Claims      `json:"actor"`
}

// Update converts the request into the domain update value.
func (r UpdateTaskRequest) Update() domain.Update {
	return domain.Update{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		AssignedTo:  r.AssignedTo,
		DueDate:     r.DueDate,
	}
}

// UpdateTaskResponse is the response after updating a task.
type UpdateTaskResponse struct {
	Task domain.Task `json:"task"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	ID    string      `json:"id"`
	Actor user.Claims `json:"actor"`
}

// DeleteTaskResponse is the response after deleting a task.
type DeleteTaskResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// StatsRequest asks for the per-status task counts.
type StatsRequest struct{}

// StatsResponse maps every status value to its count, zero-filled.
type StatsResponse struct {
	Stats map[domain.Status]int64 `json:"stats"`
}
