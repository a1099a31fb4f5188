package api

import (
	"encoding/json"
	"log"
	"time"

	"github.com/example/task-manager/domain/apperr"
	taskdomain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/modules/auth"
	taskmod "github.com/example/task-manager/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authContainer mono.ServiceContainer
	taskContainer mono.ServiceContainer
	authAdapter   auth.AuthPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authContainer, taskContainer mono.ServiceContainer, authAdapter auth.AuthPort) *Handlers {
	return &Handlers{
		authContainer: authContainer,
		taskContainer: taskContainer,
		authAdapter:   authAdapter,
	}
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		return fail(c, fiber.StatusBadRequest, "Email, password and name are required")
	}

	authReq := auth.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	}
	var resp auth.RegisterResponse

	if err := h.callAuth(c, "register", &authReq, &resp); err != nil {
		return h.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(Envelope{
		Success: true,
		Message: "User registered successfully",
		Data:    fiber.Map{"user": resp.User},
	})
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return fail(c, fiber.StatusBadRequest, "Email and password are required")
	}

	authReq := auth.LoginRequest{Email: req.Email, Password: req.Password}
	var resp auth.LoginResponse

	if err := h.callAuth(c, "login", &authReq, &resp); err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(Envelope{
		Success: true,
		Message: "Login successful",
		Data:    fiber.Map{"user": resp.User, "tokens": resp.Tokens},
	})
}

// Refresh handles token refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.RefreshToken == "" {
		return fail(c, fiber.StatusBadRequest, "Refresh token is required")
	}

	authReq := auth.RefreshRequest{RefreshToken: req.RefreshToken}
	var resp auth.RefreshResponse

	if err := h.callAuth(c, "refresh-token", &authReq, &resp); err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(Envelope{
		Success: true,
		Data:    fiber.Map{"tokens": resp.Tokens},
	})
}

// Profile returns the authenticated user's profile.
func (h *Handlers) Profile(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "User not authenticated")
	}

	profile, err := h.authAdapter.GetUser(c.UserContext(), actor.UserID)
	if err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(Envelope{
		Success: true,
		Data:    fiber.Map{"user": profile},
	})
}

// ListUsers returns all active users. Admin only.
func (h *Handlers) ListUsers(c *fiber.Ctx) error {
	var resp auth.ListUsersResponse
	if err := h.callAuth(c, "list-users", &auth.ListUsersRequest{}, &resp); err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(Envelope{
		Success: true,
		Data:    fiber.Map{"users": resp.Users, "count": resp.Count},
	})
}

// CreateTask handles task creation.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "User not authenticated")
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	taskReq := taskmod.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		Actor:       *actor,
	}
	var resp taskmod.CreateTaskResponse

	if err := h.callTask(c, "task.create", &taskReq, &resp); err != nil {
		return h.respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(Envelope{
		Success: true,
		Message: "Task created successfully",
		Data:    fiber.Map{"task": resp.Task},
	})
}

// ListTasks handles the scoped task listing.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "User not authenticated")
	}

	filters, err := parseFilters(c)
	if err != nil {
		return h.respondServiceError(c, err)
	}

	taskReq := taskmod.ListTasksRequest{Filters: filters, Actor: *actor}
	var resp taskmod.ListTasksResponse

	if err := h.callTask(c, "task.list", &taskReq, &resp); err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(Envelope{
		Success: true,
		Data:    fiber.Map{"tasks": resp.Tasks, "count": resp.Count},
	})
}

// MyTasks lists every task involving the caller, assigned or created.
func (h *Handlers) MyTasks(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "User not authenticated")
	}

	filters, err := parseFilters(c)
	if err != nil {
		return h.respondServiceError(c, err)
	}

	taskReq := taskmod.MineTasksRequest{Filters: filters, Actor: *actor}
	var resp taskmod.MineTasksResponse

	if err := h.callTask(c, "task.mine", &taskReq, &resp); err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(Envelope{
		Success: true,
		Data:    fiber.Map{"tasks": resp.Tasks, "count": resp.Count},
	})
}

// GetTask fetches a single task with linked user summaries.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "User not authenticated")
	}

	taskReq := taskmod.GetTaskRequest{ID: c.Params("id"), Actor: *actor}
	var resp taskmod.GetTaskResponse

	if err := h.callTask(c, "task.get", &taskReq, &resp); err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(Envelope{
		Success: true,
		Data:    fiber.Map{"task": resp.Task},
	})
}

// UpdateTask applies a partial update to a task.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "User not authenticated")
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	taskReq := taskmod.UpdateTaskRequest{
		ID:          c.Params("id"),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		Actor:       *actor,
	}
	var resp taskmod.UpdateTaskResponse

	if err := h.callTask(c, "task.update", &taskReq, &resp); err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(Envelope{
		Success: true,
		Message: "Task updated successfully",
		Data:    fiber.Map{"task": resp.Task},
	})
}

// DeleteTask removes a task.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	actor, ok := actorFromContext(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "User not authenticated")
	}

	taskReq := taskmod.DeleteTaskRequest{ID: c.Params("id"), Actor: *actor}
	var resp taskmod.DeleteTaskResponse

	if err := h.callTask(c, "task.delete", &taskReq, &resp); err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(Envelope{
		Success: true,
		Message: "Task deleted successfully",
	})
}

// TaskStats returns per-status task counts.
func (h *Handlers) TaskStats(c *fiber.Ctx) error {
	var resp taskmod.StatsResponse
	if err := h.callTask(c, "task.stats", &taskmod.StatsRequest{}, &resp); err != nil {
		return h.respondServiceError(c, err)
	}

	return c.JSON(Envelope{
		Success: true,
		Data:    fiber.Map{"stats": resp.Stats},
	})
}

// callAuth invokes a request-reply service on the auth container.
func (h *Handlers) callAuth(c *fiber.Ctx, service string, req, resp any) error {
	return helper.CallRequestReplyService[any, any](
		c.UserContext(), h.authContainer, service,
		json.Marshal, json.Unmarshal, req, &resp,
	)
}

// callTask invokes a request-reply service on the task container.
func (h *Handlers) callTask(c *fiber.Ctx, service string, req, resp any) error {
	return helper.CallRequestReplyService[any, any](
		c.UserContext(), h.taskContainer, service,
		json.Marshal, json.Unmarshal, req, &resp,
	)
}

// respondServiceError maps a service failure onto the uniform envelope.
// Tagged errors keep their suggested status and message; anything else
// is logged and rendered as an opaque internal failure.
func (h *Handlers) respondServiceError(c *fiber.Ctx, err error) error {
	if appErr := apperr.From(err); appErr != nil {
		return fail(c, appErr.Status, appErr.Message)
	}

	log.Printf("[api] Internal error: %v", err)
	return fail(c, fiber.StatusInternalServerError, "Internal server error")
}

// fail renders the uniform failure envelope.
func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{
		Success: false,
		Message: message,
	})
}

// parseFilters reads the task filter set from query parameters.
func parseFilters(c *fiber.Ctx) (taskdomain.Filters, error) {
	filters := taskdomain.Filters{
		AssignedTo: c.Query("assignedTo"),
		CreatedBy:  c.Query("createdBy"),
	}

	if status := c.Query("status"); status != "" {
		s := taskdomain.Status(status)
		if !s.Valid() {
			return taskdomain.Filters{}, apperr.Validation("Invalid status")
		}
		filters.Status = s
	}

	if priority := c.Query("priority"); priority != "" {
		p := taskdomain.Priority(priority)
		if !p.Valid() {
			return taskdomain.Filters{}, apperr.Validation("Invalid priority")
		}
		filters.Priority = p
	}

	if from := c.Query("dueDateFrom"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return taskdomain.Filters{}, apperr.Validation("Invalid dueDateFrom")
		}
		filters.DueDateFrom = &t
	}

	if to := c.Query("dueDateTo"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return taskdomain.Filters{}, apperr.Validation("Invalid dueDateTo")
		}
		filters.DueDateTo = &t
	}

	return filters, nil
}
