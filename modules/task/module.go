package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/modules/auth"
	"github.com/example/task-manager/modules/cache"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TaskModule provides task services: CRUD, authorization, lifecycle
// rules, scoped listing and per-status stats.
type TaskModule struct {
	db      *gorm.DB
	repo    *domain.Repository
	service *Service
	dbPath  string

	authAdapter  auth.AuthPort
	pendingCache cache.CacheService
}

// Compile-time interface checks.
var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.DependentModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a new TaskModule persisting tasks at dbPath.
func NewModule(dbPath string) *TaskModule {
	return &TaskModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// Dependencies returns the list of module dependencies.
func (m *TaskModule) Dependencies() []string {
	return []string{"auth"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *TaskModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "auth" {
		m.authAdapter = auth.NewAuthAdapter(container)
	}
}

// SetCache attaches the caching layer. The cache module is wired after
// startup, so this forwards to the service when it already exists.
func (m *TaskModule) SetCache(c cache.CacheService) {
	if m.service != nil {
		m.service.SetCache(c)
		return
	}
	m.pendingCache = c
}

// Start initializes the task module.
func (m *TaskModule) Start(_ context.Context) error {
	if m.authAdapter == nil {
		return fmt.Errorf("auth dependency not set")
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db
	m.repo = domain.NewRepository(db)

	if err := m.repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	m.service = NewService(m.repo, m.authAdapter, m.pendingCache)

	log.Printf("[task] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop shuts down the module.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[task] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	services := []struct {
		name     string
		register func(mono.ServiceContainer) error
	}{
		{"task.create", func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "task.create", json.Unmarshal, json.Marshal, m.handleCreate)
		}},
		{"task.get", func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "task.get", json.Unmarshal, json.Marshal, m.handleGet)
		}},
		{"task.list", func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "task.list", json.Unmarshal, json.Marshal, m.handleList)
		}},
		{"task.mine", func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "task.mine", json.Unmarshal, json.Marshal, m.handleMine)
		}},
		{"task.update", func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "task.update", json.Unmarshal, json.Marshal, m.handleUpdate)
		}},
		{"task.delete", func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "task.delete", json.Unmarshal, json.Marshal, m.handleDelete)
		}},
		{"task.stats", func(c mono.ServiceContainer) error {
			return helper.RegisterTypedRequestReplyService(c, "task.stats", json.Unmarshal, json.Marshal, m.handleStats)
		}},
	}

	for _, svc := range services {
		if err := svc.register(container); err != nil {
			return fmt.Errorf("failed to register %s service: %w", svc.name, err)
		}
	}

	log.Printf("[task] Registered services: task.create, task.get, task.list, task.mine, task.update, task.delete, task.stats")
	return nil
}

// handleCreate handles task creation.
func (m *TaskModule) handleCreate(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (CreateTaskResponse, error) {
	t, err := m.service.Create(ctx, req)
	if err != nil {
		return CreateTaskResponse{}, err
	}

	log.Printf("[task] Task created: %s by user: %s", t.ID, req.Actor.UserID)
	return CreateTaskResponse{Task: *t}, nil
}

// handleGet handles fetching a single task.
func (m *TaskModule) handleGet(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (GetTaskResponse, error) {
	t, err := m.service.Get(ctx, req.ID, req.Actor)
	if err != nil {
		return GetTaskResponse{}, err
	}

	return GetTaskResponse{Task: t}, nil
}

// handleList handles the scoped task listing.
func (m *TaskModule) handleList(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	tasks, err := m.service.List(ctx, req.Filters, req.Actor)
	if err != nil {
		return ListTasksResponse{}, err
	}

	return ListTasksResponse{Tasks: tasks, Count: len(tasks)}, nil
}

// handleMine handles the assigned-or-created listing.
func (m *TaskModule) handleMine(ctx context.Context, req MineTasksRequest, _ *mono.Msg) (MineTasksResponse, error) {
	tasks, err := m.service.Mine(ctx, req.Filters, req.Actor)
	if err != nil {
		return MineTasksResponse{}, err
	}

	return MineTasksResponse{Tasks: tasks, Count: len(tasks)}, nil
}

// handleUpdate handles a partial task update.
func (m *TaskModule) handleUpdate(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (UpdateTaskResponse, error) {
	t, err := m.service.Update(ctx, req)
	if err != nil {
		return UpdateTaskResponse{}, err
	}

	log.Printf("[task] Task updated: %s by user: %s", t.ID, req.Actor.UserID)
	return UpdateTaskResponse{Task: *t}, nil
}

// handleDelete handles task deletion.
func (m *TaskModule) handleDelete(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.service.Delete(ctx, req.ID, req.Actor); err != nil {
		return DeleteTaskResponse{Deleted: false, ID: req.ID}, err
	}

	log.Printf("[task] Task deleted: %s by user: %s", req.ID, req.Actor.UserID)
	return DeleteTaskResponse{Deleted: true, ID: req.ID}, nil
}

// handleStats handles the per-status count query.
func (m *TaskModule) handleStats(ctx context.Context, _ StatsRequest, _ *mono.Msg) (StatsResponse, error) {
	stats, err := m.service.Stats(ctx)
	if err != nil {
		return StatsResponse{}, err
	}

	return StatsResponse{Stats: stats}, nil
}
