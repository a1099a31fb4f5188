package task

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/example/task-manager/domain/apperr"
	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/domain/user"
	"github.com/example/task-manager/modules/auth"
	"github.com/example/task-manager/modules/cache"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const statsCacheKey = "stats"

// Service orchestrates the task rules: it fetches records, consults the
// authorization and lifecycle rules, and persists the outcome. All
// collaborators are injected at construction.
type Service struct {
	repo    *domain.Repository
	users   auth.AuthPort
	cache   cache.CacheService // nil disables caching
	sfGroup singleflight.Group // prevents cache stampede on stats recompute
}

// NewService creates a new task service.
func NewService(repo *domain.Repository, users auth.AuthPort, c cache.CacheService) *Service {
	return &Service{
		repo:  repo,
		users: users,
		cache: c,
	}
}

// SetCache attaches a cache after construction. Used when the cache
// module is wired after startup.
func (s *Service) SetCache(c cache.CacheService) {
	s.cache = c
}

// Create validates and stores a new task owned by the actor.
func (s *Service) Create(ctx context.Context, req CreateTaskRequest) (*domain.Task, error) {
	if err := s.checkAssignee(ctx, req.AssignedTo); err != nil {
		return nil, err
	}

	t, err := domain.New(domain.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
	}, req.Actor.UserID, time.Now())
	if err != nil {
		return nil, err
	}
	t.ID = uuid.New().String()

	if err := s.repo.Create(t); err != nil {
		return nil, apperr.Persistence("Failed to create task")
	}

	s.invalidateStats(ctx)
	return t, nil
}

// Get fetches a task by id, enforcing the view rule, and joins the
// linked user summaries.
func (s *Service) Get(ctx context.Context, id string, actor user.Claims) (domain.WithUsers, error) {
	t, err := s.findByID(ctx, id)
	if err != nil {
		return domain.WithUsers{}, err
	}

	if !domain.CanView(actor.UserID, actor.Role, t) {
		return domain.WithUsers{}, apperr.Forbidden("Not authorized to view this task")
	}

	return s.withUsers(ctx, []*domain.Task{t})[0], nil
}

// List returns tasks matching the filters after scoping them to the
// actor's visibility: admins query unmodified, everyone else is
// narrowed to tasks assigned to themselves.
func (s *Service) List(ctx context.Context, filters domain.Filters, actor user.Claims) ([]domain.WithUsers, error) {
	scoped := domain.ScopeFilters(filters, actor.UserID, actor.Role)

	tasks, err := s.repo.FindAll(scoped)
	if err != nil {
		return nil, apperr.Persistence("Failed to fetch tasks")
	}

	return s.withUsers(ctx, tasks), nil
}

// Mine returns every task involving the actor, assigned or created,
// narrowed by the filters. This is the explicit counterpart to the
// assignee-only scoping List applies.
func (s *Service) Mine(ctx context.Context, filters domain.Filters, actor user.Claims) ([]domain.WithUsers, error) {
	tasks, err := s.repo.FindInvolving(actor.UserID, filters)
	if err != nil {
		return nil, apperr.Persistence("Failed to fetch tasks")
	}

	return s.withUsers(ctx, tasks), nil
}

// Update applies a partial update to a task, enforcing the edit rule
// and the lifecycle rule (completion stamping, assignee resolution).
func (s *Service) Update(ctx context.Context, req UpdateTaskRequest) (*domain.Task, error) {
	existing, err := s.findByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if !domain.CanEdit(req.Actor.UserID, req.Actor.Role, existing) {
		return nil, apperr.Forbidden("Not authorized to update this task")
	}

	upd := req.Update()
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	if upd.AssignedTo != nil {
		if err := s.checkAssignee(ctx, *upd.AssignedTo); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	change := domain.BuildChange(existing, upd, now)
	change.Apply(existing, now)

	if err := s.repo.Update(existing); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("Task not found")
		}
		return nil, apperr.Persistence("Failed to update task")
	}

	s.invalidateTask(ctx, existing.ID)
	return existing, nil
}

// Delete removes a task, enforcing the delete rule: only admins and
// the creator may delete; assignment alone is not enough.
func (s *Service) Delete(ctx context.Context, id string, actor user.Claims) error {
	existing, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}

	if !domain.CanDelete(actor.UserID, actor.Role, existing) {
		return apperr.Forbidden("Not authorized to delete this task")
	}

	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperr.NotFound("Task not found")
		}
		return apperr.Persistence("Failed to delete task")
	}

	s.invalidateTask(ctx, id)
	return nil
}

// Stats returns the per-status task counts, zero-filled for statuses
// with no tasks. The result is cached and recomputed under
// singleflight so concurrent misses issue a single query.
func (s *Service) Stats(ctx context.Context) (map[domain.Status]int64, error) {
	if s.cache != nil {
		var cached map[domain.Status]int64
		found, err := s.cache.Get(ctx, statsCacheKey, &cached)
		if err != nil {
			log.Printf("[task] Cache error for stats: %v", err)
		}
		if found {
			return cached, nil
		}
	}

	val, err, _ := s.sfGroup.Do(statsCacheKey, func() (any, error) {
		counts, err := s.repo.CountByStatus()
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, statsCacheKey, counts); err != nil {
				log.Printf("[task] Failed to cache stats: %v", err)
			}
		}
		return counts, nil
	})
	if err != nil {
		return nil, apperr.Persistence("Failed to count tasks by status")
	}

	return val.(map[domain.Status]int64), nil
}

// findByID loads a task through the cache when one is attached.
func (s *Service) findByID(ctx context.Context, id string) (*domain.Task, error) {
	if s.cache != nil {
		var cached domain.Task
		found, err := s.cache.Get(ctx, taskCacheKey(id), &cached)
		if err != nil {
			log.Printf("[task] Cache error for ID=%s: %v", id, err)
		}
		if found {
			return &cached, nil
		}
	}

	t, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("Task not found")
		}
		return nil, apperr.Persistence("Failed to fetch task")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, taskCacheKey(id), t); err != nil {
			log.Printf("[task] Failed to cache task ID=%s: %v", id, err)
		}
	}
	return t, nil
}

// checkAssignee verifies a non-empty assignee references an existing
// user record.
func (s *Service) checkAssignee(ctx context.Context, assigneeID string) error {
	if assigneeID == "" {
		return nil
	}
	if _, err := s.users.GetUser(ctx, assigneeID); err != nil {
		return apperr.NotFound("Assigned user not found")
	}
	return nil
}

// withUsers joins user summaries onto tasks. Lookups are memoized per
// call; a summary that fails to resolve is simply omitted.
func (s *Service) withUsers(ctx context.Context, tasks []*domain.Task) []domain.WithUsers {
	memo := make(map[string]*user.Summary)
	lookup := func(id string) *user.Summary {
		if id == "" {
			return nil
		}
		if summary, ok := memo[id]; ok {
			return summary
		}
		profile, err := s.users.GetUser(ctx, id)
		if err != nil {
			memo[id] = nil
			return nil
		}
		summary := &user.Summary{ID: profile.ID, Name: profile.Name, Email: profile.Email}
		memo[id] = summary
		return summary
	}

	out := make([]domain.WithUsers, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, domain.WithUsers{
			Task:          *t,
			AssignedUser:  lookup(t.AssignedTo),
			CreatedByUser: lookup(t.CreatedBy),
		})
	}
	return out
}

func taskCacheKey(id string) string {
	return "id:" + id
}

// invalidateTask drops the cached record and the stats after a write.
func (s *Service) invalidateTask(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, taskCacheKey(id)); err != nil {
		log.Printf("[task] Failed to invalidate task ID=%s: %v", id, err)
	}
	s.invalidateStats(ctx)
}

// invalidateStats drops the cached stats after a write.
func (s *Service) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		log.Printf("[task] Failed to invalidate stats: %v", err)
	}
}
