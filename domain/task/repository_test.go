package task

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&Task{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func newTestTask(title string, mutate func(*Task)) *Task {
	now := time.Now()
	task := &Task{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    StatusPending,
		Priority:  PriorityMedium,
		CreatedBy: "creator-1",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if mutate != nil {
		mutate(task)
	}
	return task
}

func TestRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	task := newTestTask("Write report", func(tk *Task) {
		tk.Description = "Quarterly numbers"
		tk.AssignedTo = "user-2"
	})

	if err := repo.Create(task); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var found Task
	if err := db.First(&found, "id = ?", task.ID).Error; err != nil {
		t.Fatalf("failed to find created task: %v", err)
	}
	if found.Title != task.Title {
		t.Errorf("expected title %q, got %q", task.Title, found.Title)
	}
	if found.Status != StatusPending {
		t.Errorf("expected status %q, got %q", StatusPending, found.Status)
	}
}

func TestRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	task := newTestTask("FindByID test", nil)
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	t.Run("existing task", func(t *testing.T) {
		found, err := repo.FindByID(task.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.ID != task.ID {
			t.Errorf("expected ID %q, got %q", task.ID, found.ID)
		}
	})

	t.Run("non-existent task", func(t *testing.T) {
		_, err := repo.FindByID("non-existent-id")
		if err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	t.Run("empty database", func(t *testing.T) {
		tasks, err := repo.FindAll(Filters{})
		if err != nil {
			t.Fatalf("FindAll() error = %v", err)
		}
		if len(tasks) != 0 {
			t.Errorf("expected 0 tasks, got %d", len(tasks))
		}
	})

	due := time.Now().Add(48 * time.Hour)
	seed := []*Task{
		newTestTask("Pending low", func(tk *Task) {
			tk.Priority = PriorityLow
			tk.AssignedTo = "user-1"
		}),
		newTestTask("Completed high", func(tk *Task) {
			tk.Status = StatusCompleted
			tk.Priority = PriorityHigh
			tk.AssignedTo = "user-2"
			tk.DueDate = &due
		}),
		newTestTask("Pending high", func(tk *Task) {
			tk.Priority = PriorityHigh
			tk.AssignedTo = "user-1"
			tk.CreatedBy = "creator-2"
		}),
	}
	for _, tk := range seed {
		if err := db.Create(tk).Error; err != nil {
			t.Fatalf("failed to create test task: %v", err)
		}
	}

	tests := []struct {
		name    string
		filters Filters
		want    int
	}{
		{name: "no filters", filters: Filters{}, want: 3},
		{name: "by status", filters: Filters{Status: StatusPending}, want: 2},
		{name: "by priority", filters: Filters{Priority: PriorityHigh}, want: 2},
		{name: "by assignee", filters: Filters{AssignedTo: "user-1"}, want: 2},
		{name: "by creator", filters: Filters{CreatedBy: "creator-2"}, want: 1},
		{name: "combined", filters: Filters{Status: StatusPending, Priority: PriorityHigh}, want: 1},
		{name: "due date window", filters: Filters{DueDateFrom: ptrTime(time.Now())}, want: 1},
		{name: "no match", filters: Filters{Status: StatusCancelled}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := repo.FindAll(tt.filters)
			if err != nil {
				t.Fatalf("FindAll() error = %v", err)
			}
			if len(tasks) != tt.want {
				t.Errorf("expected %d tasks, got %d", tt.want, len(tasks))
			}
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestRepository_FindInvolving(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	seed := []*Task{
		newTestTask("Assigned to me", func(tk *Task) {
			tk.AssignedTo = "me"
			tk.CreatedBy = "other"
		}),
		newTestTask("Created by me", func(tk *Task) {
			tk.AssignedTo = "other"
			tk.CreatedBy = "me"
			tk.Status = StatusCompleted
		}),
		newTestTask("Unrelated", func(tk *Task) {
			tk.AssignedTo = "other"
			tk.CreatedBy = "other"
		}),
	}
	for _, tk := range seed {
		if err := db.Create(tk).Error; err != nil {
			t.Fatalf("failed to create test task: %v", err)
		}
	}

	t.Run("no filters", func(t *testing.T) {
		tasks, err := repo.FindInvolving("me", Filters{})
		if err != nil {
			t.Fatalf("FindInvolving() error = %v", err)
		}
		if len(tasks) != 2 {
			t.Fatalf("expected 2 tasks, got %d", len(tasks))
		}
		for _, tk := range tasks {
			if tk.AssignedTo != "me" && tk.CreatedBy != "me" {
				t.Errorf("task %q does not involve the user", tk.Title)
			}
		}
	})

	// The status filter must AND with the involvement clause as a unit;
	// the unrelated pending task must not leak in through the OR.
	t.Run("with status filter", func(t *testing.T) {
		tasks, err := repo.FindInvolving("me", Filters{Status: StatusPending})
		if err != nil {
			t.Fatalf("FindInvolving() error = %v", err)
		}
		if len(tasks) != 1 {
			t.Fatalf("expected 1 task, got %d", len(tasks))
		}
		if tasks[0].Title != "Assigned to me" {
			t.Errorf("task = %q, want %q", tasks[0].Title, "Assigned to me")
		}
	})
}

func TestRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	task := newTestTask("Original title", func(tk *Task) {
		tk.AssignedTo = "user-1"
	})
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	t.Run("update existing task", func(t *testing.T) {
		task.Title = "Updated title"
		task.Status = StatusInProgress
		task.AssignedTo = ""

		if err := repo.Update(task); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		var found Task
		if err := db.First(&found, "id = ?", task.ID).Error; err != nil {
			t.Fatalf("failed to find updated task: %v", err)
		}
		if found.Title != "Updated title" {
			t.Errorf("expected title %q, got %q", "Updated title", found.Title)
		}
		if found.Status != StatusInProgress {
			t.Errorf("expected status %q, got %q", StatusInProgress, found.Status)
		}
		// Clearing the assignee must persist, not be skipped as a zero value.
		if found.AssignedTo != "" {
			t.Errorf("expected empty assignee, got %q", found.AssignedTo)
		}
	})

	t.Run("update non-existent task", func(t *testing.T) {
		missing := newTestTask("Should not work", nil)
		missing.ID = "non-existent-id"
		if err := repo.Update(missing); err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	task := newTestTask("To be deleted", nil)
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	t.Run("delete existing task", func(t *testing.T) {
		if err := repo.Delete(task.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		// Tasks are destroyed, not soft-deleted.
		var count int64
		if err := db.Model(&Task{}).Where("id = ?", task.ID).Count(&count).Error; err != nil {
			t.Fatalf("failed to count tasks: %v", err)
		}
		if count != 0 {
			t.Errorf("expected task row to be gone, found %d", count)
		}
	})

	t.Run("delete non-existent task", func(t *testing.T) {
		if err := repo.Delete("non-existent-id"); err != ErrNotFound {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRepository_CountByStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepository(db)

	t.Run("empty database is zero-filled", func(t *testing.T) {
		counts, err := repo.CountByStatus()
		if err != nil {
			t.Fatalf("CountByStatus() error = %v", err)
		}
		if len(counts) != len(Statuses) {
			t.Fatalf("expected %d statuses, got %d", len(Statuses), len(counts))
		}
		for _, s := range Statuses {
			if counts[s] != 0 {
				t.Errorf("expected count 0 for %q, got %d", s, counts[s])
			}
		}
	})

	seed := []Status{StatusPending, StatusPending, StatusCompleted}
	for _, s := range seed {
		tk := newTestTask("Counted", func(tk *Task) { tk.Status = s })
		if err := db.Create(tk).Error; err != nil {
			t.Fatalf("failed to create test task: %v", err)
		}
	}

	t.Run("populated database", func(t *testing.T) {
		counts, err := repo.CountByStatus()
		if err != nil {
			t.Fatalf("CountByStatus() error = %v", err)
		}
		if counts[StatusPending] != 2 {
			t.Errorf("expected 2 pending, got %d", counts[StatusPending])
		}
		if counts[StatusCompleted] != 1 {
			t.Errorf("expected 1 completed, got %d", counts[StatusCompleted])
		}
		if counts[StatusCancelled] != 0 {
			t.Errorf("expected 0 cancelled, got %d", counts[StatusCancelled])
		}
	})
}
