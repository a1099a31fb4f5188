package task

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a task is not found.
var ErrNotFound = errors.New("task not found")

// Repository provides access to task storage using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate runs the schema migration for tasks.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&Task{})
}

// Create saves a new task to the database.
func (r *Repository) Create(t *Task) error {
	if err := r.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *Repository) FindByID(id string) (*Task, error) {
	var t Task
	if err := r.db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// FindAll retrieves tasks matching the filters, newest first.
func (r *Repository) FindAll(f Filters) ([]*Task, error) {
	var tasks []*Task
	query := applyFilters(r.db, f)
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, nil
}

// FindInvolving retrieves tasks the user is assigned to or created,
// further narrowed by the filters, newest first.
func (r *Repository) FindInvolving(userID string, f Filters) ([]*Task, error) {
	var tasks []*Task
	query := applyFilters(r.db, f).
		Where("assigned_to = ? OR created_by = ?", userID, userID)
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, nil
}

// Update writes the full task record back to the database. All fields
// are written, including zero values, so clearing an assignee sticks.
func (r *Repository) Update(t *Task) error {
	result := r.db.Model(&Task{}).Where("id = ?", t.ID).Select("*").Omit("id", "created_at").Updates(t)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task by ID. Tasks are destroyed, not soft-deleted.
func (r *Repository) Delete(id string) error {
	result := r.db.Delete(&Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus returns the number of tasks per status. Every status
// value is present in the result, zero-filled when absent.
func (r *Repository) CountByStatus() (map[Status]int64, error) {
	type row struct {
		Status Status
		Count  int64
	}
	var rows []row
	err := r.db.Model(&Task{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}

	counts := make(map[Status]int64, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// applyFilters builds the WHERE clause for a filter set. Absent fields
// impose no constraint.
func applyFilters(db *gorm.DB, f Filters) *gorm.DB {
	query := db.Model(&Task{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		query = query.Where("priority = ?", f.Priority)
	}
	if f.AssignedTo != "" {
		query = query.Where("assigned_to = ?", f.AssignedTo)
	}
	if f.CreatedBy != "" {
		query = query.Where("created_by = ?", f.CreatedBy)
	}
	if f.DueDateFrom != nil {
		query = query.Where("due_date >= ?", f.DueDateFrom)
	}
	if f.DueDateTo != nil {
		query = query.Where("due_date <= ?", f.DueDateTo)
	}
	return query
}
