package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/taskdeck-api/internal/domain"
)

// TaskFilters restricts a task listing. Nil fields are not applied.
type TaskFilters struct {
	TaskListID *int64
	Status     *domain.TaskStatus
	Priority   *domain.TaskPriority
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store and populates its ID and
	// timestamps from the database.
	// Returns an InvalidReferenceError carrying the offending ID if the
	// task list or assigned user reference is dangling.
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Update replaces an existing task with the given full record.
	// The updated_at timestamp is refreshed by the store on write.
	// Returns ErrTaskNotFound if the task does not exist, and an
	// InvalidReferenceError if a reference is dangling.
	Update(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// Delete removes a task by its ID. It returns (false, nil) if the task
	// does not exist.
	Delete(ctx context.Context, id int64) (bool, error)

	// ListAll retrieves every task in the store.
	ListAll(ctx context.Context) ([]*domain.Task, error)

	// ListByTaskListID retrieves all tasks belonging to the given task list.
	ListByTaskListID(ctx context.Context, taskListID int64) ([]*domain.Task, error)

	// ListByFilters retrieves the tasks matching the given filters.
	// Filters left nil are not applied; with no filters set this is
	// equivalent to ListAll.
	ListByFilters(ctx context.Context, filters TaskFilters) ([]*domain.Task, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
