package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/taskdeck-api/internal/domain"
)

// TaskListStore defines the interface for task list data persistence.
type TaskListStore interface {
	// Create saves a new task list to the store and populates its ID and
	// timestamps from the database.
	// Returns an InvalidReferenceError if the owner reference is dangling.
	Create(ctx context.Context, taskList *domain.TaskList) (*domain.TaskList, error)

	// GetByID retrieves a task list by its unique ID.
	// Returns ErrTaskListNotFound if the task list does not exist.
	GetByID(ctx context.Context, id int64) (*domain.TaskList, error)

	// Update replaces an existing task list with the given full record.
	// The updated_at timestamp is refreshed by the store on write.
	// Returns ErrTaskListNotFound if the task list does not exist.
	Update(ctx context.Context, taskList *domain.TaskList) (*domain.TaskList, error)

	// Delete removes a task list by its ID. It returns (false, nil) if the
	// task list does not exist, and a HasDependentsError if tasks still
	// reference it. No pre-check query is issued; the database's own
	// referential-integrity enforcement decides, which avoids a race
	// between check and delete.
	Delete(ctx context.Context, id int64) (bool, error)

	// ListAll retrieves every task list in the store.
	ListAll(ctx context.Context) ([]*domain.TaskList, error)

	// WithTx returns a new TaskListStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskListStore
}
