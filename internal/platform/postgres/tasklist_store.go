package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/store"
)

// PostgresTaskListStore implements the store.TaskListStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskListStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskListStore creates a new PostgreSQL implementation of the TaskListStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskListStore(db store.DBTX, logger *slog.Logger) *PostgresTaskListStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskListStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_list_store")),
	}
}

// Ensure PostgresTaskListStore implements store.TaskListStore interface
var _ store.TaskListStore = (*PostgresTaskListStore)(nil)

// Create implements store.TaskListStore.Create
func (s *PostgresTaskListStore) Create(ctx context.Context, taskList *domain.TaskList) (*domain.TaskList, error) {
	if err := taskList.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO task_lists (title, description, user_id, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	created := *taskList
	err := s.db.QueryRowContext(ctx, query,
		taskList.Title,
		taskList.Description,
		taskList.UserID,
		taskList.IsActive,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)

	if err != nil {
		if constraint, ok := violatedConstraint(err); ok {
			if constraintConcerns(constraint, "user_id") && taskList.UserID != nil {
				return nil, store.NewInvalidReferenceError("user", *taskList.UserID, err)
			}
		}
		s.logger.Error("failed to create task list",
			"error", err,
			"title", taskList.Title)
		return nil, MapError(err)
	}

	return &created, nil
}

// GetByID implements store.TaskListStore.GetByID
func (s *PostgresTaskListStore) GetByID(ctx context.Context, id int64) (*domain.TaskList, error) {
	query := `
		SELECT id, title, description, user_id, is_active, created_at, updated_at
		FROM task_lists
		WHERE id = $1
	`

	var taskList domain.TaskList
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&taskList.ID,
		&taskList.Title,
		&taskList.Description,
		&taskList.UserID,
		&taskList.IsActive,
		&taskList.CreatedAt,
		&taskList.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrTaskListNotFound
		}
		return nil, MapError(err)
	}

	return &taskList, nil
}

// Update implements store.TaskListStore.Update
// It replaces the stored record with the given one; the updated_at
// timestamp is refreshed here, not taken from the entity.
func (s *PostgresTaskListStore) Update(ctx context.Context, taskList *domain.TaskList) (*domain.TaskList, error) {
	if err := taskList.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE task_lists
		SET title = $1, description = $2, user_id = $3, is_active = $4, updated_at = now()
		WHERE id = $5
		RETURNING created_at, updated_at
	`

	updated := *taskList
	err := s.db.QueryRowContext(ctx, query,
		taskList.Title,
		taskList.Description,
		taskList.UserID,
		taskList.IsActive,
		taskList.ID,
	).Scan(&updated.CreatedAt, &updated.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrTaskListNotFound
		}
		if constraint, ok := violatedConstraint(err); ok {
			if constraintConcerns(constraint, "user_id") && taskList.UserID != nil {
				return nil, store.NewInvalidReferenceError("user", *taskList.UserID, err)
			}
		}
		s.logger.Error("failed to update task list",
			"error", err,
			"task_list_id", taskList.ID)
		return nil, MapError(err)
	}

	return &updated, nil
}

// Delete implements store.TaskListStore.Delete
// The delete is attempted without a pre-check; a foreign key violation
// raised by the database means tasks still reference the list and maps to
// a HasDependentsError. A missing row is (false, nil), not an error.
func (s *PostgresTaskListStore) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM task_lists WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		if IsForeignKeyViolation(err) {
			s.logger.Debug("task list delete blocked by dependent tasks",
				"task_list_id", id)
			return false, store.NewHasDependentsError(id, err)
		}
		s.logger.Error("failed to delete task list",
			"error", err,
			"task_list_id", id)
		return false, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, MapError(err)
	}

	return rowsAffected > 0, nil
}

// ListAll implements store.TaskListStore.ListAll
func (s *PostgresTaskListStore) ListAll(ctx context.Context) ([]*domain.TaskList, error) {
	query := `
		SELECT id, title, description, user_id, is_active, created_at, updated_at
		FROM task_lists
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var taskLists []*domain.TaskList
	for rows.Next() {
		var taskList domain.TaskList
		if err := rows.Scan(
			&taskList.ID,
			&taskList.Title,
			&taskList.Description,
			&taskList.UserID,
			&taskList.IsActive,
			&taskList.CreatedAt,
			&taskList.UpdatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		taskLists = append(taskLists, &taskList)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return taskLists, nil
}

// WithTx implements store.TaskListStore.WithTx
func (s *PostgresTaskListStore) WithTx(tx *sql.Tx) store.TaskListStore {
	return &PostgresTaskListStore{
		db:     tx,
		logger: s.logger,
	}
}
