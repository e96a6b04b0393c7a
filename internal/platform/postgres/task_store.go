package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/store"
)

// taskColumns is the column list used by every task SELECT, in scan order.
var taskColumns = []string{
	"id",
	"title",
	"description",
	"task_list_id",
	"status",
	"priority",
	"assigned_user_id",
	"due_date",
	"is_active",
	"created_at",
	"updated_at",
}

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
// The write is optimistic: dangling references surface as foreign key
// violations, which are classified structurally (by the violated
// constraint's name as reported by the server) into InvalidReferenceErrors
// carrying the offending ID.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO tasks (title, description, task_list_id, status, priority, assigned_user_id, due_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	created := *task
	err := s.db.QueryRowContext(ctx, query,
		task.Title,
		task.Description,
		task.TaskListID,
		task.Status,
		task.Priority,
		task.AssignedUserID,
		task.DueDate,
		task.IsActive,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)

	if err != nil {
		if refErr := s.classifyReferenceViolation(err, task); refErr != nil {
			return nil, refErr
		}
		s.logger.Error("failed to create task",
			"error", err,
			"task_list_id", task.TaskListID)
		return nil, MapError(err)
	}

	return &created, nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	query := `
		SELECT id, title, description, task_list_id, status, priority, assigned_user_id, due_date, is_active, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	var task domain.Task
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.TaskListID,
		&task.Status,
		&task.Priority,
		&task.AssignedUserID,
		&task.DueDate,
		&task.IsActive,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}

	return &task, nil
}

// Update implements store.TaskStore.Update
// It replaces the stored record with the given one; the updated_at
// timestamp is refreshed here, not taken from the entity.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, task_list_id = $3, status = $4, priority = $5,
		    assigned_user_id = $6, due_date = $7, is_active = $8, updated_at = now()
		WHERE id = $9
		RETURNING created_at, updated_at
	`

	updated := *task
	err := s.db.QueryRowContext(ctx, query,
		task.Title,
		task.Description,
		task.TaskListID,
		task.Status,
		task.Priority,
		task.AssignedUserID,
		task.DueDate,
		task.IsActive,
		task.ID,
	).Scan(&updated.CreatedAt, &updated.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrTaskNotFound
		}
		if refErr := s.classifyReferenceViolation(err, task); refErr != nil {
			return nil, refErr
		}
		s.logger.Error("failed to update task",
			"error", err,
			"task_id", task.ID)
		return nil, MapError(err)
	}

	return &updated, nil
}

// Delete implements store.TaskStore.Delete
// A missing row is (false, nil), not an error.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM tasks WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		s.logger.Error("failed to delete task",
			"error", err,
			"task_id", id)
		return false, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, MapError(err)
	}

	return rowsAffected > 0, nil
}

// ListAll implements store.TaskStore.ListAll
func (s *PostgresTaskStore) ListAll(ctx context.Context) ([]*domain.Task, error) {
	return s.ListByFilters(ctx, store.TaskFilters{})
}

// ListByTaskListID implements store.TaskStore.ListByTaskListID
func (s *PostgresTaskStore) ListByTaskListID(ctx context.Context, taskListID int64) ([]*domain.Task, error) {
	return s.ListByFilters(ctx, store.TaskFilters{TaskListID: &taskListID})
}

// ListByFilters implements store.TaskStore.ListByFilters
// The WHERE clause is built dynamically from whichever filters are set.
func (s *PostgresTaskStore) ListByFilters(ctx context.Context, filters store.TaskFilters) ([]*domain.Task, error) {
	builder := squirrel.Select(taskColumns...).
		From("tasks").
		OrderBy("id ASC").
		PlaceholderFormat(squirrel.Dollar)

	conditions := squirrel.And{}
	if filters.TaskListID != nil {
		conditions = append(conditions, squirrel.Eq{"task_list_id": *filters.TaskListID})
	}
	if filters.Status != nil {
		conditions = append(conditions, squirrel.Eq{"status": *filters.Status})
	}
	if filters.Priority != nil {
		conditions = append(conditions, squirrel.Eq{"priority": *filters.Priority})
	}
	if len(conditions) > 0 {
		builder = builder.Where(conditions)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, MapError(err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("failed to query tasks by filters",
			"error", err)
		return nil, MapError(err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.TaskListID,
			&task.Status,
			&task.Priority,
			&task.AssignedUserID,
			&task.DueDate,
			&task.IsActive,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// classifyReferenceViolation turns a foreign key violation raised while
// writing a task into the typed InvalidReferenceError for the reference the
// violated constraint concerns. Returns nil if the error is not a foreign
// key violation or cannot be attributed to a known reference.
func (s *PostgresTaskStore) classifyReferenceViolation(err error, task *domain.Task) error {
	constraint, ok := violatedConstraint(err)
	if !ok {
		return nil
	}

	if constraintConcerns(constraint, "task_list_id") {
		return store.NewInvalidReferenceError("task list", task.TaskListID, err)
	}

	if constraintConcerns(constraint, "assigned_user_id") && task.AssignedUserID != nil {
		return store.NewInvalidReferenceError("user", *task.AssignedUserID, err)
	}

	return nil
}
