package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/store"
)

// TaskService provides task-related operations.
type TaskService interface {
	// Create persists a new task. Dangling task list or assigned user
	// references surface as InvalidReferenceErrors carrying the offending ID.
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// Get retrieves a task by its ID.
	// Returns store.ErrTaskNotFound if the task does not exist.
	Get(ctx context.Context, taskID int64) (*domain.Task, error)

	// Update applies a partial update onto the stored task: nil patch
	// fields keep the stored value.
	Update(ctx context.Context, taskID int64, patch *domain.TaskPatch) (*domain.Task, error)

	// Delete removes a task. Returns (false, nil) if the task does not exist.
	Delete(ctx context.Context, taskID int64) (bool, error)

	// ListAll retrieves every task.
	ListAll(ctx context.Context) ([]*domain.Task, error)

	// ListByFilters retrieves tasks matching the given filters.
	ListByFilters(ctx context.Context, filters store.TaskFilters) ([]*domain.Task, error)

	// ChangeStatus sets a task's status, leaving every other field
	// untouched. Any status may follow any other; there is no transition
	// table. Returns store.ErrTaskNotFound if the task does not exist.
	ChangeStatus(ctx context.Context, taskID int64, status domain.TaskStatus) (*domain.Task, error)

	// CompletionPercentage computes the percentage of completed tasks in
	// the given task list, 0.0 when the list has no tasks.
	CompletionPercentage(ctx context.Context, taskListID int64) (float64, error)
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	taskStore store.TaskStore
	db        *sql.DB
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, db *sql.DB, logger *slog.Logger) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		taskStore: taskStore,
		db:        db,
		logger:    logger.With(slog.String("component", "task_service")),
	}
}

// Create implements TaskService.Create
// Reference validation is delegated to the store, which writes
// optimistically and translates foreign key violations into typed errors.
// This keeps creation race-free without pre-flight existence queries.
func (s *taskServiceImpl) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	var created *domain.Task

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		created, err = s.taskStore.WithTx(tx).Create(ctx, task)
		return err
	})

	if err != nil {
		if store.IsInvalidReferenceError(err) {
			s.logger.Debug("task creation rejected for dangling reference",
				"task_list_id", task.TaskListID,
				"assigned_user_id", task.AssignedUserID)
		} else {
			s.logger.Error("failed to create task",
				"error", err,
				"task_list_id", task.TaskListID)
		}
		return nil, err
	}

	s.logger.Info("task created",
		"task_id", created.ID,
		"task_list_id", created.TaskListID)

	return created, nil
}

// Get implements TaskService.Get
func (s *taskServiceImpl) Get(ctx context.Context, taskID int64) (*domain.Task, error) {
	return s.taskStore.GetByID(ctx, taskID)
}

// Update implements TaskService.Update
// Read-merge-write: nil patch fields keep the stored value; ID, IsActive
// and timestamps always carry over from the current record.
func (s *taskServiceImpl) Update(ctx context.Context, taskID int64, patch *domain.TaskPatch) (*domain.Task, error) {
	var updated *domain.Task

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		current, err := txStore.GetByID(ctx, taskID)
		if err != nil {
			return err
		}

		updated, err = txStore.Update(ctx, patch.Apply(current))
		return err
	})

	if err != nil {
		if !store.IsNotFoundError(err) && !store.IsInvalidReferenceError(err) {
			s.logger.Error("failed to update task",
				"error", err,
				"task_id", taskID)
		}
		return nil, err
	}

	s.logger.Info("task updated",
		"task_id", taskID)

	return updated, nil
}

// Delete implements TaskService.Delete
func (s *taskServiceImpl) Delete(ctx context.Context, taskID int64) (bool, error) {
	var deleted bool

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		deleted, err = s.taskStore.WithTx(tx).Delete(ctx, taskID)
		return err
	})

	if err != nil {
		s.logger.Error("failed to delete task",
			"error", err,
			"task_id", taskID)
		return false, err
	}

	if deleted {
		s.logger.Info("task deleted",
			"task_id", taskID)
	}

	return deleted, nil
}

// ListAll implements TaskService.ListAll
func (s *taskServiceImpl) ListAll(ctx context.Context) ([]*domain.Task, error) {
	return s.taskStore.ListAll(ctx)
}

// ListByFilters implements TaskService.ListByFilters
func (s *taskServiceImpl) ListByFilters(ctx context.Context, filters store.TaskFilters) ([]*domain.Task, error) {
	return s.taskStore.ListByFilters(ctx, filters)
}

// ChangeStatus implements TaskService.ChangeStatus
// Load, set the status, persist the full record.
func (s *taskServiceImpl) ChangeStatus(ctx context.Context, taskID int64, status domain.TaskStatus) (*domain.Task, error) {
	var updated *domain.Task

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := txStore.GetByID(ctx, taskID)
		if err != nil {
			return err
		}

		task.Status = status
		updated, err = txStore.Update(ctx, task)
		return err
	})

	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to change task status",
				"error", err,
				"task_id", taskID,
				"status", status)
		}
		return nil, err
	}

	s.logger.Info("task status changed",
		"task_id", taskID,
		"status", status)

	return updated, nil
}

// CompletionPercentage implements TaskService.CompletionPercentage
func (s *taskServiceImpl) CompletionPercentage(ctx context.Context, taskListID int64) (float64, error) {
	tasks, err := s.taskStore.ListByTaskListID(ctx, taskListID)
	if err != nil {
		return 0, err
	}

	if len(tasks) == 0 {
		return 0.0, nil
	}

	completed := 0
	for _, task := range tasks {
		if task.Status == domain.TaskStatusCompleted {
			completed++
		}
	}

	return roundToTwoDecimals(float64(completed) / float64(len(tasks)) * 100), nil
}
