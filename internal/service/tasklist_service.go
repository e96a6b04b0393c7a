package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/store"
)

// TaskListWithTasks bundles a task list with its (possibly filtered) tasks
// and the completion statistics computed over the unfiltered population.
type TaskListWithTasks struct {
	TaskList             *domain.TaskList `json:"task_list"`
	Tasks                []*domain.Task   `json:"tasks"`
	CompletionPercentage float64          `json:"completion_percentage"`
	TotalTasks           int              `json:"total_tasks"`
	CompletedTasks       int              `json:"completed_tasks"`
}

// TaskListService provides task-list-related operations.
type TaskListService interface {
	// Create validates the owner reference (when set) and persists a new
	// task list. Returns an InvalidReferenceError if the owner does not exist.
	Create(ctx context.Context, taskList *domain.TaskList) (*domain.TaskList, error)

	// Get retrieves a task list by its ID.
	// Returns store.ErrTaskListNotFound if the task list does not exist.
	Get(ctx context.Context, taskListID int64) (*domain.TaskList, error)

	// Update applies a partial update onto the stored task list: nil patch
	// fields keep the stored value. The effective owner reference after
	// the merge is validated against the user store.
	Update(ctx context.Context, taskListID int64, patch *domain.TaskListPatch) (*domain.TaskList, error)

	// Delete removes a task list. Returns (false, nil) if the task list
	// does not exist, and a HasDependentsError if tasks still reference it.
	Delete(ctx context.Context, taskListID int64) (bool, error)

	// ListAll retrieves every task list.
	ListAll(ctx context.Context) ([]*domain.TaskList, error)

	// GetTasksWithCompletion returns the task list, the tasks matching the
	// optional status/priority filters, and completion statistics computed
	// over the full unfiltered population of the list.
	// Returns store.ErrTaskListNotFound if the task list does not exist.
	GetTasksWithCompletion(
		ctx context.Context,
		taskListID int64,
		status *domain.TaskStatus,
		priority *domain.TaskPriority,
	) (*TaskListWithTasks, error)
}

// taskListServiceImpl implements the TaskListService interface.
type taskListServiceImpl struct {
	taskListStore store.TaskListStore
	taskStore     store.TaskStore
	userStore     store.UserStore
	db            *sql.DB
	logger        *slog.Logger
}

// NewTaskListService creates a new TaskListService.
func NewTaskListService(
	taskListStore store.TaskListStore,
	taskStore store.TaskStore,
	userStore store.UserStore,
	db *sql.DB,
	logger *slog.Logger,
) TaskListService {
	if logger == nil {
		logger = slog.Default()
	}
	return &taskListServiceImpl{
		taskListStore: taskListStore,
		taskStore:     taskStore,
		userStore:     userStore,
		db:            db,
		logger:        logger.With(slog.String("component", "task_list_service")),
	}
}

// Create implements TaskListService.Create
// The owner reference is checked up front (pre-flight) within the same
// transaction as the write, matching how the rest of the service validates
// cross-entity references that the schema cannot express as RESTRICT.
func (s *taskListServiceImpl) Create(ctx context.Context, taskList *domain.TaskList) (*domain.TaskList, error) {
	var created *domain.TaskList

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if taskList.UserID != nil {
			if err := s.checkUserExists(ctx, s.userStore.WithTx(tx), *taskList.UserID); err != nil {
				return err
			}
		}

		var err error
		created, err = s.taskListStore.WithTx(tx).Create(ctx, taskList)
		return err
	})

	if err != nil {
		if store.IsInvalidReferenceError(err) {
			s.logger.Debug("task list creation rejected for dangling owner",
				"user_id", taskList.UserID)
		} else {
			s.logger.Error("failed to create task list",
				"error", err,
				"title", taskList.Title)
		}
		return nil, err
	}

	s.logger.Info("task list created",
		"task_list_id", created.ID,
		"title", created.Title)

	return created, nil
}

// Get implements TaskListService.Get
func (s *taskListServiceImpl) Get(ctx context.Context, taskListID int64) (*domain.TaskList, error) {
	return s.taskListStore.GetByID(ctx, taskListID)
}

// Update implements TaskListService.Update
// Read-merge-write: nil patch fields keep the stored value; ID, IsActive
// and timestamps always carry over from the current record.
func (s *taskListServiceImpl) Update(ctx context.Context, taskListID int64, patch *domain.TaskListPatch) (*domain.TaskList, error) {
	var updated *domain.TaskList

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskListStore.WithTx(tx)

		current, err := txStore.GetByID(ctx, taskListID)
		if err != nil {
			return err
		}

		merged := patch.Apply(current)

		// The effective owner after the merge must exist, whether it came
		// from the patch or the stored record.
		if merged.UserID != nil {
			if err := s.checkUserExists(ctx, s.userStore.WithTx(tx), *merged.UserID); err != nil {
				return err
			}
		}

		updated, err = txStore.Update(ctx, merged)
		return err
	})

	if err != nil {
		if !store.IsNotFoundError(err) && !store.IsInvalidReferenceError(err) {
			s.logger.Error("failed to update task list",
				"error", err,
				"task_list_id", taskListID)
		}
		return nil, err
	}

	s.logger.Info("task list updated",
		"task_list_id", taskListID)

	return updated, nil
}

// Delete implements TaskListService.Delete
func (s *taskListServiceImpl) Delete(ctx context.Context, taskListID int64) (bool, error) {
	var deleted bool

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		deleted, err = s.taskListStore.WithTx(tx).Delete(ctx, taskListID)
		return err
	})

	if err != nil {
		if store.IsHasDependentsError(err) {
			s.logger.Debug("task list delete blocked by dependent tasks",
				"task_list_id", taskListID)
		} else {
			s.logger.Error("failed to delete task list",
				"error", err,
				"task_list_id", taskListID)
		}
		return false, err
	}

	if deleted {
		s.logger.Info("task list deleted",
			"task_list_id", taskListID)
	}

	return deleted, nil
}

// ListAll implements TaskListService.ListAll
func (s *taskListServiceImpl) ListAll(ctx context.Context) ([]*domain.TaskList, error) {
	return s.taskListStore.ListAll(ctx)
}

// GetTasksWithCompletion implements TaskListService.GetTasksWithCompletion
// This is an idempotent read with no side effects. The displayed task
// sequence honors the filters; the statistics never do - they always
// reflect the full population of the task list. When no filter is supplied
// the filtered set is the full population, so the second fetch is skipped.
func (s *taskListServiceImpl) GetTasksWithCompletion(
	ctx context.Context,
	taskListID int64,
	status *domain.TaskStatus,
	priority *domain.TaskPriority,
) (*TaskListWithTasks, error) {
	taskList, err := s.taskListStore.GetByID(ctx, taskListID)
	if err != nil {
		return nil, err
	}

	filteredTasks, err := s.taskStore.ListByFilters(ctx, store.TaskFilters{
		TaskListID: &taskListID,
		Status:     status,
		Priority:   priority,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list filtered tasks: %w", err)
	}

	allTasks := filteredTasks
	if status != nil || priority != nil {
		allTasks, err = s.taskStore.ListByTaskListID(ctx, taskListID)
		if err != nil {
			return nil, fmt.Errorf("failed to list tasks for completion stats: %w", err)
		}
	}

	completedCount := 0
	for _, task := range allTasks {
		if task.Status == domain.TaskStatusCompleted {
			completedCount++
		}
	}

	// Exactly 0.0 for an empty population; otherwise completed/total*100
	// rounded to two decimal places.
	completionPercentage := 0.0
	if len(allTasks) > 0 {
		completionPercentage = roundToTwoDecimals(float64(completedCount) / float64(len(allTasks)) * 100)
	}

	return &TaskListWithTasks{
		TaskList:             taskList,
		Tasks:                filteredTasks,
		CompletionPercentage: completionPercentage,
		TotalTasks:           len(allTasks),
		CompletedTasks:       completedCount,
	}, nil
}

// checkUserExists verifies that the referenced user exists, translating a
// not-found into the typed InvalidReferenceError carrying the offending ID.
func (s *taskListServiceImpl) checkUserExists(ctx context.Context, users store.UserStore, userID int64) error {
	_, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.NewInvalidReferenceError("user", userID, nil)
		}
		return fmt.Errorf("failed to verify user %d: %w", userID, err)
	}
	return nil
}

// roundToTwoDecimals rounds half away from zero to two decimal places.
func roundToTwoDecimals(v float64) float64 {
	return math.Round(v*100) / 100
}
