package api_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/service"
	"github.com/phrazzld/taskdeck-api/internal/store"
)

// mockTaskService implements service.TaskService with pluggable behavior.
type mockTaskService struct {
	createFn               func(ctx context.Context, task *domain.Task) (*domain.Task, error)
	getFn                  func(ctx context.Context, taskID int64) (*domain.Task, error)
	updateFn               func(ctx context.Context, taskID int64, patch *domain.TaskPatch) (*domain.Task, error)
	deleteFn               func(ctx context.Context, taskID int64) (bool, error)
	listAllFn              func(ctx context.Context) ([]*domain.Task, error)
	listByFiltersFn        func(ctx context.Context, filters store.TaskFilters) ([]*domain.Task, error)
	changeStatusFn         func(ctx context.Context, taskID int64, status domain.TaskStatus) (*domain.Task, error)
	completionPercentageFn func(ctx context.Context, taskListID int64) (float64, error)
}

func (m *mockTaskService) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	return m.createFn(ctx, task)
}

func (m *mockTaskService) Get(ctx context.Context, taskID int64) (*domain.Task, error) {
	return m.getFn(ctx, taskID)
}

func (m *mockTaskService) Update(ctx context.Context, taskID int64, patch *domain.TaskPatch) (*domain.Task, error) {
	return m.updateFn(ctx, taskID, patch)
}

func (m *mockTaskService) Delete(ctx context.Context, taskID int64) (bool, error) {
	return m.deleteFn(ctx, taskID)
}

func (m *mockTaskService) ListAll(ctx context.Context) ([]*domain.Task, error) {
	return m.listAllFn(ctx)
}

func (m *mockTaskService) ListByFilters(ctx context.Context, filters store.TaskFilters) ([]*domain.Task, error) {
	return m.listByFiltersFn(ctx, filters)
}

func (m *mockTaskService) ChangeStatus(ctx context.Context, taskID int64, status domain.TaskStatus) (*domain.Task, error) {
	return m.changeStatusFn(ctx, taskID, status)
}

func (m *mockTaskService) CompletionPercentage(ctx context.Context, taskListID int64) (float64, error) {
	return m.completionPercentageFn(ctx, taskListID)
}

// mockTaskListService implements service.TaskListService with pluggable
// behavior.
type mockTaskListService struct {
	createFn                 func(ctx context.Context, taskList *domain.TaskList) (*domain.TaskList, error)
	getFn                    func(ctx context.Context, taskListID int64) (*domain.TaskList, error)
	updateFn                 func(ctx context.Context, taskListID int64, patch *domain.TaskListPatch) (*domain.TaskList, error)
	deleteFn                 func(ctx context.Context, taskListID int64) (bool, error)
	listAllFn                func(ctx context.Context) ([]*domain.TaskList, error)
	getTasksWithCompletionFn func(ctx context.Context, taskListID int64, status *domain.TaskStatus, priority *domain.TaskPriority) (*service.TaskListWithTasks, error)
}

func (m *mockTaskListService) Create(ctx context.Context, taskList *domain.TaskList) (*domain.TaskList, error) {
	return m.createFn(ctx, taskList)
}

func (m *mockTaskListService) Get(ctx context.Context, taskListID int64) (*domain.TaskList, error) {
	return m.getFn(ctx, taskListID)
}

func (m *mockTaskListService) Update(ctx context.Context, taskListID int64, patch *domain.TaskListPatch) (*domain.TaskList, error) {
	return m.updateFn(ctx, taskListID, patch)
}

func (m *mockTaskListService) Delete(ctx context.Context, taskListID int64) (bool, error) {
	return m.deleteFn(ctx, taskListID)
}

func (m *mockTaskListService) ListAll(ctx context.Context) ([]*domain.TaskList, error) {
	return m.listAllFn(ctx)
}

func (m *mockTaskListService) GetTasksWithCompletion(
	ctx context.Context,
	taskListID int64,
	status *domain.TaskStatus,
	priority *domain.TaskPriority,
) (*service.TaskListWithTasks, error) {
	return m.getTasksWithCompletionFn(ctx, taskListID, status, priority)
}

// mockUserService implements service.UserService with pluggable behavior.
type mockUserService struct {
	getUserFn        func(ctx context.Context, userID int64) (*domain.User, error)
	getUserByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	createUserFn     func(ctx context.Context, email, username string) (*domain.User, error)
}

func (m *mockUserService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	return m.getUserFn(ctx, userID)
}

func (m *mockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getUserByEmailFn(ctx, email)
}

func (m *mockUserService) CreateUser(ctx context.Context, email, username string) (*domain.User, error) {
	return m.createUserFn(ctx, email, username)
}

// mockAuthService implements auth.Service with pluggable behavior.
type mockAuthService struct {
	registerFn     func(ctx context.Context, email, username, password string) (*domain.User, error)
	authenticateFn func(ctx context.Context, email, password string) (*domain.User, error)
	verifyTokenFn  func(ctx context.Context, token string) (*domain.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	return m.registerFn(ctx, email, username, password)
}

func (m *mockAuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return m.authenticateFn(ctx, email, password)
}

func (m *mockAuthService) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	return m.verifyTokenFn(ctx, token)
}

func mustNewTask(t *testing.T, title string, taskListID int64) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(title, taskListID)
	require.NoError(t, err)
	return task
}
