package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/store"
)

// mockUserStore implements store.UserStore with pluggable behavior.
type mockUserStore struct {
	createFn        func(ctx context.Context, user *domain.User) (*domain.User, error)
	getByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	getByEmailFn    func(ctx context.Context, email string) (*domain.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	updateFn        func(ctx context.Context, user *domain.User) (*domain.User, error)
	deleteFn        func(ctx context.Context, id int64) (bool, error)
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return m.createFn(ctx, user)
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.getByEmailFn(ctx, email)
}

func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.getByUsernameFn(ctx, username)
}

func (m *mockUserStore) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	return m.updateFn(ctx, user)
}

func (m *mockUserStore) Delete(ctx context.Context, id int64) (bool, error) {
	return m.deleteFn(ctx, id)
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

// mockTaskListStore implements store.TaskListStore with pluggable behavior.
type mockTaskListStore struct {
	createFn  func(ctx context.Context, taskList *domain.TaskList) (*domain.TaskList, error)
	getByIDFn func(ctx context.Context, id int64) (*domain.TaskList, error)
	updateFn  func(ctx context.Context, taskList *domain.TaskList) (*domain.TaskList, error)
	deleteFn  func(ctx context.Context, id int64) (bool, error)
	listAllFn func(ctx context.Context) ([]*domain.TaskList, error)
}

func (m *mockTaskListStore) Create(ctx context.Context, taskList *domain.TaskList) (*domain.TaskList, error) {
	return m.createFn(ctx, taskList)
}

func (m *mockTaskListStore) GetByID(ctx context.Context, id int64) (*domain.TaskList, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockTaskListStore) Update(ctx context.Context, taskList *domain.TaskList) (*domain.TaskList, error) {
	return m.updateFn(ctx, taskList)
}

func (m *mockTaskListStore) Delete(ctx context.Context, id int64) (bool, error) {
	return m.deleteFn(ctx, id)
}

func (m *mockTaskListStore) ListAll(ctx context.Context) ([]*domain.TaskList, error) {
	return m.listAllFn(ctx)
}

func (m *mockTaskListStore) WithTx(tx *sql.Tx) store.TaskListStore { return m }

// mockTaskStore implements store.TaskStore with pluggable behavior.
type mockTaskStore struct {
	createFn           func(ctx context.Context, task *domain.Task) (*domain.Task, error)
	getByIDFn          func(ctx context.Context, id int64) (*domain.Task, error)
	updateFn           func(ctx context.Context, task *domain.Task) (*domain.Task, error)
	deleteFn           func(ctx context.Context, id int64) (bool, error)
	listAllFn          func(ctx context.Context) ([]*domain.Task, error)
	listByTaskListIDFn func(ctx context.Context, taskListID int64) ([]*domain.Task, error)
	listByFiltersFn    func(ctx context.Context, filters store.TaskFilters) ([]*domain.Task, error)
}

func (m *mockTaskStore) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	return m.createFn(ctx, task)
}

func (m *mockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockTaskStore) Update(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	return m.updateFn(ctx, task)
}

func (m *mockTaskStore) Delete(ctx context.Context, id int64) (bool, error) {
	return m.deleteFn(ctx, id)
}

func (m *mockTaskStore) ListAll(ctx context.Context) ([]*domain.Task, error) {
	return m.listAllFn(ctx)
}

func (m *mockTaskStore) ListByTaskListID(ctx context.Context, taskListID int64) ([]*domain.Task, error) {
	return m.listByTaskListIDFn(ctx, taskListID)
}

func (m *mockTaskStore) ListByFilters(ctx context.Context, filters store.TaskFilters) ([]*domain.Task, error) {
	return m.listByFiltersFn(ctx, filters)
}

func (m *mockTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return m }

// newTxDB returns a database handle whose next transaction is expected to
// commit.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectCommit()
	return db
}

// newRollbackDB returns a database handle whose next transaction is expected
// to roll back.
func newRollbackDB(t *testing.T) *sql.DB {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectRollback()
	return db
}

// mustTask builds a valid task for tests.
func mustTask(t *testing.T, title string, taskListID int64) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(title, taskListID)
	require.NoError(t, err)
	return task
}
