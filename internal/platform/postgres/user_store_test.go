package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/platform/postgres"
	"github.com/phrazzld/taskdeck-api/internal/store"
)

func newMockDB(t *testing.T) (*postgres.PostgresUserStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return postgres.NewPostgresUserStore(db, nil), mock
}

func TestUserStoreCreate(t *testing.T) {
	t.Parallel()

	t.Run("returns stored record with assigned ID and timestamps", func(t *testing.T) {
		t.Parallel()

		userStore, mock := newMockDB(t)
		now := time.Now().UTC()

		mock.ExpectQuery("INSERT INTO users").
			WithArgs("alice@example.com", "alice", "", true).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(int64(1), now, now))

		user, err := domain.NewUser("alice@example.com", "alice")
		require.NoError(t, err)

		created, err := userStore.Create(context.Background(), user)
		require.NoError(t, err)

		assert.Equal(t, int64(1), created.ID)
		assert.Equal(t, now, created.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps email unique violation to ErrEmailExists", func(t *testing.T) {
		t.Parallel()

		userStore, mock := newMockDB(t)

		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		user, err := domain.NewUser("alice@example.com", "alice")
		require.NoError(t, err)

		_, err = userStore.Create(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("maps username unique violation to ErrUsernameExists", func(t *testing.T) {
		t.Parallel()

		userStore, mock := newMockDB(t)

		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		user, err := domain.NewUser("alice@example.com", "alice")
		require.NoError(t, err)

		_, err = userStore.Create(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrUsernameExists)
	})

	t.Run("rejects invalid user before touching the database", func(t *testing.T) {
		t.Parallel()

		userStore, mock := newMockDB(t)

		_, err := userStore.Create(context.Background(), &domain.User{Email: "not-an-email"})
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserStoreGetByEmail(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		userStore, mock := newMockDB(t)
		now := time.Now().UTC()

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("alice@example.com").
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "email", "username", "hashed_password", "is_active", "created_at", "updated_at"}).
				AddRow(int64(1), "alice@example.com", "alice", "$2a$10$hash", true, now, now))

		user, err := userStore.GetByEmail(context.Background(), "alice@example.com")
		require.NoError(t, err)

		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "$2a$10$hash", user.HashedPassword)
	})

	t.Run("missing row maps to ErrUserNotFound", func(t *testing.T) {
		t.Parallel()

		userStore, mock := newMockDB(t)

		mock.ExpectQuery("SELECT (.+) FROM users").
			WithArgs("nobody@example.com").
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "email", "username", "hashed_password", "is_active", "created_at", "updated_at"}))

		_, err := userStore.GetByEmail(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestUserStoreUpdate(t *testing.T) {
	t.Parallel()

	t.Run("refreshes updated_at from the database", func(t *testing.T) {
		t.Parallel()

		userStore, mock := newMockDB(t)
		createdAt := time.Now().UTC().Add(-time.Hour)
		updatedAt := time.Now().UTC()

		mock.ExpectQuery("UPDATE users").
			WithArgs("alice@example.com", "alice2", "$2a$10$hash", true, int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).
				AddRow(createdAt, updatedAt))

		updated, err := userStore.Update(context.Background(), &domain.User{
			ID:             1,
			Email:          "alice@example.com",
			Username:       "alice2",
			HashedPassword: "$2a$10$hash",
			IsActive:       true,
		})
		require.NoError(t, err)

		assert.Equal(t, "alice2", updated.Username)
		assert.Equal(t, updatedAt, updated.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to ErrUserNotFound", func(t *testing.T) {
		t.Parallel()

		userStore, mock := newMockDB(t)

		mock.ExpectQuery("UPDATE users").
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

		_, err := userStore.Update(context.Background(), &domain.User{
			ID:       999999,
			Email:    "ghost@example.com",
			Username: "ghost",
		})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("maps email unique violation to ErrEmailExists", func(t *testing.T) {
		t.Parallel()

		userStore, mock := newMockDB(t)

		mock.ExpectQuery("UPDATE users").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		_, err := userStore.Update(context.Background(), &domain.User{
			ID:       1,
			Email:    "taken@example.com",
			Username: "alice",
		})
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})
}

func TestUserStoreDelete(t *testing.T) {
	t.Parallel()

	t.Run("true when a row was deleted", func(t *testing.T) {
		t.Parallel()

		userStore, mock := newMockDB(t)

		mock.ExpectExec("DELETE FROM users").
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		deleted, err := userStore.Delete(context.Background(), 1)
		require.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("false without error when the user does not exist", func(t *testing.T) {
		t.Parallel()

		userStore, mock := newMockDB(t)

		mock.ExpectExec("DELETE FROM users").
			WithArgs(int64(999999)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		deleted, err := userStore.Delete(context.Background(), 999999)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}

func TestUserStoreGetByID(t *testing.T) {
	t.Parallel()

	userStore, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "username", "hashed_password", "is_active", "created_at", "updated_at"}))

	_, err := userStore.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
