package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.Create
// It saves a new user and returns the stored record with its database
// assigned ID and timestamps. Unique violations on email and username map
// to store.ErrEmailExists and store.ErrUsernameExists respectively.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO users (email, username, hashed_password, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	created := *user
	err := s.db.QueryRowContext(ctx, query,
		user.Email,
		user.Username,
		user.HashedPassword,
		user.IsActive,
	).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt)

	if err != nil {
		if IsUniqueViolation(err) {
			s.logger.Debug("user creation hit unique constraint",
				"email", user.Email,
				"username", user.Username)
			return nil, mapUniqueViolation(err)
		}
		s.logger.Error("failed to create user",
			"error", err,
			"email", user.Email)
		return nil, MapError(err)
	}

	return &created, nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `
		SELECT id, email, username, hashed_password, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, username, hashed_password, is_active, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

// GetByUsername implements store.UserStore.GetByUsername
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT id, email, username, hashed_password, is_active, created_at, updated_at
		FROM users
		WHERE username = $1
	`
	return s.scanUser(s.db.QueryRowContext(ctx, query, username))
}

// Update implements store.UserStore.Update
// It replaces the stored record with the given one; the updated_at
// timestamp is refreshed here, not taken from the entity.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}

	query := `
		UPDATE users
		SET email = $1, username = $2, hashed_password = $3, is_active = $4, updated_at = now()
		WHERE id = $5
		RETURNING created_at, updated_at
	`

	updated := *user
	err := s.db.QueryRowContext(ctx, query,
		user.Email,
		user.Username,
		user.HashedPassword,
		user.IsActive,
		user.ID,
	).Scan(&updated.CreatedAt, &updated.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrUserNotFound
		}
		if IsUniqueViolation(err) {
			s.logger.Debug("user update hit unique constraint",
				"user_id", user.ID,
				"email", user.Email)
			return nil, mapUniqueViolation(err)
		}
		s.logger.Error("failed to update user",
			"error", err,
			"user_id", user.ID)
		return nil, MapError(err)
	}

	return &updated, nil
}

// Delete implements store.UserStore.Delete
// A missing row is (false, nil), not an error.
func (s *PostgresUserStore) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM users WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		s.logger.Error("failed to delete user",
			"error", err,
			"user_id", id)
		return false, MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, MapError(err)
	}

	return rowsAffected > 0, nil
}

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

// scanUser scans a single user row, mapping sql.ErrNoRows to
// store.ErrUserNotFound.
func (s *PostgresUserStore) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.HashedPassword,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrUserNotFound
		}
		return nil, MapError(err)
	}
	return &user, nil
}
