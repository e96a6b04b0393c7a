package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/taskdeck-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store and populates its ID and
	// timestamps from the database.
	// Returns ErrEmailExists if the email is already taken.
	// Returns ErrUsernameExists if the username is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByUsername retrieves a user by their username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Update replaces the stored user with the given one.
	// Returns ErrUserNotFound if the user does not exist, and
	// ErrEmailExists / ErrUsernameExists if the new identity collides
	// with another user.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)

	// Delete removes a user by ID. Returns (false, nil) when the user
	// does not exist.
	Delete(ctx context.Context, id int64) (bool, error)

	// WithTx returns a new UserStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
