package auth_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/service/auth"
	"github.com/phrazzld/taskdeck-api/internal/store"
)

// fakeUserStore implements store.UserStore backed by function fields.
type fakeUserStore struct {
	createFn     func(ctx context.Context, user *domain.User) (*domain.User, error)
	getByIDFn    func(ctx context.Context, id int64) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return f.createFn(ctx, user)
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return f.getByEmailFn(ctx, email)
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) Delete(ctx context.Context, id int64) (bool, error) {
	return false, nil
}

func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return f }

func newCommitDB(t *testing.T) *sql.DB {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectBegin()
	mock.ExpectCommit()
	return db
}

func newAuthService(t *testing.T, users store.UserStore, db *sql.DB) auth.Service {
	t.Helper()

	jwtService := newJWTService(t, 60)
	verifier := auth.NewBcryptVerifier(bcrypt.MinCost)
	return auth.NewService(users, jwtService, verifier, verifier, db, nil)
}

func TestAuthServiceRegister(t *testing.T) {
	t.Parallel()

	t.Run("stores a bcrypt hash, never the plaintext", func(t *testing.T) {
		t.Parallel()

		var storedHash string
		users := &fakeUserStore{
			createFn: func(ctx context.Context, user *domain.User) (*domain.User, error) {
				storedHash = user.HashedPassword
				created := *user
				created.ID = 1
				return &created, nil
			},
		}

		svc := newAuthService(t, users, newCommitDB(t))

		created, err := svc.Register(context.Background(), "alice@example.com", "alice", "plaintext-password")
		require.NoError(t, err)

		assert.Equal(t, int64(1), created.ID)
		assert.NotEmpty(t, storedHash)
		assert.NotEqual(t, "plaintext-password", storedHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("plaintext-password")))
	})

	t.Run("propagates duplicate identity errors", func(t *testing.T) {
		t.Parallel()

		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		mock.ExpectBegin()
		mock.ExpectRollback()

		users := &fakeUserStore{
			createFn: func(ctx context.Context, user *domain.User) (*domain.User, error) {
				return nil, store.ErrUsernameExists
			},
		}

		svc := newAuthService(t, users, db)

		_, err = svc.Register(context.Background(), "alice@example.com", "alice", "plaintext-password")
		assert.ErrorIs(t, err, store.ErrUsernameExists)
	})

	t.Run("rejects invalid email before hashing", func(t *testing.T) {
		t.Parallel()

		svc := newAuthService(t, &fakeUserStore{}, nil)

		_, err := svc.Register(context.Background(), "not-an-email", "alice", "plaintext-password")
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})
}

func TestAuthServiceAuthenticate(t *testing.T) {
	t.Parallel()

	verifier := auth.NewBcryptVerifier(bcrypt.MinCost)
	hashed, err := verifier.Hash("plaintext-password")
	require.NoError(t, err)

	storedUser := &domain.User{
		ID:             1,
		Email:          "alice@example.com",
		Username:       "alice",
		HashedPassword: hashed,
		IsActive:       true,
	}

	t.Run("valid credentials return the user", func(t *testing.T) {
		t.Parallel()

		svc := newAuthService(t, &fakeUserStore{
			getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				return storedUser, nil
			},
		}, nil)

		user, err := svc.Authenticate(context.Background(), "alice@example.com", "plaintext-password")
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
	})

	t.Run("unknown user is indistinguishable from a wrong password", func(t *testing.T) {
		t.Parallel()

		unknown := newAuthService(t, &fakeUserStore{
			getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				return nil, store.ErrUserNotFound
			},
		}, nil)

		wrongPassword := newAuthService(t, &fakeUserStore{
			getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				return storedUser, nil
			},
		}, nil)

		_, unknownErr := unknown.Authenticate(context.Background(), "nobody@example.com", "whatever")
		_, wrongErr := wrongPassword.Authenticate(context.Background(), "alice@example.com", "wrong")

		assert.ErrorIs(t, unknownErr, auth.ErrInvalidCredentials)
		assert.ErrorIs(t, wrongErr, auth.ErrInvalidCredentials)
		assert.Equal(t, unknownErr, wrongErr)
	})

	t.Run("credential-less user cannot authenticate", func(t *testing.T) {
		t.Parallel()

		svc := newAuthService(t, &fakeUserStore{
			getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				noCreds := *storedUser
				noCreds.HashedPassword = ""
				return &noCreds, nil
			},
		}, nil)

		_, err := svc.Authenticate(context.Background(), "alice@example.com", "anything")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestAuthServiceVerifyToken(t *testing.T) {
	t.Parallel()

	t.Run("valid token returns the owning user", func(t *testing.T) {
		t.Parallel()

		storedUser := &domain.User{ID: 42, Email: "alice@example.com", Username: "alice", IsActive: true}
		users := &fakeUserStore{
			getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
				assert.Equal(t, int64(42), id)
				return storedUser, nil
			},
		}

		jwtService := newJWTService(t, 60)
		verifier := auth.NewBcryptVerifier(bcrypt.MinCost)
		svc := auth.NewService(users, jwtService, verifier, verifier, nil, nil)

		token, err := jwtService.GenerateToken(context.Background(), 42, "alice@example.com")
		require.NoError(t, err)

		user, err := svc.VerifyToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, storedUser, user)
	})

	t.Run("invalid token surfaces the validation error", func(t *testing.T) {
		t.Parallel()

		svc := newAuthService(t, &fakeUserStore{}, nil)

		user, err := svc.VerifyToken(context.Background(), "garbage")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
		assert.Nil(t, user)
	})

	t.Run("expired token surfaces ErrExpiredToken", func(t *testing.T) {
		t.Parallel()

		expired := newJWTService(t, -10)
		verifier := auth.NewBcryptVerifier(bcrypt.MinCost)
		svc := auth.NewService(&fakeUserStore{}, expired, verifier, verifier, nil, nil)

		token, err := expired.GenerateToken(context.Background(), 42, "alice@example.com")
		require.NoError(t, err)

		user, err := svc.VerifyToken(context.Background(), token)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
		assert.Nil(t, user)
	})

	t.Run("token for a deleted user is a nil result", func(t *testing.T) {
		t.Parallel()

		users := &fakeUserStore{
			getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
				return nil, store.ErrUserNotFound
			},
		}

		jwtService := newJWTService(t, 60)
		verifier := auth.NewBcryptVerifier(bcrypt.MinCost)
		svc := auth.NewService(users, jwtService, verifier, verifier, nil, nil)

		token, err := jwtService.GenerateToken(context.Background(), 42, "alice@example.com")
		require.NoError(t, err)

		user, err := svc.VerifyToken(context.Background(), token)
		assert.NoError(t, err)
		assert.Nil(t, user)
	})
}
