package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/store"
)

// Service orchestrates registration, credential authentication and bearer
// token verification on top of the user store.
type Service interface {
	// Register creates a new user with a hashed password.
	// Returns store.ErrEmailExists / store.ErrUsernameExists on collisions,
	// split by field so the caller can report which one collided.
	Register(ctx context.Context, email, username, password string) (*domain.User, error)

	// Authenticate verifies an email/password pair.
	// Returns ErrInvalidCredentials when the user is unknown or the
	// password does not match; the two cases are deliberately
	// indistinguishable to the caller.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// VerifyToken validates a bearer token and resolves the owning user.
	// Token defects surface as the JWTService sentinel errors
	// (ErrExpiredToken, ErrInvalidToken, ...). A valid token whose user no
	// longer exists returns (nil, nil): the token was real, the user is gone.
	VerifyToken(ctx context.Context, token string) (*domain.User, error)
}

// serviceImpl implements the Service interface.
type serviceImpl struct {
	userStore  store.UserStore
	jwtService JWTService
	hasher     PasswordHasher
	verifier   PasswordVerifier
	db         *sql.DB
	logger     *slog.Logger
}

// NewService creates a new auth Service.
func NewService(
	userStore store.UserStore,
	jwtService JWTService,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	db *sql.DB,
	logger *slog.Logger,
) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &serviceImpl{
		userStore:  userStore,
		jwtService: jwtService,
		hasher:     hasher,
		verifier:   verifier,
		db:         db,
		logger:     logger.With(slog.String("component", "auth_service")),
	}
}

// Register implements Service.Register
func (s *serviceImpl) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	user, err := domain.NewUser(email, username)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password",
			"error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed

	var created *domain.User
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var txErr error
		created, txErr = s.userStore.WithTx(tx).Create(ctx, user)
		return txErr
	})

	if err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("registration rejected for duplicate identity",
				"email", email,
				"username", username)
		} else {
			s.logger.Error("failed to register user",
				"error", err,
				"email", email)
		}
		return nil, err
	}

	s.logger.Info("user registered",
		"user_id", created.ID,
		"email", created.Email)

	return created, nil
}

// Authenticate implements Service.Authenticate
func (s *serviceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user for authentication",
			"error", err,
			"email", email)
		return nil, err
	}

	if user.HashedPassword == "" {
		return nil, ErrInvalidCredentials
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// VerifyToken implements Service.VerifyToken
func (s *serviceImpl) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwtService.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}
