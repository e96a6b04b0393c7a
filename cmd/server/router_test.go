package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/taskdeck-api/internal/config"
	"github.com/phrazzld/taskdeck-api/internal/domain"
	appgraphql "github.com/phrazzld/taskdeck-api/internal/graphql"
	"github.com/phrazzld/taskdeck-api/internal/service"
	"github.com/phrazzld/taskdeck-api/internal/service/auth"
	"github.com/phrazzld/taskdeck-api/internal/store"
)

type routerStubUserStore struct {
	store.UserStore
}

func (s *routerStubUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return &domain.User{ID: id, Email: "alice@example.com", Username: "alice", IsActive: true}, nil
}

type routerStubTaskListService struct {
	service.TaskListService
}

func (s *routerStubTaskListService) Delete(ctx context.Context, taskListID int64) (bool, error) {
	return true, nil
}

type routerStubTaskService struct {
	service.TaskService
}

type routerStubUserService struct {
	service.UserService
}

func newTestApplication(t *testing.T) *application {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "test-secret-key-thats-long-enough-for-hmac",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	verifier := auth.NewBcryptVerifier(bcrypt.MinCost)
	authService := auth.NewService(&routerStubUserStore{}, jwtService, verifier, verifier, nil, logger)

	taskListService := &routerStubTaskListService{}
	taskService := &routerStubTaskService{}

	schema, err := appgraphql.NewSchema(taskListService, taskService)
	require.NoError(t, err)

	return &application{
		logger:          logger,
		jwtService:      jwtService,
		authService:     authService,
		userService:     &routerStubUserService{},
		taskListService: taskListService,
		taskService:     taskService,
		graphqlHandler:  appgraphql.NewHandler(schema, logger),
	}
}

func TestRouterRejectsUnauthenticatedRequests(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	router := app.setupRouter()

	requests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/users/1"},
		{http.MethodPost, "/api/users"},
		{http.MethodGet, "/api/task-lists"},
		{http.MethodDelete, "/api/task-lists/1"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodGet, "/api/tasks/1"},
	}
	for _, tc := range requests {
		tc := tc
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRouterAcceptsAuthenticatedRequests(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	router := app.setupRouter()

	token, err := app.jwtService.GenerateToken(context.Background(), 42, "alice@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/task-lists/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouterPublicEndpoints(t *testing.T) {
	t.Parallel()

	app := newTestApplication(t)
	router := app.setupRouter()

	t.Run("health check needs no token", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("login needs no token", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		// A malformed body is a validation failure, not an auth failure.
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("register needs no token", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
