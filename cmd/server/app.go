package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskdeck-api/internal/config"
	appgraphql "github.com/phrazzld/taskdeck-api/internal/graphql"
	"github.com/phrazzld/taskdeck-api/internal/platform/postgres"
	"github.com/phrazzld/taskdeck-api/internal/service"
	"github.com/phrazzld/taskdeck-api/internal/service/auth"
	"github.com/phrazzld/taskdeck-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore     store.UserStore
	taskListStore store.TaskListStore
	taskStore     store.TaskStore

	// Services
	jwtService      auth.JWTService
	authService     auth.Service
	userService     service.UserService
	taskListService service.TaskListService
	taskService     service.TaskService

	// GraphQL
	graphqlHandler *appgraphql.Handler
}

// newApplication creates a new application instance with all dependencies
// initialized. Configuration, logger and database connection must be
// established before this is called.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	bcryptVerifier := auth.NewBcryptVerifier(cfg.Auth.BCryptCost)

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.taskListStore = postgres.NewPostgresTaskListStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	app.authService = auth.NewService(
		app.userStore,
		app.jwtService,
		bcryptVerifier,
		bcryptVerifier,
		db,
		logger,
	)
	app.userService = service.NewUserService(app.userStore, db, logger)
	app.taskListService = service.NewTaskListService(
		app.taskListStore,
		app.taskStore,
		app.userStore,
		db,
		logger,
	)
	app.taskService = service.NewTaskService(app.taskStore, db, logger)

	schema, err := appgraphql.NewSchema(app.taskListService, app.taskService)
	if err != nil {
		return nil, fmt.Errorf("failed to build GraphQL schema: %w", err)
	}
	app.graphqlHandler = appgraphql.NewHandler(schema, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
