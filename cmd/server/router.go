package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/taskdeck-api/internal/api"
	apiMiddleware "github.com/phrazzld/taskdeck-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.authService, app.jwtService, app.userService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.authService)

	userHandler := api.NewUserHandler(app.userService, app.logger)
	taskListHandler := api.NewTaskListHandler(app.taskListService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Everything else requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)

			// User endpoints
			r.Post("/users", userHandler.Create)
			r.Get("/users/{id}", userHandler.Get)

			// Task list endpoints
			r.Post("/task-lists", taskListHandler.Create)
			r.Get("/task-lists", taskListHandler.List)
			r.Get("/task-lists/{id}", taskListHandler.Get)
			r.Get("/task-lists/{id}/tasks", taskListHandler.GetTasks)
			r.Patch("/task-lists/{id}", taskListHandler.Update)
			r.Delete("/task-lists/{id}", taskListHandler.Delete)

			// Task endpoints
			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks", taskHandler.List)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Patch("/tasks/{id}", taskHandler.Update)
			r.Patch("/tasks/{id}/status", taskHandler.UpdateStatus)
			r.Delete("/tasks/{id}", taskHandler.Delete)
		})
	})

	// GraphQL endpoint
	r.Post("/graphql", app.graphqlHandler.ServeHTTP)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
