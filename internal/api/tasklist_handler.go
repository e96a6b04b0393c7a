package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskdeck-api/internal/api/shared"
	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/service"
)

// TaskListHandler handles task list endpoints.
type TaskListHandler struct {
	taskListService service.TaskListService
	logger          *slog.Logger
}

// NewTaskListHandler creates a new TaskListHandler with the given dependencies.
func NewTaskListHandler(taskListService service.TaskListService, logger *slog.Logger) *TaskListHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskListHandler{
		taskListService: taskListService,
		logger:          logger.With(slog.String("component", "task_list_handler")),
	}
}

// Create handles POST /api/task-lists.
func (h *TaskListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskListRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid task list details", err)
		return
	}

	taskList, err := domain.NewTaskList(req.Title)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	taskList.Description = req.Description
	taskList.UserID = req.UserID

	created, err := h.taskListService.Create(r.Context(), taskList)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, created)
}

// List handles GET /api/task-lists.
func (h *TaskListHandler) List(w http.ResponseWriter, r *http.Request) {
	taskLists, err := h.taskListService.ListAll(r.Context())
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if taskLists == nil {
		taskLists = []*domain.TaskList{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, taskLists)
}

// Get handles GET /api/task-lists/{id}.
func (h *TaskListHandler) Get(w http.ResponseWriter, r *http.Request) {
	taskListID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task list ID")
		return
	}

	taskList, err := h.taskListService.Get(r.Context(), taskListID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskList)
}

// GetTasks handles GET /api/task-lists/{id}/tasks.
// Optional status and priority query parameters narrow the displayed tasks;
// the completion statistics always cover the whole list.
func (h *TaskListHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	taskListID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task list ID")
		return
	}

	var status *domain.TaskStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := domain.ParseTaskStatus(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task status")
			return
		}
		status = &parsed
	}

	var priority *domain.TaskPriority
	if raw := r.URL.Query().Get("priority"); raw != "" {
		parsed, err := domain.ParseTaskPriority(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task priority")
			return
		}
		priority = &parsed
	}

	result, err := h.taskListService.GetTasksWithCompletion(r.Context(), taskListID, status, priority)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if result.Tasks == nil {
		result.Tasks = []*domain.Task{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Update handles PATCH /api/task-lists/{id}.
func (h *TaskListHandler) Update(w http.ResponseWriter, r *http.Request) {
	taskListID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task list ID")
		return
	}

	var req UpdateTaskListRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid task list details", err)
		return
	}

	patch := &domain.TaskListPatch{
		Title:       req.Title,
		Description: req.Description,
		UserID:      req.UserID,
	}

	updated, err := h.taskListService.Update(r.Context(), taskListID, patch)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, updated)
}

// Delete handles DELETE /api/task-lists/{id}.
// Responds 204 on success, 404 when the list does not exist and 409 when
// dependent tasks still reference it.
func (h *TaskListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	taskListID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task list ID")
		return
	}

	deleted, err := h.taskListService.Delete(r.Context(), taskListID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	if !deleted {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task list not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
