package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/phrazzld/taskdeck-api/internal/api/shared"
	"github.com/phrazzld/taskdeck-api/internal/domain"
	"github.com/phrazzld/taskdeck-api/internal/service"
	"github.com/phrazzld/taskdeck-api/internal/store"
)

var (
	errInvalidTaskListIDParam = errors.New("invalid task_list_id parameter")
	errInvalidStatusParam     = errors.New("invalid status parameter")
	errInvalidPriorityParam   = errors.New("invalid priority parameter")
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid task details", err)
		return
	}

	task, err := domain.NewTask(req.Title, req.TaskListID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	task.Description = req.Description
	task.AssignedUserID = req.AssignedUserID
	task.DueDate = req.DueDate
	if req.Status != nil {
		status, err := domain.ParseTaskStatus(*req.Status)
		if err != nil {
			HandleServiceError(w, r, err)
			return
		}
		task.Status = status
	}
	if req.Priority != nil {
		priority, err := domain.ParseTaskPriority(*req.Priority)
		if err != nil {
			HandleServiceError(w, r, err)
			return
		}
		task.Priority = priority
	}

	created, err := h.taskService.Create(r.Context(), task)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, created)
}

// List handles GET /api/tasks with optional task_list_id, status and
// priority query parameters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := parseTaskFilters(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.taskService.ListByFilters(r.Context(), filters)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// Get handles GET /api/tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	taskID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	task, err := h.taskService.Get(r.Context(), taskID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Update handles PATCH /api/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	taskID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid task details", err)
		return
	}

	patch := &domain.TaskPatch{
		Title:          req.Title,
		Description:    req.Description,
		TaskListID:     req.TaskListID,
		AssignedUserID: req.AssignedUserID,
		DueDate:        req.DueDate,
	}
	if req.Status != nil {
		status, err := domain.ParseTaskStatus(*req.Status)
		if err != nil {
			HandleServiceError(w, r, err)
			return
		}
		patch.Status = &status
	}
	if req.Priority != nil {
		priority, err := domain.ParseTaskPriority(*req.Priority)
		if err != nil {
			HandleServiceError(w, r, err)
			return
		}
		patch.Priority = &priority
	}

	updated, err := h.taskService.Update(r.Context(), taskID, patch)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, updated)
}

// UpdateStatus handles PATCH /api/tasks/{id}/status.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	taskID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req UpdateTaskStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid status", err)
		return
	}

	status, err := domain.ParseTaskStatus(req.Status)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	updated, err := h.taskService.ChangeStatus(r.Context(), taskID, status)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, updated)
}

// Delete handles DELETE /api/tasks/{id}.
// Responds 204 on success and 404 when the task does not exist.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	taskID, err := parseIDParam(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	deleted, err := h.taskService.Delete(r.Context(), taskID)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}
	if !deleted {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseTaskFilters builds store.TaskFilters from query parameters.
func parseTaskFilters(r *http.Request) (store.TaskFilters, error) {
	var filters store.TaskFilters
	query := r.URL.Query()

	if raw := query.Get("task_list_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filters, errInvalidTaskListIDParam
		}
		filters.TaskListID = &id
	}
	if raw := query.Get("status"); raw != "" {
		status, err := domain.ParseTaskStatus(raw)
		if err != nil {
			return filters, errInvalidStatusParam
		}
		filters.Status = &status
	}
	if raw := query.Get("priority"); raw != "" {
		priority, err := domain.ParseTaskPriority(raw)
		if err != nil {
			return filters, errInvalidPriorityParam
		}
		filters.Priority = &priority
	}

	return filters, nil
}
