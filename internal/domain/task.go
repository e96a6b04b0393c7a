package domain

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Task-specific validation errors. All wrap ErrValidation.
var (
	// ErrTaskTitleEmpty is returned when a task's title is empty.
	ErrTaskTitleEmpty = fmt.Errorf("%w: task title cannot be empty", ErrValidation)

	// ErrTaskTitleTooShort is returned when a task's title is below the
	// minimum length.
	ErrTaskTitleTooShort = fmt.Errorf("%w: task title must be at least 4 characters long", ErrValidation)

	// ErrTaskListIDEmpty is returned when a task has no task list reference.
	ErrTaskListIDEmpty = fmt.Errorf("%w: task must reference a task list", ErrValidation)
)

// minTitleLength is the minimum accepted length for task and task list
// titles, counted in characters rather than bytes.
const minTitleLength = 4

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Valid task statuses. Any status may transition to any other; there is no
// transition table.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// ParseTaskStatus converts a string into a TaskStatus.
// Returns ErrInvalidStatus if the value is not a known status.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return TaskStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Valid reports whether the status is one of the known values.
func (s TaskStatus) Valid() bool {
	_, err := ParseTaskStatus(string(s))
	return err == nil
}

// TaskPriority represents the urgency of a task.
type TaskPriority string

// Valid task priorities.
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// ParseTaskPriority converts a string into a TaskPriority.
// Returns ErrInvalidPriority if the value is not a known priority.
func ParseTaskPriority(s string) (TaskPriority, error) {
	switch TaskPriority(s) {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return TaskPriority(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
}

// Valid reports whether the priority is one of the known values.
func (p TaskPriority) Valid() bool {
	_, err := ParseTaskPriority(string(p))
	return err == nil
}

// Task represents a unit of work belonging to exactly one task list.
// It may optionally be assigned to a user and carry a due date.
type Task struct {
	ID             int64        `json:"id"`
	Title          string       `json:"title"`
	Description    *string      `json:"description,omitempty"`
	TaskListID     int64        `json:"task_list_id"`
	Status         TaskStatus   `json:"status"`
	Priority       TaskPriority `json:"priority"`
	AssignedUserID *int64       `json:"assigned_user_id,omitempty"`
	DueDate        *time.Time   `json:"due_date,omitempty"`
	IsActive       bool         `json:"is_active"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewTask creates a new Task under the given task list with default status
// (pending) and priority (medium). The ID is assigned by the database on
// insert. Returns an error if validation fails.
func NewTask(title string, taskListID int64) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		Title:      title,
		TaskListID: taskListID,
		Status:     TaskStatusPending,
		Priority:   TaskPriorityMedium,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrTaskTitleEmpty
	}

	if utf8.RuneCountInString(t.Title) < minTitleLength {
		return ErrTaskTitleTooShort
	}

	if t.TaskListID <= 0 {
		return ErrTaskListIDEmpty
	}

	if !t.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}

	if !t.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}

	return nil
}

// TaskPatch describes a partial update to a Task. A nil field means "leave
// the stored value unchanged". ID, IsActive and timestamps are system
// managed and deliberately absent.
//
// Because nil means "unset", an optional field that has been set can never
// be cleared back to NULL through a patch. This mirrors the update request
// shape of the HTTP and GraphQL surfaces.
type TaskPatch struct {
	Title          *string       `json:"title"`
	Description    *string       `json:"description"`
	TaskListID     *int64        `json:"task_list_id"`
	Status         *TaskStatus   `json:"status"`
	Priority       *TaskPriority `json:"priority"`
	AssignedUserID *int64        `json:"assigned_user_id"`
	DueDate        *time.Time    `json:"due_date"`
}

// Apply merges the patch onto a copy of the current task, returning the
// merged task. Fields that are nil in the patch retain the stored value;
// ID, IsActive and timestamps always carry over from current.
func (p *TaskPatch) Apply(current *Task) *Task {
	merged := *current

	if p.Title != nil {
		merged.Title = *p.Title
	}
	if p.Description != nil {
		merged.Description = p.Description
	}
	if p.TaskListID != nil {
		merged.TaskListID = *p.TaskListID
	}
	if p.Status != nil {
		merged.Status = *p.Status
	}
	if p.Priority != nil {
		merged.Priority = *p.Priority
	}
	if p.AssignedUserID != nil {
		merged.AssignedUserID = p.AssignedUserID
	}
	if p.DueDate != nil {
		merged.DueDate = p.DueDate
	}

	return &merged
}
