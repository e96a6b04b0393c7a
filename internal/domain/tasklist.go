package domain

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// TaskList-specific validation errors. All wrap ErrValidation.
var (
	// ErrTaskListTitleEmpty is returned when a task list's title is empty.
	ErrTaskListTitleEmpty = fmt.Errorf("%w: task list title cannot be empty", ErrValidation)

	// ErrTaskListTitleTooShort is returned when a task list's title is below
	// the minimum length.
	ErrTaskListTitleTooShort = fmt.Errorf("%w: task list title must be at least 4 characters long", ErrValidation)

	// ErrTaskListTitleTooLong is returned when a task list's title exceeds
	// the maximum length.
	ErrTaskListTitleTooLong = fmt.Errorf("%w: task list title must be at most 255 characters long", ErrValidation)
)

// maxTitleLength matches the VARCHAR(255) column backing the title.
const maxTitleLength = 255

// TaskList represents a named collection of tasks, optionally owned by a
// user. Ownership is optional: UserID may be nil, but when set it must
// reference an existing user.
type TaskList struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	UserID      *int64    `json:"user_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTaskList creates a new TaskList with the given title. The ID is
// assigned by the database on insert. Returns an error if validation fails.
func NewTaskList(title string) (*TaskList, error) {
	now := time.Now().UTC()
	taskList := &TaskList{
		Title:     title,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := taskList.Validate(); err != nil {
		return nil, err
	}

	return taskList, nil
}

// Validate checks if the TaskList has valid data.
// Returns an error if any field fails validation.
func (l *TaskList) Validate() error {
	if l.Title == "" {
		return ErrTaskListTitleEmpty
	}

	if utf8.RuneCountInString(l.Title) < minTitleLength {
		return ErrTaskListTitleTooShort
	}

	if utf8.RuneCountInString(l.Title) > maxTitleLength {
		return ErrTaskListTitleTooLong
	}

	return nil
}

// TaskListPatch describes a partial update to a TaskList. A nil field means
// "leave the stored value unchanged"; see TaskPatch for the NULL-clearing
// limitation this implies.
type TaskListPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	UserID      *int64  `json:"user_id"`
}

// Apply merges the patch onto a copy of the current task list, returning
// the merged list. ID, IsActive and timestamps always carry over.
func (p *TaskListPatch) Apply(current *TaskList) *TaskList {
	merged := *current

	if p.Title != nil {
		merged.Title = *p.Title
	}
	if p.Description != nil {
		merged.Description = p.Description
	}
	if p.UserID != nil {
		merged.UserID = p.UserID
	}

	return &merged
}
