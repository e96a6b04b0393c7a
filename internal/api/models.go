// Package api contains the HTTP handlers, request/response models and
// error mapping for the REST surface.
package api

import (
	"time"

	"github.com/phrazzld/taskdeck-api/internal/domain"
)

// RegisterRequest represents the payload for user registration.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest represents the payload for user login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned after a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
}

// NewUserResponse builds a UserResponse from a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		IsActive: user.IsActive,
	}
}

// CreateUserRequest represents the payload for creating a user without
// credentials.
type CreateUserRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Username string `json:"username" validate:"required,min=3"`
}

// CreateTaskListRequest represents the payload for creating a task list.
type CreateTaskListRequest struct {
	Title       string  `json:"title"       validate:"required,min=4,max=255"`
	Description *string `json:"description"`
	UserID      *int64  `json:"user_id"`
}

// UpdateTaskListRequest represents a partial update to a task list.
// Absent fields leave the stored value unchanged.
type UpdateTaskListRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=4,max=255"`
	Description *string `json:"description"`
	UserID      *int64  `json:"user_id"`
}

// CreateTaskRequest represents the payload for creating a task.
// Status and priority are optional and default to pending/medium.
type CreateTaskRequest struct {
	Title          string     `json:"title"            validate:"required,min=4"`
	Description    *string    `json:"description"`
	TaskListID     int64      `json:"task_list_id"     validate:"required,gt=0"`
	Status         *string    `json:"status"           validate:"omitempty,oneof=pending in_progress completed"`
	Priority       *string    `json:"priority"         validate:"omitempty,oneof=low medium high"`
	AssignedUserID *int64     `json:"assigned_user_id"`
	DueDate        *time.Time `json:"due_date"`
}

// UpdateTaskRequest represents a partial update to a task.
// Absent fields leave the stored value unchanged.
type UpdateTaskRequest struct {
	Title          *string    `json:"title"            validate:"omitempty,min=4"`
	Description    *string    `json:"description"`
	TaskListID     *int64     `json:"task_list_id"     validate:"omitempty,gt=0"`
	Status         *string    `json:"status"           validate:"omitempty,oneof=pending in_progress completed"`
	Priority       *string    `json:"priority"         validate:"omitempty,oneof=low medium high"`
	AssignedUserID *int64     `json:"assigned_user_id"`
	DueDate        *time.Time `json:"due_date"`
}

// UpdateTaskStatusRequest represents a status-only change to a task.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed"`
}
