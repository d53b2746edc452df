package usecase

import (
	"context"

	"taskflow/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateTaskInput defines the data required to create a task.
// DueDate is an RFC3339 timestamp; Priority and Status fall back to their
// defaults when empty.
type CreateTaskInput struct {
	Title        string
	Description  string
	DueDate      string
	Priority     string
	Status       string
	AssignedToID *uuid.UUID
}

// UpdateTaskInput carries a partial update. Nil fields are left untouched.
// ClearAssignee removes the current assignee when no replacement is given.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	DueDate       *string
	Priority      *string
	Status        *string
	AssignedToID  *uuid.UUID
	ClearAssignee bool
}

// ListTasksInput defines optional filtering and ordering for task listings.
type ListTasksInput struct {
	Status    string
	Priority  string
	SortBy    string
	SortOrder string
}

// TaskUsecase defines the interface for task-related business operations.
type TaskUsecase interface {
	CreateTask(ctx context.Context, creatorID uuid.UUID, input *CreateTaskInput) (*entity.Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*entity.Task, error)
	ListTasks(ctx context.Context, input *ListTasksInput) ([]*entity.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, input *UpdateTaskInput) (*entity.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) error
	ListAssignedTasks(ctx context.Context, userID uuid.UUID) ([]*entity.Task, error)
	ListCreatedTasks(ctx context.Context, userID uuid.UUID) ([]*entity.Task, error)
	ListOverdueTasks(ctx context.Context) ([]*entity.Task, error)
}
