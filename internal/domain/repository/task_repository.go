// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"errors"
	"time"

	"taskflow/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrTaskNotFound is returned when a task id does not resolve.
var ErrTaskNotFound = errors.New("task not found")

// Sort keys accepted by TaskFilter.SortBy.
const (
	SortByDueDate   = "dueDate"
	SortByCreatedAt = "createdAt"
	SortByPriority  = "priority"
)

// TaskFilter narrows and orders FindAll results. Zero values mean
// "no constraint"; the default ordering is createdAt descending.
type TaskFilter struct {
	Status    entity.Status
	Priority  entity.Priority
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// TaskUpdate carries a partial update; nil fields are left untouched.
// ClearAssignee distinguishes "unassign" from "leave assignment alone".
type TaskUpdate struct {
	Title         *string
	Description   *string
	DueDate       *time.Time
	Priority      *entity.Priority
	Status        *entity.Status
	AssignedToID  *uuid.UUID
	ClearAssignee bool
}

// TaskRepository defines the standard operations for task persistence.
// Every mutation is a single-row atomic commit; there are no multi-task
// transactions in this domain.
type TaskRepository interface {
	// Create persists a new task owned by creatorID and fills in
	// server-assigned fields (id, timestamps) on the passed entity.
	Create(ctx context.Context, task *entity.Task) error

	// FindByID retrieves a single task, or ErrTaskNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Task, error)

	// FindAll retrieves tasks matching the filter.
	FindAll(ctx context.Context, filter TaskFilter) ([]*entity.Task, error)

	// FindByAssignee retrieves tasks assigned to a user, due date ascending.
	FindByAssignee(ctx context.Context, userID uuid.UUID) ([]*entity.Task, error)

	// FindByCreator retrieves tasks created by a user, newest first.
	FindByCreator(ctx context.Context, userID uuid.UUID) ([]*entity.Task, error)

	// FindOverdue retrieves incomplete tasks whose due date has passed,
	// due date ascending.
	FindOverdue(ctx context.Context) ([]*entity.Task, error)

	// Update applies a partial update and returns the stored result,
	// or ErrTaskNotFound.
	Update(ctx context.Context, id uuid.UUID, update TaskUpdate) (*entity.Task, error)

	// Delete removes a task, or returns ErrTaskNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}
