package service

import (
	"github.com/google/uuid"

	"taskflow/internal/domain/entity"
)

// EventPublisher defines the interface for pushing task lifecycle events
// to connected clients. Implementations are best-effort: a failed push to
// one client must never surface to the mutating caller, and nothing is
// queued for clients that are offline at emission time.
//
// Callers invoke these only after the corresponding store commit has
// succeeded; a failed commit publishes nothing.
type EventPublisher interface {
	// TaskCreated announces a new task to all connected clients.
	TaskCreated(task *entity.Task)

	// TaskUpdated announces a changed task to all connected clients.
	// Emitted on every successful commit, including no-op updates.
	TaskUpdated(task *entity.Task)

	// TaskDeleted announces a removal to all connected clients.
	TaskDeleted(taskID uuid.UUID)

	// TaskAssigned notifies only the new assignee's channels.
	TaskAssigned(assigneeID uuid.UUID, task *entity.Task)
}
