package realtime

import (
	"log/slog"

	"github.com/google/uuid"

	"taskflow/internal/domain/entity"
	"taskflow/internal/domain/service"
)

// Broadcaster turns committed task mutations into domain events on the
// registry. It implements service.EventPublisher; the task usecase calls
// it only after the store commit succeeded.
type Broadcaster struct {
	registry *Registry
	logger   *slog.Logger
}

// NewBroadcaster is the constructor for Broadcaster.
func NewBroadcaster(registry *Registry, logger *slog.Logger) service.EventPublisher {
	return &Broadcaster{registry: registry, logger: logger}
}

// TaskCreated broadcasts a task:created event to every channel.
func (b *Broadcaster) TaskCreated(task *entity.Task) {
	b.registry.BroadcastAll(&TaskCreated{Task: task})
}

// TaskUpdated broadcasts a task:updated event to every channel.
func (b *Broadcaster) TaskUpdated(task *entity.Task) {
	b.registry.BroadcastAll(&TaskUpdated{Task: task})
}

// TaskDeleted broadcasts a task:deleted event carrying only the id.
func (b *Broadcaster) TaskDeleted(taskID uuid.UUID) {
	b.registry.BroadcastAll(&TaskDeleted{TaskID: taskID})
}

// TaskAssigned publishes the assignment notification to the new
// assignee's room only.
func (b *Broadcaster) TaskAssigned(assigneeID uuid.UUID, task *entity.Task) {
	b.registry.Publish(UserRoom(assigneeID), &TaskAssigned{
		Message: "You have been assigned to task: " + task.Title,
		Task:    task,
	})
	b.logger.Debug("assignment notification published",
		slog.String("taskID", task.ID.String()),
		slog.String("assigneeID", assigneeID.String()))
}
