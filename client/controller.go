package client

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"taskflow/internal/domain/entity"
	"taskflow/internal/realtime"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Controller keeps a local task cache consistent with the server across
// two independent update paths: direct mutation responses and server-
// pushed events. Mutations are applied optimistically and either
// confirmed with the server's canonical record or rolled back to the
// pre-mutation snapshot.
type Controller struct {
	api    TaskAPI
	logger *slog.Logger

	mu      sync.Mutex
	cache   map[uuid.UUID]entity.Task
	pending map[uuid.UUID]*mutationRecord
}

// mutationRecord is the bookkeeping for one in-flight optimistic
// mutation: which task it touched, what that task looked like before,
// and whether a delete event has since removed the entry (in which case
// confirm and rollback both become no-ops for it).
type mutationRecord struct {
	taskID         uuid.UUID
	previous       entity.Task
	existed        bool
	deletedByEvent bool
}

// NewController creates a sync controller over the given API.
func NewController(api TaskAPI, logger *slog.Logger) *Controller {
	return &Controller{
		api:     api,
		logger:  logger,
		cache:   make(map[uuid.UUID]entity.Task),
		pending: make(map[uuid.UUID]*mutationRecord),
	}
}

// Task returns the cached copy of a task, if present.
func (ctl *Controller) Task(id uuid.UUID) (entity.Task, bool) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()

	task, ok := ctl.cache[id]

	return task, ok
}

// Tasks returns a copy of every cached task, most urgent first and
// earliest due date breaking ties.
func (ctl *Controller) Tasks() []entity.Task {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()

	tasks := make([]entity.Task, 0, len(ctl.cache))
	for _, task := range ctl.cache {
		tasks = append(tasks, task)
	}

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Priority != tasks[j].Priority {
			return tasks[i].Priority.Rank() > tasks[j].Priority.Rank()
		}

		return tasks[i].DueDate.Before(tasks[j].DueDate)
	})

	return tasks
}

// CreateTask inserts the task locally under a provisional id, sends the
// mutation, and swaps in the server's canonical record on success. On
// failure the provisional entry is removed.
func (ctl *Controller) CreateTask(ctx context.Context, req CreateTaskRequest) (*entity.Task, error) {
	provisional, err := provisionalTask(req)
	if err != nil {
		return nil, err
	}

	ctl.mu.Lock()
	ctl.cache[provisional.ID] = provisional
	token := ctl.track(&mutationRecord{taskID: provisional.ID, existed: false})
	ctl.mu.Unlock()

	task, err := ctl.api.CreateTask(ctx, req)

	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	record := ctl.resolve(token)

	// The provisional id never reached the server, so no event can have
	// touched it; drop it regardless of outcome.
	delete(ctl.cache, provisional.ID)

	if err != nil {
		return nil, errors.Wrap(err, "create failed")
	}
	if record != nil && record.deletedByEvent {
		return task, nil
	}
	ctl.cache[task.ID] = *task

	return task, nil
}

// UpdateTask applies the patch to the cached copy immediately, sends the
// mutation, and reconciles: the server's canonical record replaces the
// guess on success; the pre-mutation snapshot is restored on failure. If
// a delete event removed the task while the request was in flight, both
// outcomes leave the cache untouched rather than resurrect the entry.
func (ctl *Controller) UpdateTask(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*entity.Task, error) {
	ctl.mu.Lock()
	snapshot, existed := ctl.cache[id]
	if existed {
		patched := snapshot
		applyPatch(&patched, req)
		ctl.cache[id] = patched
	}
	token := ctl.track(&mutationRecord{taskID: id, previous: snapshot, existed: existed})
	ctl.mu.Unlock()

	task, err := ctl.api.UpdateTask(ctx, id, req)

	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	record := ctl.resolve(token)

	if record == nil || record.deletedByEvent {
		return task, errors.WithStack(err)
	}

	if err != nil {
		if record.existed {
			ctl.cache[id] = record.previous
		}

		return nil, errors.Wrap(err, "update failed")
	}

	if _, present := ctl.cache[id]; present || !record.existed {
		ctl.cache[task.ID] = *task
	}

	return task, nil
}

// DeleteTask removes the cached entry immediately and sends the
// mutation; the entry is restored if the server refuses, unless a delete
// event confirmed the removal in the meantime.
func (ctl *Controller) DeleteTask(ctx context.Context, id uuid.UUID) error {
	ctl.mu.Lock()
	previous, existed := ctl.cache[id]
	delete(ctl.cache, id)
	token := ctl.track(&mutationRecord{taskID: id, previous: previous, existed: existed})
	ctl.mu.Unlock()

	err := ctl.api.DeleteTask(ctx, id)

	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	record := ctl.resolve(token)

	if err != nil {
		if record != nil && record.existed && !record.deletedByEvent {
			ctl.cache[id] = record.previous
		}

		return errors.Wrap(err, "delete failed")
	}

	return nil
}

// ApplyEvent folds one server-pushed event into the cache: merge-by-id
// for created/updated/assigned, remove-by-id for deleted. Applying the
// same event twice is a no-op.
func (ctl *Controller) ApplyEvent(ev realtime.Event) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()

	switch event := ev.(type) {
	case *realtime.TaskCreated:
		ctl.cache[event.Task.ID] = *event.Task
	case *realtime.TaskUpdated:
		ctl.cache[event.Task.ID] = *event.Task
	case *realtime.TaskAssigned:
		ctl.cache[event.Task.ID] = *event.Task
	case *realtime.TaskDeleted:
		delete(ctl.cache, event.TaskID)
		for _, record := range ctl.pending {
			if record.taskID == event.TaskID {
				record.deletedByEvent = true
			}
		}
	}
}

// Refetch replaces the whole cache with the server's current state. Used
// after reconnects, when any number of events may have been missed.
func (ctl *Controller) Refetch(ctx context.Context) error {
	tasks, err := ctl.api.ListTasks(ctx)
	if err != nil {
		return errors.Wrap(err, "refetch failed")
	}

	ctl.mu.Lock()
	defer ctl.mu.Unlock()

	ctl.cache = make(map[uuid.UUID]entity.Task, len(tasks))
	for _, task := range tasks {
		ctl.cache[task.ID] = *task
	}

	return nil
}

// track registers an in-flight mutation. Caller holds the lock.
func (ctl *Controller) track(record *mutationRecord) uuid.UUID {
	token := uuid.New()
	ctl.pending[token] = record

	return token
}

// resolve removes and returns an in-flight record. Caller holds the lock.
func (ctl *Controller) resolve(token uuid.UUID) *mutationRecord {
	record := ctl.pending[token]
	delete(ctl.pending, token)

	return record
}

func provisionalTask(req CreateTaskRequest) (entity.Task, error) {
	dueDate, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		return entity.Task{}, errors.Wrap(err, "dueDate must be an RFC3339 timestamp")
	}

	task := entity.Task{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      dueDate,
		Priority:     entity.PriorityMedium,
		Status:       entity.StatusTodo,
		AssignedToID: req.AssignedToID,
	}
	if req.Priority != "" {
		task.Priority = entity.Priority(req.Priority)
	}
	if req.Status != "" {
		task.Status = entity.Status(req.Status)
	}

	return task, nil
}

func applyPatch(task *entity.Task, req UpdateTaskRequest) {
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.DueDate != nil {
		if dueDate, err := time.Parse(time.RFC3339, *req.DueDate); err == nil {
			task.DueDate = dueDate
		}
	}
	if req.Priority != nil {
		task.Priority = entity.Priority(*req.Priority)
	}
	if req.Status != nil {
		task.Status = entity.Status(*req.Status)
	}
	if req.AssignedToID != nil {
		task.AssignedToID = req.AssignedToID
	}
}
