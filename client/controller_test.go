package client

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"taskflow/internal/domain/entity"
	"taskflow/internal/realtime"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI lets each test script the server's responses, including
// injecting events mid-request to exercise racy interleavings.
type fakeAPI struct {
	createFn func(ctx context.Context, req CreateTaskRequest) (*entity.Task, error)
	updateFn func(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*entity.Task, error)
	deleteFn func(ctx context.Context, id uuid.UUID) error
	listFn   func(ctx context.Context) ([]*entity.Task, error)
}

func (f *fakeAPI) CreateTask(ctx context.Context, req CreateTaskRequest) (*entity.Task, error) {
	return f.createFn(ctx, req)
}

func (f *fakeAPI) UpdateTask(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*entity.Task, error) {
	return f.updateFn(ctx, id, req)
}

func (f *fakeAPI) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeAPI) ListTasks(ctx context.Context) ([]*entity.Task, error) {
	return f.listFn(ctx)
}

func newTestController(api *fakeAPI) *Controller {
	return NewController(api, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func sampleTask(title string) entity.Task {
	return entity.Task{
		ID:       uuid.New(),
		Title:    title,
		DueDate:  time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		Priority: entity.PriorityMedium,
		Status:   entity.StatusTodo,
	}
}

func seed(ctl *Controller, tasks ...entity.Task) {
	for _, task := range tasks {
		taskCopy := task
		ctl.ApplyEvent(&realtime.TaskCreated{Task: &taskCopy})
	}
}

func TestController_UpdateRollbackRestoresSnapshot(t *testing.T) {
	task := sampleTask("Original title")
	other := sampleTask("Unrelated task")

	api := &fakeAPI{
		updateFn: func(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*entity.Task, error) {
			return nil, errors.New("server unavailable")
		},
	}
	ctl := newTestController(api)
	seed(ctl, task, other)

	title := "Optimistic title"
	_, err := ctl.UpdateTask(context.Background(), task.ID, UpdateTaskRequest{Title: &title})

	require.Error(t, err)

	restored, ok := ctl.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, task, restored)

	untouched, ok := ctl.Task(other.ID)
	require.True(t, ok)
	assert.Equal(t, other, untouched)
}

func TestController_UpdateAppliesOptimisticallyBeforeResponse(t *testing.T) {
	task := sampleTask("Original title")

	var observed entity.Task
	api := &fakeAPI{}
	ctl := newTestController(api)
	seed(ctl, task)

	api.updateFn = func(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*entity.Task, error) {
		observed, _ = ctl.Task(id)
		canonical := task
		canonical.Title = *req.Title
		canonical.UpdatedAt = time.Now()

		return &canonical, nil
	}

	title := "New title"
	result, err := ctl.UpdateTask(context.Background(), task.ID, UpdateTaskRequest{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, "New title", observed.Title, "cache should hold the optimistic value while the request is in flight")

	confirmed, ok := ctl.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, *result, confirmed, "server canonical record should win after confirmation")
}

func TestController_DeleteEventWinsOverInFlightUpdate(t *testing.T) {
	task := sampleTask("Doomed task")

	api := &fakeAPI{}
	ctl := newTestController(api)
	seed(ctl, task)

	api.updateFn = func(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*entity.Task, error) {
		// Another client deleted the task while our update was in flight.
		ctl.ApplyEvent(&realtime.TaskDeleted{TaskID: task.ID})

		return nil, &APIError{StatusCode: 404, Code: "TASK_NOT_FOUND", Message: "Task not found"}
	}

	status := string(entity.StatusCompleted)
	_, err := ctl.UpdateTask(context.Background(), task.ID, UpdateTaskRequest{Status: &status})

	require.Error(t, err)

	_, ok := ctl.Task(task.ID)
	assert.False(t, ok, "rollback must not resurrect a task removed by a delete event")
}

func TestController_DeleteRollbackRestoresEntry(t *testing.T) {
	task := sampleTask("Protected task")

	api := &fakeAPI{
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			return &APIError{StatusCode: 403, Code: "TASK_DELETE_FORBIDDEN", Message: "Only the creator can delete"}
		},
	}
	ctl := newTestController(api)
	seed(ctl, task)

	err := ctl.DeleteTask(context.Background(), task.ID)

	require.Error(t, err)

	restored, ok := ctl.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, task, restored)
}

func TestController_DeleteRemovesOptimistically(t *testing.T) {
	task := sampleTask("Short-lived task")

	var presentDuringRequest bool
	api := &fakeAPI{}
	ctl := newTestController(api)
	seed(ctl, task)

	api.deleteFn = func(ctx context.Context, id uuid.UUID) error {
		_, presentDuringRequest = ctl.Task(id)

		return nil
	}

	require.NoError(t, ctl.DeleteTask(context.Background(), task.ID))
	assert.False(t, presentDuringRequest)

	_, ok := ctl.Task(task.ID)
	assert.False(t, ok)
}

func TestController_CreateSwapsProvisionalForCanonical(t *testing.T) {
	canonical := sampleTask("Canonical")

	api := &fakeAPI{
		createFn: func(ctx context.Context, req CreateTaskRequest) (*entity.Task, error) {
			result := canonical
			result.Title = req.Title

			return &result, nil
		},
	}
	ctl := newTestController(api)

	task, err := ctl.CreateTask(context.Background(), CreateTaskRequest{
		Title:   "Canonical",
		DueDate: "2026-09-01T12:00:00Z",
	})

	require.NoError(t, err)
	assert.Equal(t, canonical.ID, task.ID)

	tasks := ctl.Tasks()
	require.Len(t, tasks, 1, "provisional entry must be replaced, not kept alongside the canonical one")
	assert.Equal(t, canonical.ID, tasks[0].ID)
}

func TestController_CreateRollbackRemovesProvisionalEntry(t *testing.T) {
	api := &fakeAPI{
		createFn: func(ctx context.Context, req CreateTaskRequest) (*entity.Task, error) {
			return nil, errors.New("server unavailable")
		},
	}
	ctl := newTestController(api)

	_, err := ctl.CreateTask(context.Background(), CreateTaskRequest{
		Title:   "Never happened",
		DueDate: "2026-09-01T12:00:00Z",
	})

	require.Error(t, err)
	assert.Empty(t, ctl.Tasks())
}

func TestController_EventApplicationIsIdempotent(t *testing.T) {
	task := sampleTask("Repeated event")
	ctl := newTestController(&fakeAPI{})

	updated := task
	updated.Title = "After update"

	ctl.ApplyEvent(&realtime.TaskCreated{Task: &task})
	ctl.ApplyEvent(&realtime.TaskUpdated{Task: &updated})
	ctl.ApplyEvent(&realtime.TaskUpdated{Task: &updated})

	require.Len(t, ctl.Tasks(), 1)
	cached, _ := ctl.Task(task.ID)
	assert.Equal(t, updated, cached)

	ctl.ApplyEvent(&realtime.TaskDeleted{TaskID: task.ID})
	ctl.ApplyEvent(&realtime.TaskDeleted{TaskID: task.ID})
	assert.Empty(t, ctl.Tasks())
}

func TestController_EventBeforeConfirmationIsNotReordered(t *testing.T) {
	task := sampleTask("Raced task")

	api := &fakeAPI{}
	ctl := newTestController(api)
	seed(ctl, task)

	canonical := task
	canonical.Title = "New title"

	api.updateFn = func(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*entity.Task, error) {
		// Our own broadcast can outrun the HTTP response.
		ctl.ApplyEvent(&realtime.TaskUpdated{Task: &canonical})

		return &canonical, nil
	}

	title := "New title"
	_, err := ctl.UpdateTask(context.Background(), task.ID, UpdateTaskRequest{Title: &title})

	require.NoError(t, err)
	cached, ok := ctl.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, canonical, cached)
}

func TestController_RefetchReplacesCache(t *testing.T) {
	stale := sampleTask("Stale local task")
	fresh := sampleTask("Fresh server task")

	api := &fakeAPI{
		listFn: func(ctx context.Context) ([]*entity.Task, error) {
			return []*entity.Task{&fresh}, nil
		},
	}
	ctl := newTestController(api)
	seed(ctl, stale)

	require.NoError(t, ctl.Refetch(context.Background()))

	tasks := ctl.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, fresh, tasks[0])
}
