package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"taskflow/internal/domain/entity"
	domainerrors "taskflow/internal/domain/errors"
	"taskflow/internal/domain/repository"
	mockRepo "taskflow/internal/mocks/repository"
	mockSvc "taskflow/internal/mocks/service"
	"taskflow/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// taskServiceFixtures holds all test dependencies for task service tests.
type taskServiceFixtures struct {
	service   usecase.TaskUsecase
	taskRepo  *mockRepo.MockTaskRepository
	publisher *mockSvc.MockEventPublisher
}

func createTestTaskService(t *testing.T) taskServiceFixtures {
	taskRepo := mockRepo.NewMockTaskRepository(t)
	publisher := mockSvc.NewMockEventPublisher(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewTaskService(TaskServiceParams{
		TaskRepo:  taskRepo,
		Publisher: publisher,
		Logger:    logger,
	})

	return taskServiceFixtures{
		service:   service,
		taskRepo:  taskRepo,
		publisher: publisher,
	}
}

func strPtr(s string) *string { return &s }

func TestTaskService_CreateTask_BroadcastsAfterCommit(t *testing.T) {
	fx := createTestTaskService(t)

	ctx := context.Background()
	creatorID := uuid.New()
	input := &usecase.CreateTaskInput{
		Title:   "Write release notes",
		DueDate: time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	}

	storedID := uuid.New()
	fx.taskRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Task")).
		Run(func(ctx context.Context, task *entity.Task) {
			task.ID = storedID
		}).
		Return(nil)
	fx.publisher.EXPECT().TaskCreated(mock.AnythingOfType("*entity.Task")).Return()

	task, err := fx.service.CreateTask(ctx, creatorID, input)

	require.NoError(t, err)
	assert.Equal(t, storedID, task.ID)
	assert.Equal(t, entity.PriorityMedium, task.Priority)
	assert.Equal(t, entity.StatusTodo, task.Status)
	assert.Equal(t, creatorID, task.CreatorID)
}

func TestTaskService_CreateTask_NoEventOnStoreFailure(t *testing.T) {
	fx := createTestTaskService(t)

	ctx := context.Background()
	input := &usecase.CreateTaskInput{
		Title:   "Write release notes",
		DueDate: time.Now().Format(time.RFC3339),
	}

	fx.taskRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Task")).
		Return(errors.New("disk full"))

	task, err := fx.service.CreateTask(ctx, uuid.New(), input)

	require.Error(t, err)
	assert.Nil(t, task)
	fx.publisher.AssertNotCalled(t, "TaskCreated", mock.Anything)
}

func TestTaskService_CreateTask_WithAssigneeNotifiesThem(t *testing.T) {
	fx := createTestTaskService(t)

	ctx := context.Background()
	assigneeID := uuid.New()
	input := &usecase.CreateTaskInput{
		Title:        "Review the migration plan",
		DueDate:      time.Now().Format(time.RFC3339),
		AssignedToID: &assigneeID,
	}

	fx.taskRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Task")).
		Return(nil)
	fx.publisher.EXPECT().TaskCreated(mock.AnythingOfType("*entity.Task")).Return()
	fx.publisher.EXPECT().TaskAssigned(assigneeID, mock.AnythingOfType("*entity.Task")).Return()

	_, err := fx.service.CreateTask(ctx, uuid.New(), input)

	require.NoError(t, err)
}

func TestTaskService_CreateTask_RejectsBadDueDate(t *testing.T) {
	fx := createTestTaskService(t)

	input := &usecase.CreateTaskInput{Title: "x", DueDate: "tomorrow"}

	task, err := fx.service.CreateTask(context.Background(), uuid.New(), input)

	require.Error(t, err)
	assert.Nil(t, task)
	fx.taskRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaskService_UpdateTask_AssignmentEmitsBothEvents(t *testing.T) {
	fx := createTestTaskService(t)

	ctx := context.Background()
	taskID := uuid.New()
	assigneeID := uuid.New()

	previous := &entity.Task{ID: taskID, Title: "Plan sprint"}
	updated := &entity.Task{ID: taskID, Title: "Plan sprint", AssignedToID: &assigneeID}

	fx.taskRepo.EXPECT().FindByID(ctx, taskID).Return(previous, nil)
	fx.taskRepo.EXPECT().
		Update(ctx, taskID, mock.AnythingOfType("repository.TaskUpdate")).
		Return(updated, nil)
	fx.publisher.EXPECT().TaskUpdated(updated).Return()
	fx.publisher.EXPECT().TaskAssigned(assigneeID, updated).Return()

	task, err := fx.service.UpdateTask(ctx, taskID, &usecase.UpdateTaskInput{AssignedToID: &assigneeID})

	require.NoError(t, err)
	assert.Equal(t, updated, task)
}

func TestTaskService_UpdateTask_SameAssigneeSkipsNotification(t *testing.T) {
	fx := createTestTaskService(t)

	ctx := context.Background()
	taskID := uuid.New()
	assigneeID := uuid.New()

	previous := &entity.Task{ID: taskID, Title: "Plan sprint", AssignedToID: &assigneeID}
	updated := &entity.Task{ID: taskID, Title: "Plan sprint v2", AssignedToID: &assigneeID}

	fx.taskRepo.EXPECT().FindByID(ctx, taskID).Return(previous, nil)
	fx.taskRepo.EXPECT().
		Update(ctx, taskID, mock.AnythingOfType("repository.TaskUpdate")).
		Return(updated, nil)
	fx.publisher.EXPECT().TaskUpdated(updated).Return()

	_, err := fx.service.UpdateTask(ctx, taskID, &usecase.UpdateTaskInput{Title: strPtr("Plan sprint v2")})

	require.NoError(t, err)
	fx.publisher.AssertNotCalled(t, "TaskAssigned", mock.Anything, mock.Anything)
}

func TestTaskService_UpdateTask_NoopStillBroadcasts(t *testing.T) {
	fx := createTestTaskService(t)

	ctx := context.Background()
	taskID := uuid.New()

	previous := &entity.Task{ID: taskID, Title: "Plan sprint"}

	fx.taskRepo.EXPECT().FindByID(ctx, taskID).Return(previous, nil)
	fx.taskRepo.EXPECT().
		Update(ctx, taskID, mock.AnythingOfType("repository.TaskUpdate")).
		Return(previous, nil)
	fx.publisher.EXPECT().TaskUpdated(previous).Return()

	_, err := fx.service.UpdateTask(ctx, taskID, &usecase.UpdateTaskInput{Title: strPtr("Plan sprint")})

	require.NoError(t, err)
}

func TestTaskService_UpdateTask_NoEventOnStoreFailure(t *testing.T) {
	fx := createTestTaskService(t)

	ctx := context.Background()
	taskID := uuid.New()

	fx.taskRepo.EXPECT().FindByID(ctx, taskID).Return(&entity.Task{ID: taskID}, nil)
	fx.taskRepo.EXPECT().
		Update(ctx, taskID, mock.AnythingOfType("repository.TaskUpdate")).
		Return(nil, errors.New("deadlock detected"))

	task, err := fx.service.UpdateTask(ctx, taskID, &usecase.UpdateTaskInput{Title: strPtr("x")})

	require.Error(t, err)
	assert.Nil(t, task)
	fx.publisher.AssertNotCalled(t, "TaskUpdated", mock.Anything)
}

func TestTaskService_UpdateTask_NotFound(t *testing.T) {
	fx := createTestTaskService(t)

	ctx := context.Background()
	taskID := uuid.New()

	fx.taskRepo.EXPECT().FindByID(ctx, taskID).Return(nil, repository.ErrTaskNotFound)

	task, err := fx.service.UpdateTask(ctx, taskID, &usecase.UpdateTaskInput{Title: strPtr("x")})

	require.Error(t, err)
	assert.Nil(t, task)
	assert.ErrorIs(t, err, domainerrors.ErrTaskNotFound)
}

func TestTaskService_DeleteTask_OnlyCreatorMayDelete(t *testing.T) {
	fx := createTestTaskService(t)

	ctx := context.Background()
	taskID := uuid.New()
	creatorID := uuid.New()

	fx.taskRepo.EXPECT().
		FindByID(ctx, taskID).
		Return(&entity.Task{ID: taskID, CreatorID: creatorID}, nil)

	err := fx.service.DeleteTask(ctx, taskID, uuid.New())

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrTaskDeleteForbidden)
	fx.taskRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	fx.publisher.AssertNotCalled(t, "TaskDeleted", mock.Anything)
}

func TestTaskService_DeleteTask_BroadcastsAfterCommit(t *testing.T) {
	fx := createTestTaskService(t)

	ctx := context.Background()
	taskID := uuid.New()
	creatorID := uuid.New()

	fx.taskRepo.EXPECT().
		FindByID(ctx, taskID).
		Return(&entity.Task{ID: taskID, CreatorID: creatorID}, nil)
	fx.taskRepo.EXPECT().Delete(ctx, taskID).Return(nil)
	fx.publisher.EXPECT().TaskDeleted(taskID).Return()

	err := fx.service.DeleteTask(ctx, taskID, creatorID)

	require.NoError(t, err)
}

func TestTaskService_DeleteTask_NoEventOnStoreFailure(t *testing.T) {
	fx := createTestTaskService(t)

	ctx := context.Background()
	taskID := uuid.New()
	creatorID := uuid.New()

	fx.taskRepo.EXPECT().
		FindByID(ctx, taskID).
		Return(&entity.Task{ID: taskID, CreatorID: creatorID}, nil)
	fx.taskRepo.EXPECT().Delete(ctx, taskID).Return(errors.New("disk full"))

	err := fx.service.DeleteTask(ctx, taskID, creatorID)

	require.Error(t, err)
	fx.publisher.AssertNotCalled(t, "TaskDeleted", mock.Anything)
}

func TestTaskService_ListTasks_RejectsUnknownStatus(t *testing.T) {
	fx := createTestTaskService(t)

	tasks, err := fx.service.ListTasks(context.Background(), &usecase.ListTasksInput{Status: "DONE"})

	require.Error(t, err)
	assert.Nil(t, tasks)
	fx.taskRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestTaskService_ListTasks_PassesFilterThrough(t *testing.T) {
	fx := createTestTaskService(t)

	ctx := context.Background()
	expected := repository.TaskFilter{
		Status:    entity.StatusInProgress,
		Priority:  entity.PriorityHigh,
		SortBy:    repository.SortByDueDate,
		SortOrder: "asc",
	}

	fx.taskRepo.EXPECT().FindAll(ctx, expected).Return([]*entity.Task{}, nil)

	tasks, err := fx.service.ListTasks(ctx, &usecase.ListTasksInput{
		Status:    "IN_PROGRESS",
		Priority:  "HIGH",
		SortBy:    "dueDate",
		SortOrder: "asc",
	})

	require.NoError(t, err)
	assert.Empty(t, tasks)
}
