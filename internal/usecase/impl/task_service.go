package impl

import (
	"context"
	"log/slog"
	"time"

	"taskflow/internal/domain/entity"
	domainerrors "taskflow/internal/domain/errors"
	"taskflow/internal/domain/repository"
	"taskflow/internal/domain/service"
	"taskflow/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// taskService implements the TaskUsecase interface. Events are published
// only after the repository reports a successful write, so clients never
// see state the store does not hold.
type taskService struct {
	taskRepo  repository.TaskRepository
	publisher service.EventPublisher
	logger    *slog.Logger
}

// TaskServiceParams holds dependencies for TaskService, injected by Fx.
type TaskServiceParams struct {
	fx.In

	TaskRepo  repository.TaskRepository
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewTaskService is the constructor for taskService.
func NewTaskService(params TaskServiceParams) usecase.TaskUsecase {
	return &taskService{
		taskRepo:  params.TaskRepo,
		publisher: params.Publisher,
		logger:    params.Logger,
	}
}

// CreateTask validates the input, persists the task, and announces it.
func (srv *taskService) CreateTask(ctx context.Context, creatorID uuid.UUID, input *usecase.CreateTaskInput) (*entity.Task, error) {
	dueDate, err := parseDueDate(input.DueDate)
	if err != nil {
		return nil, err
	}

	priority := entity.PriorityMedium
	if input.Priority != "" {
		priority = entity.Priority(input.Priority)
		if !priority.Valid() {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown priority")
		}
	}

	status := entity.StatusTodo
	if input.Status != "" {
		status = entity.Status(input.Status)
		if !status.Valid() {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown status")
		}
	}

	task := &entity.Task{
		Title:        input.Title,
		Description:  input.Description,
		DueDate:      dueDate,
		Priority:     priority,
		Status:       status,
		CreatorID:    creatorID,
		AssignedToID: input.AssignedToID,
	}
	if err := srv.taskRepo.Create(ctx, task); err != nil {
		srv.logger.Error("Failed to create task", slog.Any("creatorID", creatorID), slog.Any("error", err))

		return nil, err
	}

	srv.publisher.TaskCreated(task)
	if task.AssignedToID != nil {
		srv.publisher.TaskAssigned(*task.AssignedToID, task)
	}

	srv.logger.Debug("Task created", slog.Any("taskID", task.ID))

	return task, nil
}

// GetTask retrieves a single task.
func (srv *taskService) GetTask(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	task, err := srv.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateTaskError(err)
	}

	return task, nil
}

// ListTasks retrieves tasks matching the optional filter.
func (srv *taskService) ListTasks(ctx context.Context, input *usecase.ListTasksInput) ([]*entity.Task, error) {
	filter := repository.TaskFilter{
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
	}
	if input.Status != "" {
		status := entity.Status(input.Status)
		if !status.Valid() {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown status")
		}
		filter.Status = status
	}
	if input.Priority != "" {
		priority := entity.Priority(input.Priority)
		if !priority.Valid() {
			return nil, domainerrors.ErrValidationFailed.WrapMessage("unknown priority")
		}
		filter.Priority = priority
	}

	tasks, err := srv.taskRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tasks")
	}

	return tasks, nil
}

// UpdateTask applies a partial update and announces the result. Every
// successful commit is broadcast, even one that changed nothing, so all
// clients converge on the same canonical copy. A newly assigned user
// additionally gets a targeted notification.
func (srv *taskService) UpdateTask(ctx context.Context, id uuid.UUID, input *usecase.UpdateTaskInput) (*entity.Task, error) {
	previous, err := srv.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translateTaskError(err)
	}

	update, err := buildTaskUpdate(input)
	if err != nil {
		return nil, err
	}

	task, err := srv.taskRepo.Update(ctx, id, update)
	if err != nil {
		srv.logger.Error("Failed to update task", slog.Any("taskID", id), slog.Any("error", err))

		return nil, translateTaskError(err)
	}

	srv.publisher.TaskUpdated(task)
	if task.AssignedToID != nil && !sameAssignee(previous.AssignedToID, task.AssignedToID) {
		srv.publisher.TaskAssigned(*task.AssignedToID, task)
	}

	srv.logger.Debug("Task updated", slog.Any("taskID", task.ID))

	return task, nil
}

// DeleteTask removes a task. Only the creator may delete; anyone may update.
func (srv *taskService) DeleteTask(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) error {
	task, err := srv.taskRepo.FindByID(ctx, id)
	if err != nil {
		return translateTaskError(err)
	}
	if task.CreatorID != requesterID {
		return domainerrors.ErrTaskDeleteForbidden
	}

	if err := srv.taskRepo.Delete(ctx, id); err != nil {
		srv.logger.Error("Failed to delete task", slog.Any("taskID", id), slog.Any("error", err))

		return translateTaskError(err)
	}

	srv.publisher.TaskDeleted(id)

	srv.logger.Debug("Task deleted", slog.Any("taskID", id))

	return nil
}

// ListAssignedTasks retrieves the requester's assigned tasks, due date ascending.
func (srv *taskService) ListAssignedTasks(ctx context.Context, userID uuid.UUID) ([]*entity.Task, error) {
	tasks, err := srv.taskRepo.FindByAssignee(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assigned tasks")
	}

	return tasks, nil
}

// ListCreatedTasks retrieves the requester's created tasks, newest first.
func (srv *taskService) ListCreatedTasks(ctx context.Context, userID uuid.UUID) ([]*entity.Task, error) {
	tasks, err := srv.taskRepo.FindByCreator(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list created tasks")
	}

	return tasks, nil
}

// ListOverdueTasks retrieves incomplete tasks past their due date.
func (srv *taskService) ListOverdueTasks(ctx context.Context) ([]*entity.Task, error) {
	tasks, err := srv.taskRepo.FindOverdue(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list overdue tasks")
	}

	return tasks, nil
}

func buildTaskUpdate(input *usecase.UpdateTaskInput) (repository.TaskUpdate, error) {
	update := repository.TaskUpdate{
		Title:         input.Title,
		Description:   input.Description,
		AssignedToID:  input.AssignedToID,
		ClearAssignee: input.ClearAssignee,
	}

	if input.DueDate != nil {
		dueDate, err := parseDueDate(*input.DueDate)
		if err != nil {
			return repository.TaskUpdate{}, err
		}
		update.DueDate = &dueDate
	}
	if input.Priority != nil {
		priority := entity.Priority(*input.Priority)
		if !priority.Valid() {
			return repository.TaskUpdate{}, domainerrors.ErrValidationFailed.WrapMessage("unknown priority")
		}
		update.Priority = &priority
	}
	if input.Status != nil {
		status := entity.Status(*input.Status)
		if !status.Valid() {
			return repository.TaskUpdate{}, domainerrors.ErrValidationFailed.WrapMessage("unknown status")
		}
		update.Status = &status
	}

	return update, nil
}

func parseDueDate(raw string) (time.Time, error) {
	dueDate, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, domainerrors.ErrValidationFailed.WrapMessage("dueDate must be an RFC3339 timestamp")
	}

	return dueDate, nil
}

func sameAssignee(before, after *uuid.UUID) bool {
	if before == nil || after == nil {
		return before == nil && after == nil
	}

	return *before == *after
}

func translateTaskError(err error) error {
	if errors.Is(err, repository.ErrTaskNotFound) {
		return domainerrors.ErrTaskNotFound
	}

	return err
}
