package postgres

import (
	"context"
	"time"

	"taskflow/internal/domain/entity"
	domainerrors "taskflow/internal/domain/errors"
	"taskflow/internal/domain/repository"
	"taskflow/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// priorityRankExpr orders priorities by urgency instead of alphabetically.
const priorityRankExpr = "CASE priority WHEN 'LOW' THEN 0 WHEN 'MEDIUM' THEN 1 WHEN 'HIGH' THEN 2 WHEN 'URGENT' THEN 3 END"

// taskRepository implements the repository.TaskRepository interface using GORM.
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository is the constructor for taskRepository.
func NewTaskRepository(db *gorm.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

// Create persists a new task and fills in server-assigned fields.
func (repo *taskRepository) Create(ctx context.Context, task *entity.Task) error {
	taskM := fromTaskDomain(task)

	if err := repo.db.WithContext(ctx).Create(taskM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("creator or assignee does not exist")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required task fields")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create task")
	}

	return repo.reload(ctx, taskM.ID, task)
}

// FindByID retrieves a single task with its creator and assignee summaries.
func (repo *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	var taskM model.TaskModel

	if err := repo.db.WithContext(ctx).
		Preload("Creator").
		Preload("AssignedTo").
		Where("id = ?", id).
		First(&taskM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTaskNotFound
		}

		return nil, errors.Wrap(err, "failed to find task by id")
	}

	return toTaskDomain(&taskM), nil
}

// FindAll retrieves tasks matching the filter.
func (repo *taskRepository) FindAll(ctx context.Context, filter repository.TaskFilter) ([]*entity.Task, error) {
	query := repo.db.WithContext(ctx).
		Preload("Creator").
		Preload("AssignedTo")

	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", string(filter.Priority))
	}

	query = query.Order(orderExpr(filter))

	var taskMs []model.TaskModel
	if err := query.Find(&taskMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list tasks")
	}

	return toTaskDomainSlice(taskMs), nil
}

// FindByAssignee retrieves tasks assigned to a user, due date ascending.
func (repo *taskRepository) FindByAssignee(ctx context.Context, userID uuid.UUID) ([]*entity.Task, error) {
	var taskMs []model.TaskModel

	if err := repo.db.WithContext(ctx).
		Preload("Creator").
		Preload("AssignedTo").
		Where("assigned_to_id = ?", userID).
		Order("due_date asc").
		Find(&taskMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list assigned tasks")
	}

	return toTaskDomainSlice(taskMs), nil
}

// FindByCreator retrieves tasks created by a user, newest first.
func (repo *taskRepository) FindByCreator(ctx context.Context, userID uuid.UUID) ([]*entity.Task, error) {
	var taskMs []model.TaskModel

	if err := repo.db.WithContext(ctx).
		Preload("Creator").
		Preload("AssignedTo").
		Where("creator_id = ?", userID).
		Order("created_at desc").
		Find(&taskMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list created tasks")
	}

	return toTaskDomainSlice(taskMs), nil
}

// FindOverdue retrieves incomplete tasks whose due date has passed.
func (repo *taskRepository) FindOverdue(ctx context.Context) ([]*entity.Task, error) {
	var taskMs []model.TaskModel

	if err := repo.db.WithContext(ctx).
		Preload("Creator").
		Preload("AssignedTo").
		Where("due_date < ? AND status <> ?", time.Now(), string(entity.StatusCompleted)).
		Order("due_date asc").
		Find(&taskMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list overdue tasks")
	}

	return toTaskDomainSlice(taskMs), nil
}

// Update applies a partial update and returns the stored result.
func (repo *taskRepository) Update(ctx context.Context, id uuid.UUID, update repository.TaskUpdate) (*entity.Task, error) {
	columns := map[string]any{}
	if update.Title != nil {
		columns["title"] = *update.Title
	}
	if update.Description != nil {
		columns["description"] = *update.Description
	}
	if update.DueDate != nil {
		columns["due_date"] = *update.DueDate
	}
	if update.Priority != nil {
		columns["priority"] = string(*update.Priority)
	}
	if update.Status != nil {
		columns["status"] = string(*update.Status)
	}
	if update.AssignedToID != nil {
		columns["assigned_to_id"] = *update.AssignedToID
	} else if update.ClearAssignee {
		columns["assigned_to_id"] = nil
	}

	if len(columns) > 0 {
		result := repo.db.WithContext(ctx).
			Model(&model.TaskModel{}).
			Where("id = ?", id).
			Updates(columns)
		if result.Error != nil {
			if isForeignKeyConstraintViolation(result.Error) {
				return nil, domainerrors.ErrValidationFailed.WrapMessage("assignee does not exist")
			}

			return nil, domainerrors.NewDatabaseExecuteError(result.Error, "failed to update task")
		}
		if result.RowsAffected == 0 {
			return nil, repository.ErrTaskNotFound
		}
	}

	return repo.FindByID(ctx, id)
}

// Delete removes a task by id.
func (repo *taskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.TaskModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete task")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTaskNotFound
	}

	return nil
}

// reload refreshes the entity with the stored row, including relations.
func (repo *taskRepository) reload(ctx context.Context, id uuid.UUID, task *entity.Task) error {
	stored, err := repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	*task = *stored

	return nil
}

func orderExpr(filter repository.TaskFilter) string {
	direction := "asc"
	if filter.SortOrder == "desc" {
		direction = "desc"
	}

	switch filter.SortBy {
	case repository.SortByDueDate:
		return "due_date " + direction
	case repository.SortByCreatedAt:
		return "created_at " + direction
	case repository.SortByPriority:
		return priorityRankExpr + " " + direction
	default:
		return "created_at desc"
	}
}

func toTaskDomain(taskM *model.TaskModel) *entity.Task {
	task := &entity.Task{
		ID:           taskM.ID,
		Title:        taskM.Title,
		Description:  taskM.Description,
		DueDate:      taskM.DueDate,
		Priority:     entity.Priority(taskM.Priority),
		Status:       entity.Status(taskM.Status),
		CreatorID:    taskM.CreatorID,
		AssignedToID: taskM.AssignedToID,
		CreatedAt:    taskM.CreatedAt,
		UpdatedAt:    taskM.UpdatedAt,
	}
	if taskM.Creator != nil {
		task.Creator = toUserDomain(taskM.Creator).Ref()
	}
	if taskM.AssignedTo != nil {
		task.AssignedTo = toUserDomain(taskM.AssignedTo).Ref()
	}

	return task
}

func toTaskDomainSlice(taskMs []model.TaskModel) []*entity.Task {
	tasks := make([]*entity.Task, 0, len(taskMs))
	for i := range taskMs {
		tasks = append(tasks, toTaskDomain(&taskMs[i]))
	}

	return tasks
}

func fromTaskDomain(task *entity.Task) *model.TaskModel {
	return &model.TaskModel{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		DueDate:      task.DueDate,
		Priority:     string(task.Priority),
		Status:       string(task.Status),
		CreatorID:    task.CreatorID,
		AssignedToID: task.AssignedToID,
	}
}
