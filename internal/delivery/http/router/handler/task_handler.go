package handler

import (
	"log/slog"
	"net/http"

	"taskflow/internal/delivery/http/response"
	"taskflow/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// TaskHandler holds dependencies for task-related handlers.
type TaskHandler struct {
	uc     usecase.TaskUsecase
	logger *slog.Logger
}

// NewTaskHandler is the constructor for TaskHandler, injected by Fx.
func NewTaskHandler(uc usecase.TaskUsecase, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		uc:     uc,
		logger: logger,
	}
}

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	Title        string     `json:"title" validate:"required,min=1,max=100"`
	Description  string     `json:"description"`
	DueDate      string     `json:"dueDate" validate:"required"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	AssignedToID *uuid.UUID `json:"assignedToId"`
}

// UpdateTaskRequest represents the request body for a partial task update.
type UpdateTaskRequest struct {
	Title        *string    `json:"title" validate:"omitempty,min=1,max=100"`
	Description  *string    `json:"description"`
	DueDate      *string    `json:"dueDate"`
	Priority     *string    `json:"priority"`
	Status       *string    `json:"status"`
	AssignedToID *uuid.UUID `json:"assignedToId"`
}

// CreateTask handles the task creation request.
func (h *TaskHandler) CreateTask(c echo.Context) error {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "AUTHENTICATION_FAILED", "Missing authentication")
	}

	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid task input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.uc.CreateTask(c.Request().Context(), userID, &usecase.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		Priority:     req.Priority,
		Status:       req.Status,
		AssignedToID: req.AssignedToID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, task, "Task created successfully")
}

// GetTask handles the single task lookup request.
func (h *TaskHandler) GetTask(c echo.Context) error {
	id, err := h.taskID(c)
	if err != nil {
		return err
	}

	task, err := h.uc.GetTask(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, task, "")
}

// ListTasks handles the filtered task listing request.
func (h *TaskHandler) ListTasks(c echo.Context) error {
	tasks, err := h.uc.ListTasks(c.Request().Context(), &usecase.ListTasksInput{
		Status:    c.QueryParam("status"),
		Priority:  c.QueryParam("priority"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tasks, "")
}

// UpdateTask handles the partial task update request. A null assignedToId
// in the body clears the assignment; an absent one leaves it untouched.
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	id, err := h.taskID(c)
	if err != nil {
		return err
	}

	var raw map[string]any
	if err := c.Bind(&raw); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid task input")
	}

	req, err := decodeUpdateRequest(raw)
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid task input")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	input := &usecase.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		Priority:     req.Priority,
		Status:       req.Status,
		AssignedToID: req.AssignedToID,
	}
	if value, present := raw["assignedToId"]; present && value == nil {
		input.ClearAssignee = true
	}

	task, err := h.uc.UpdateTask(c.Request().Context(), id, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, task, "Task updated successfully")
}

// DeleteTask handles the task deletion request.
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "AUTHENTICATION_FAILED", "Missing authentication")
	}

	id, err := h.taskID(c)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteTask(c.Request().Context(), id, userID); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListAssigned returns the caller's assigned tasks for the dashboard.
func (h *TaskHandler) ListAssigned(c echo.Context) error {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "AUTHENTICATION_FAILED", "Missing authentication")
	}

	tasks, err := h.uc.ListAssignedTasks(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tasks, "")
}

// ListCreated returns the caller's created tasks for the dashboard.
func (h *TaskHandler) ListCreated(c echo.Context) error {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "AUTHENTICATION_FAILED", "Missing authentication")
	}

	tasks, err := h.uc.ListCreatedTasks(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tasks, "")
}

// ListOverdue returns incomplete tasks past their due date.
func (h *TaskHandler) ListOverdue(c echo.Context) error {
	tasks, err := h.uc.ListOverdueTasks(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, tasks, "")
}

// taskID parses the :id path parameter. It returns an echo.HTTPError
// rather than writing the response itself so callers get a non-nil
// error and stop before reaching the usecase.
func (h *TaskHandler) taskID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Task id must be a UUID")
	}

	return id, nil
}

// decodeUpdateRequest maps the raw JSON body onto the typed request.
// Binding through a map first preserves the distinction between a field
// that is absent and one explicitly set to null.
func decodeUpdateRequest(raw map[string]any) (*UpdateTaskRequest, error) {
	req := &UpdateTaskRequest{}

	if err := assignString(raw, "title", &req.Title); err != nil {
		return nil, err
	}
	if err := assignString(raw, "description", &req.Description); err != nil {
		return nil, err
	}
	if err := assignString(raw, "dueDate", &req.DueDate); err != nil {
		return nil, err
	}
	if err := assignString(raw, "priority", &req.Priority); err != nil {
		return nil, err
	}
	if err := assignString(raw, "status", &req.Status); err != nil {
		return nil, err
	}

	if value, present := raw["assignedToId"]; present && value != nil {
		str, ok := value.(string)
		if !ok {
			return nil, errors.New("assignedToId must be a string")
		}
		id, err := uuid.Parse(str)
		if err != nil {
			return nil, errors.Wrap(err, "assignedToId must be a UUID")
		}
		req.AssignedToID = &id
	}

	return req, nil
}

func assignString(raw map[string]any, key string, target **string) error {
	value, present := raw[key]
	if !present || value == nil {
		return nil
	}

	str, ok := value.(string)
	if !ok {
		return errors.Errorf("%s must be a string", key)
	}
	*target = &str

	return nil
}
