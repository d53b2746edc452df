// Package client is a Go client for the taskflow server: REST mutations,
// the live event stream, and a locally cached task list kept consistent
// through optimistic updates and server-pushed events.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"taskflow/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const defaultRequestTimeout = 10 * time.Second

// TaskAPI is the server surface the sync controller mutates through.
type TaskAPI interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (*entity.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*entity.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	ListTasks(ctx context.Context) ([]*entity.Task, error)
}

// CreateTaskRequest mirrors the server's task creation body.
type CreateTaskRequest struct {
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	DueDate      string     `json:"dueDate"`
	Priority     string     `json:"priority,omitempty"`
	Status       string     `json:"status,omitempty"`
	AssignedToID *uuid.UUID `json:"assignedToId,omitempty"`
}

// UpdateTaskRequest mirrors the server's partial update body. Only
// non-nil fields are sent.
type UpdateTaskRequest struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	DueDate      *string    `json:"dueDate,omitempty"`
	Priority     *string    `json:"priority,omitempty"`
	Status       *string    `json:"status,omitempty"`
	AssignedToID *uuid.UUID `json:"assignedToId,omitempty"`
}

// envelope is the server's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *apiError       `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Details string `json:"details"`
}

// APIError is a non-2xx server response surfaced to the caller.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// RESTClient talks to the taskflow HTTP API.
type RESTClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewRESTClient creates a client for the given server base URL
// (e.g. "http://localhost:8080") using the given bearer token.
func NewRESTClient(baseURL, token string) *RESTClient {
	return &RESTClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

// CreateTask creates a task and returns the server's canonical record.
func (c *RESTClient) CreateTask(ctx context.Context, req CreateTaskRequest) (*entity.Task, error) {
	var task entity.Task
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks", req, &task); err != nil {
		return nil, err
	}

	return &task, nil
}

// UpdateTask patches a task and returns the server's canonical record.
func (c *RESTClient) UpdateTask(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*entity.Task, error) {
	var task entity.Task
	if err := c.do(ctx, http.MethodPatch, "/api/v1/tasks/"+id.String(), req, &task); err != nil {
		return nil, err
	}

	return &task, nil
}

// DeleteTask removes a task.
func (c *RESTClient) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+id.String(), nil, nil)
}

// ListTasks fetches every task, in the server's default ordering.
func (c *RESTClient) ListTasks(ctx context.Context) ([]*entity.Task, error) {
	var tasks []*entity.Task
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks", nil, &tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (c *RESTClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	// Deletions succeed with an empty 204, not the envelope.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}

	if !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: env.Message}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
		}

		return apiErr
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errors.Wrap(err, "failed to decode response data")
		}
	}

	return nil
}
