package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskflow/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTClient_CreateTaskSendsBearerToken(t *testing.T) {
	task := sampleTask("From server")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/tasks", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		var req CreateTaskRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "From server", req.Title)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(envelope{Success: true, Code: 201, Data: mustMarshal(t, task)})
	}))
	defer server.Close()

	c := NewRESTClient(server.URL, "secret-token")

	created, err := c.CreateTask(context.Background(), CreateTaskRequest{
		Title:   "From server",
		DueDate: time.Now().Format(time.RFC3339),
	})

	require.NoError(t, err)
	assert.Equal(t, task.ID, created.ID)
}

func TestRESTClient_ErrorEnvelopeBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(envelope{
			Success: false,
			Code:    404,
			Message: "Task not found",
			Error:   &apiError{Code: "TASK_NOT_FOUND", Details: "no such task"},
		})
	}))
	defer server.Close()

	c := NewRESTClient(server.URL, "secret-token")

	_, err := c.UpdateTask(context.Background(), uuid.New(), UpdateTaskRequest{})

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "TASK_NOT_FOUND", apiErr.Code)
}

func TestRESTClient_ListTasksDecodesCollection(t *testing.T) {
	tasks := []entity.Task{sampleTask("one"), sampleTask("two")}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		json.NewEncoder(w).Encode(envelope{Success: true, Code: 200, Data: mustMarshal(t, tasks)})
	}))
	defer server.Close()

	c := NewRESTClient(server.URL, "secret-token")

	listed, err := c.ListTasks(context.Background())

	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, tasks[0].ID, listed[0].ID)
	assert.Equal(t, tasks[1].ID, listed[1].ID)
}

func TestRESTClient_DeleteTaskAcceptsNoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := NewRESTClient(server.URL, "secret-token")

	require.NoError(t, c.DeleteTask(context.Background(), uuid.New()))
}

func mustMarshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)

	return data
}
