package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	mockusecase "taskflow/internal/mocks/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTaskHandlerTest(t *testing.T, method, target string) (*mockusecase.MockTaskUsecase, *TaskHandler, echo.Context, *httptest.ResponseRecorder) {
	uc := mockusecase.NewMockTaskUsecase(t)
	h := NewTaskHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(method, target, nil), rec)

	return uc, h, c, rec
}

func TestTaskHandler_GetTask_RejectsMalformedID(t *testing.T) {
	uc, h, c, _ := newTaskHandlerTest(t, http.MethodGet, "/api/v1/tasks/not-a-uuid")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.GetTask(c)

	require.Error(t, err)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	uc.AssertNotCalled(t, "GetTask", mock.Anything, mock.Anything)
}

func TestTaskHandler_UpdateTask_RejectsMalformedID(t *testing.T) {
	uc, h, c, _ := newTaskHandlerTest(t, http.MethodPatch, "/api/v1/tasks/not-a-uuid")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.UpdateTask(c)

	require.Error(t, err)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	uc.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_DeleteTask_RejectsMalformedID(t *testing.T) {
	uc, h, c, _ := newTaskHandlerTest(t, http.MethodDelete, "/api/v1/tasks/not-a-uuid")
	c.Set("userID", uuid.New())
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.DeleteTask(c)

	require.Error(t, err)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	uc.AssertNotCalled(t, "DeleteTask", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_DeleteTask_RespondsNoContent(t *testing.T) {
	taskID := uuid.New()
	userID := uuid.New()

	uc, h, c, rec := newTaskHandlerTest(t, http.MethodDelete, "/api/v1/tasks/"+taskID.String())
	c.Set("userID", userID)
	c.SetParamNames("id")
	c.SetParamValues(taskID.String())

	uc.EXPECT().DeleteTask(mock.Anything, taskID, userID).Return(nil)

	err := h.DeleteTask(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
