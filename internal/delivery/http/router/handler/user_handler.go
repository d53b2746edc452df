package handler

import (
	"log/slog"
	"net/http"

	"taskflow/internal/delivery/http/response"
	"taskflow/internal/domain/entity"
	"taskflow/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for user directory handlers.
type UserHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListUsers returns every registered user as assignee candidates.
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.uc.ListUsers(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	refs := make([]*entity.UserRef, 0, len(users))
	for _, user := range users {
		refs = append(refs, user.Ref())
	}

	return response.Success(c, http.StatusOK, refs, "")
}
