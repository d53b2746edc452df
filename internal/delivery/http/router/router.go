// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"taskflow/internal/delivery/http/middleware"
	"taskflow/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	TaskHandler    *handler.TaskHandler
	WSHandler      *handler.WSHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	userHandler    *handler.UserHandler
	taskHandler    *handler.TaskHandler
	wsHandler      *handler.WSHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		userHandler:    params.UserHandler,
		taskHandler:    params.TaskHandler,
		wsHandler:      params.WSHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api/v1")

	// Auth routes
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.GET("/me", r.authHandler.Me, r.authMiddleware.Authenticate)
	}

	// Live sync channel; the handshake carries its own token.
	api.GET("/ws", r.wsHandler.Connect)

	// User directory, for assignee pickers
	userGroup := api.Group("/users")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("", r.userHandler.ListUsers)
	}

	// Task routes; dashboard routes must precede the :id route
	taskGroup := api.Group("/tasks")
	taskGroup.Use(r.authMiddleware.Authenticate)
	{
		taskGroup.GET("/dashboard/assigned", r.taskHandler.ListAssigned)
		taskGroup.GET("/dashboard/created", r.taskHandler.ListCreated)
		taskGroup.GET("/dashboard/overdue", r.taskHandler.ListOverdue)

		taskGroup.POST("", r.taskHandler.CreateTask)
		taskGroup.GET("", r.taskHandler.ListTasks)
		taskGroup.GET("/:id", r.taskHandler.GetTask)
		taskGroup.PATCH("/:id", r.taskHandler.UpdateTask)
		taskGroup.DELETE("/:id", r.taskHandler.DeleteTask)
	}
}
