package router

import (
	"github.com/labstack/echo/v4"

	"greentask/internal/adapter/api/handler"
	"greentask/internal/adapter/api/middleware"
)

func SetupNotificationRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	notificationHandler := handler.GetNotificationHandler()

	notifications := e.Group("/v1/notifications")
	notifications.Use(authMiddleware.Authenticate)

	notifications.GET("", notificationHandler.List)
	notifications.POST("", notificationHandler.Add)
	notifications.DELETE("", notificationHandler.ClearAll)
	notifications.POST("/read", notificationHandler.MarkAllAsRead)
	notifications.GET("/:id", notificationHandler.Get)
	notifications.POST("/:id/read", notificationHandler.MarkAsRead)
	notifications.POST("/:id/open", notificationHandler.Open)
	notifications.DELETE("/:id", notificationHandler.Clear)
}
