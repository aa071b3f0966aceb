package router

import (
	"github.com/labstack/echo/v4"

	"greentask/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	SetupHealthRouter(e)
	SetupSessionRouter(e, authMiddleware)
	SetupProfileRouter(e, authMiddleware)
	SetupNotificationRouter(e, authMiddleware)
	SetupWebSocketRouter(e, authMiddleware)
}
