package router

import (
	"github.com/labstack/echo/v4"

	"greentask/internal/adapter/api/handler"
	"greentask/internal/adapter/api/middleware"
)

func SetupSessionRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	sessionHandler := handler.GetSessionHandler()

	session := e.Group("/v1/session")
	session.POST("/connect", sessionHandler.Connect)
	session.POST("/disconnect", sessionHandler.Disconnect, authMiddleware.Authenticate)
}
