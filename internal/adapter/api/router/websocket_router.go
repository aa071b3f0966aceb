package router

import (
	"github.com/labstack/echo/v4"

	"greentask/internal/adapter/api/handler"
	"greentask/internal/adapter/api/middleware"
)

// SetupWebSocketRouter sets up the toast stream. The token travels in the
// query string because browsers cannot set headers on the handshake.
func SetupWebSocketRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	wsHandler := handler.GetWebSocketHandler()
	e.GET("/v1/ws", wsHandler.HandleWebSocket, authMiddleware.AuthenticateQuery)
}
