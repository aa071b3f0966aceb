package handler

import (
	"github.com/labstack/echo/v4"

	"greentask/internal/adapter/api/middleware"
	"greentask/internal/infrastructure/ratelimit"
	"greentask/internal/infrastructure/websocket"
	"greentask/internal/usecase"
	"greentask/pkg/errors"
	"greentask/pkg/logger"
	"greentask/pkg/response"
)

var (
	healthHandler       *HealthHandler
	sessionHandler      *SessionHandler
	profileHandler      *ProfileHandler
	notificationHandler *NotificationHandler
	webSocketHandler    *WebSocketHandler
)

func Setup(
	sessionUseCase *usecase.SessionUseCase,
	wsManager *websocket.Manager,
	limiter *ratelimit.RateLimiter,
	allowedOrigins []string,
	log logger.Logger,
) {
	healthHandler = NewHealthHandler(sessionUseCase)
	sessionHandler = NewSessionHandler(sessionUseCase, log)
	profileHandler = NewProfileHandler(sessionUseCase)
	notificationHandler = NewNotificationHandler(sessionUseCase, limiter)
	webSocketHandler = NewWebSocketHandler(wsManager, allowedOrigins, log)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func GetSessionHandler() *SessionHandler {
	return sessionHandler
}

func GetProfileHandler() *ProfileHandler {
	return profileHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetWebSocketHandler() *WebSocketHandler {
	return webSocketHandler
}

// withSession runs fn against the caller's session and renders any error.
func withSession(c echo.Context, sessions *usecase.SessionUseCase, fn func(s *usecase.Session) error) error {
	sessionID := middleware.SessionID(c)
	if sessionID == "" {
		return errors.Unauthorized("Authentication required", nil)
	}
	return sessions.Do(c.Request().Context(), sessionID, fn)
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

func fail(c echo.Context, err error) error {
	return response.Error(c, err)
}
