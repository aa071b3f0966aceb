package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"greentask/internal/usecase"
)

type HealthHandler struct {
	sessionUseCase *usecase.SessionUseCase
}

func NewHealthHandler(sessionUseCase *usecase.SessionUseCase) *HealthHandler {
	return &HealthHandler{
		sessionUseCase: sessionUseCase,
	}
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	sessions, err := h.sessionUseCase.Count(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"status": "degraded",
			"error":  err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"time":     time.Now().Format(time.RFC3339),
		"sessions": sessions,
	})
}
