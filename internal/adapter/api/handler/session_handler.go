package handler

import (
	"github.com/labstack/echo/v4"

	"greentask/internal/adapter/api/middleware"
	"greentask/internal/usecase"
	"greentask/pkg/logger"
	"greentask/pkg/response"
)

type SessionHandler struct {
	sessionUseCase *usecase.SessionUseCase
	log            logger.Logger
}

func NewSessionHandler(sessionUseCase *usecase.SessionUseCase, log logger.Logger) *SessionHandler {
	return &SessionHandler{
		sessionUseCase: sessionUseCase,
		log:            log,
	}
}

type connectRequest struct {
	PublicKey string `json:"publicKey" validate:"required,max=128"`
}

// Connect is the wallet connected signal.
func (h *SessionHandler) Connect(c echo.Context) error {
	var req connectRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}

	result, err := h.sessionUseCase.Connect(c.Request().Context(), req.PublicKey)
	if err != nil {
		h.log.Warn("connect failed", "error", err)
		return fail(c, err)
	}
	if result.Resumed {
		return response.Success(c, result)
	}
	return response.Created(c, result)
}

// Disconnect is the wallet disconnected signal.
func (h *SessionHandler) Disconnect(c echo.Context) error {
	sessionID := middleware.SessionID(c)
	if err := h.sessionUseCase.Disconnect(c.Request().Context(), sessionID); err != nil {
		return fail(c, err)
	}
	return response.Success(c, usecase.ProfileSnapshot{UserProfile: nil, IsLoading: false})
}
