package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"greentask/internal/adapter/api/middleware"
	ws "greentask/internal/infrastructure/websocket"
	"greentask/pkg/errors"
	"greentask/pkg/logger"
)

type WebSocketHandler struct {
	wsManager *ws.Manager
	upgrader  gorillaws.Upgrader
	log       logger.Logger
}

func NewWebSocketHandler(wsManager *ws.Manager, allowedOrigins []string, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager: wsManager,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log: log,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		set[origin] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// HandleWebSocket streams the session's toasts.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	sessionID := middleware.SessionID(c)
	if sessionID == "" {
		return fail(c, errors.Unauthorized("Authentication required", nil))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "session", sessionID, "error", err)
		return nil
	}

	h.wsManager.Attach(sessionID, conn)
	return nil
}
