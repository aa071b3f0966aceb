package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"greentask/internal/domain/entity"
	"greentask/pkg/errors"
	"greentask/pkg/response"
)

const (
	ContextSessionID = "sessionId"
	ContextPublicKey = "publicKey"
)

// SessionAuthenticator resolves a bearer token to the session it was
// issued for.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*entity.Session, error)
}

type AuthMiddleware struct {
	sessions SessionAuthenticator
}

func NewAuthMiddleware(sessions SessionAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
	}
}

// Authenticate requires an "Authorization: Bearer <token>" header.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
		}

		return m.authenticate(c, parts[1], next)
	}
}

// AuthenticateQuery accepts the token from the "token" query parameter,
// since browsers cannot set headers on a WebSocket handshake.
func (m *AuthMiddleware) AuthenticateQuery(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := c.QueryParam("token")
		if token == "" {
			return m.Authenticate(next)(c)
		}
		return m.authenticate(c, token, next)
	}
}

func (m *AuthMiddleware) authenticate(c echo.Context, token string, next echo.HandlerFunc) error {
	session, err := m.sessions.Authenticate(c.Request().Context(), token)
	if err != nil {
		return response.Error(c, err)
	}

	c.Set(ContextSessionID, session.ID)
	c.Set(ContextPublicKey, session.PublicKey)
	return next(c)
}

// SessionID returns the session set by Authenticate, or "".
func SessionID(c echo.Context) string {
	id, _ := c.Get(ContextSessionID).(string)
	return id
}
