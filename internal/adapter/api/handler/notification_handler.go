package handler

import (
	"fmt"
	"math"
	"time"

	"github.com/labstack/echo/v4"

	"greentask/internal/adapter/api/middleware"
	"greentask/internal/domain/entity"
	"greentask/internal/infrastructure/ratelimit"
	"greentask/internal/usecase"
	"greentask/pkg/errors"
	"greentask/pkg/response"
	"greentask/pkg/utils"
)

type NotificationHandler struct {
	sessionUseCase *usecase.SessionUseCase
	limiter        *ratelimit.RateLimiter
	now            func() time.Time
}

func NewNotificationHandler(sessionUseCase *usecase.SessionUseCase, limiter *ratelimit.RateLimiter) *NotificationHandler {
	return &NotificationHandler{
		sessionUseCase: sessionUseCase,
		limiter:        limiter,
		now:            time.Now,
	}
}

type notificationView struct {
	entity.Notification
	Age string `json:"age"`
}

type notificationListResponse struct {
	Notifications []notificationView `json:"notifications"`
	UnreadCount   int                `json:"unreadCount"`
	Total         int                `json:"total"`
}

// notificationPageResponse is one page of the list; items holds the
// notifications.
type notificationPageResponse struct {
	response.PaginatedResponse
	UnreadCount int `json:"unreadCount"`
}

func (h *NotificationHandler) views(list []entity.Notification) []notificationView {
	now := h.now()
	out := make([]notificationView, len(list))
	for i, n := range list {
		out[i] = notificationView{Notification: n, Age: n.Age(now)}
	}
	return out
}

func (h *NotificationHandler) respond(c echo.Context, fn func(sink *usecase.NotificationSink) error) error {
	var snap usecase.NotificationSnapshot
	err := withSession(c, h.sessionUseCase, func(s *usecase.Session) error {
		if err := fn(s.Notifications); err != nil {
			return err
		}
		snap = s.Notifications.Snapshot()
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, notificationListResponse{
		Notifications: h.views(snap.Notifications),
		UnreadCount:   snap.UnreadCount,
		Total:         len(snap.Notifications),
	})
}

// List returns the whole list unless page or limit is given.
func (h *NotificationHandler) List(c echo.Context) error {
	params, paged := utils.GetPaginationParams(c)
	if !paged {
		return h.respond(c, func(*usecase.NotificationSink) error { return nil })
	}

	var resp notificationPageResponse
	err := withSession(c, h.sessionUseCase, func(s *usecase.Session) error {
		page, total := s.Notifications.Page(params)
		resp = notificationPageResponse{
			PaginatedResponse: response.NewPage(h.views(page), int64(total), params.Page, params.PageSize),
			UnreadCount:       s.Notifications.UnreadCount(),
		}
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, resp)
}

type addNotificationRequest struct {
	Title       string                  `json:"title" validate:"required,max=120"`
	Message     string                  `json:"message" validate:"required,max=500"`
	Type        entity.NotificationType `json:"type" validate:"required,oneof=task reward achievement system community info"`
	ActionLabel string                  `json:"actionLabel" validate:"max=40"`
}

func (h *NotificationHandler) Add(c echo.Context) error {
	var req addNotificationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return fail(c, err)
	}
	if h.limiter != nil {
		if ok, wait := h.limiter.Allow(middleware.SessionID(c), ratelimit.ActionNotify); !ok {
			seconds := int(math.Ceil(wait.Seconds()))
			return fail(c, errors.TooManyRequests(fmt.Sprintf("Too many notifications, retry in %ds", seconds)))
		}
	}

	input := entity.NotificationInput{Title: req.Title, Message: req.Message, Type: req.Type}
	if req.ActionLabel != "" {
		input.Action = &entity.NotificationAction{Label: req.ActionLabel}
	}

	var created entity.Notification
	err := withSession(c, h.sessionUseCase, func(s *usecase.Session) error {
		created = s.Notifications.AddNotification(input)
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return response.Created(c, notificationView{Notification: created, Age: created.Age(h.now())})
}

func (h *NotificationHandler) Get(c echo.Context) error {
	id := c.Param("id")
	var found entity.Notification
	err := withSession(c, h.sessionUseCase, func(s *usecase.Session) error {
		n, ok := s.Notifications.Get(id)
		if !ok {
			return errors.NotFound("Notification", nil)
		}
		found = n
		return nil
	})
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, notificationView{Notification: found, Age: found.Age(h.now())})
}

func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	id := c.Param("id")
	return h.respond(c, func(sink *usecase.NotificationSink) error {
		sink.MarkAsRead(id)
		return nil
	})
}

func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	return h.respond(c, func(sink *usecase.NotificationSink) error {
		sink.MarkAllAsRead()
		return nil
	})
}

// Open is a click in the notification center: the notification is marked
// read and its action runs.
func (h *NotificationHandler) Open(c echo.Context) error {
	id := c.Param("id")
	return h.respond(c, func(sink *usecase.NotificationSink) error {
		if !sink.Open(id) {
			return errors.NotFound("Notification", nil)
		}
		return nil
	})
}

func (h *NotificationHandler) Clear(c echo.Context) error {
	id := c.Param("id")
	return h.respond(c, func(sink *usecase.NotificationSink) error {
		sink.ClearNotification(id)
		return nil
	})
}

func (h *NotificationHandler) ClearAll(c echo.Context) error {
	return h.respond(c, func(sink *usecase.NotificationSink) error {
		sink.ClearAllNotifications()
		return nil
	})
}
