package usecase

import (
	"time"

	"github.com/google/uuid"

	"greentask/internal/domain/entity"
	"greentask/pkg/utils"
)

type NotificationSnapshot struct {
	Notifications []entity.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unreadCount"`
}

// NotificationSink holds one session's notifications, most recent first.
// It is not safe for concurrent use; callers serialize access per session.
type NotificationSink struct {
	notifications []entity.Notification
	clock         func() time.Time
	newID         func() (string, error)
	toaster       Toaster
	ready         bool
}

type NotificationSinkOption func(*NotificationSink)

func WithNotificationClock(clock func() time.Time) NotificationSinkOption {
	return func(s *NotificationSink) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithNotificationIDGenerator(newID func() (string, error)) NotificationSinkOption {
	return func(s *NotificationSink) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func WithToaster(t Toaster) NotificationSinkOption {
	return func(s *NotificationSink) {
		s.toaster = t
	}
}

func NewNotificationSink(opts ...NotificationSinkOption) *NotificationSink {
	s := &NotificationSink{
		clock: time.Now,
		newID: newTimeOrderedID,
		ready: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newTimeOrderedID returns a UUIDv7, whose leading bits are the creation time.
func newTimeOrderedID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (s *NotificationSink) mustBeReady() {
	if s == nil || !s.ready {
		panic("usecase: NotificationSink used before NewNotificationSink")
	}
}

// AddNotification stores input as a new unread notification at the head of
// the list and hands it to the toaster.
func (s *NotificationSink) AddNotification(input entity.NotificationInput) entity.Notification {
	s.mustBeReady()

	now := s.clock()
	id, err := s.newID()
	if err != nil {
		// uuid.NewV7 only fails when the random source does; fall back to the clock.
		id = now.Format("20060102T150405.000000000")
	}
	n := entity.Notification{
		ID:        id,
		Title:     input.Title,
		Message:   input.Message,
		Type:      input.Type,
		Read:      false,
		Timestamp: now,
		Action:    input.Action,
	}

	s.notifications = append([]entity.Notification{n}, s.notifications...)

	if s.toaster != nil {
		s.toaster.Toast(n)
	}
	return n
}

func (s *NotificationSink) MarkAsRead(id string) {
	s.mustBeReady()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
		}
	}
}

func (s *NotificationSink) MarkAllAsRead() {
	s.mustBeReady()
	for i := range s.notifications {
		s.notifications[i].Read = true
	}
}

func (s *NotificationSink) ClearNotification(id string) {
	s.mustBeReady()
	kept := s.notifications[:0]
	for _, n := range s.notifications {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.notifications = kept
}

func (s *NotificationSink) ClearAllNotifications() {
	s.mustBeReady()
	s.notifications = nil
}

func (s *NotificationSink) UnreadCount() int {
	s.mustBeReady()
	count := 0
	for _, n := range s.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// Open marks the notification read and runs its action, mirroring a click
// in the notification center. It reports whether id was found.
func (s *NotificationSink) Open(id string) bool {
	s.mustBeReady()
	for i := range s.notifications {
		if s.notifications[i].ID != id {
			continue
		}
		s.notifications[i].Read = true
		if action := s.notifications[i].Action; action != nil && action.OnClick != nil {
			action.OnClick()
		}
		return true
	}
	return false
}

func (s *NotificationSink) Get(id string) (entity.Notification, bool) {
	s.mustBeReady()
	for _, n := range s.notifications {
		if n.ID == id {
			return n, true
		}
	}
	return entity.Notification{}, false
}

func (s *NotificationSink) Snapshot() NotificationSnapshot {
	s.mustBeReady()
	list := make([]entity.Notification, len(s.notifications))
	copy(list, s.notifications)
	return NotificationSnapshot{
		Notifications: list,
		UnreadCount:   s.UnreadCount(),
	}
}

// Page returns one page of the list and the total number of notifications.
func (s *NotificationSink) Page(params utils.PaginationParams) ([]entity.Notification, int) {
	s.mustBeReady()
	start, end := params.Window(len(s.notifications))
	page := make([]entity.Notification, end-start)
	copy(page, s.notifications[start:end])
	return page, len(s.notifications)
}
