package usecase

import (
	"time"

	"greentask/internal/domain/entity"
)

// Notifier is the sink ProfileStore reports transitions to.
type Notifier interface {
	AddNotification(input entity.NotificationInput) entity.Notification
}

// ProfileSeeder materializes the profile of a newly connected wallet.
type ProfileSeeder interface {
	Seed(publicKey string, now time.Time) *entity.UserProfile
}

// Toaster receives every newly added notification for transient display.
type Toaster interface {
	Toast(n entity.Notification)
}

type ToasterFunc func(n entity.Notification)

func (f ToasterFunc) Toast(n entity.Notification) { f(n) }

// SessionTokens issues and verifies the bearer tokens handed to connected
// wallets.
type SessionTokens interface {
	Issue(sessionID, publicKey string) (string, time.Time, error)
	Verify(token string) (string, error)
}

// JobScheduler runs delayed work on behalf of a session.
type JobScheduler interface {
	After(delay time.Duration, owner string, task func()) error
	Cancel(owner string)
}

// ToastPublisher delivers toasts to whoever is watching a session.
type ToastPublisher interface {
	Publish(sessionID string, n entity.Notification)
	Close(sessionID string)
}
