package entity

import (
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationTypeTask        NotificationType = "task"
	NotificationTypeReward      NotificationType = "reward"
	NotificationTypeAchievement NotificationType = "achievement"
	NotificationTypeSystem      NotificationType = "system"
	NotificationTypeCommunity   NotificationType = "community"
	NotificationTypeInfo        NotificationType = "info"
)

type Notification struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Message   string              `json:"message"`
	Type      NotificationType    `json:"type"`
	Read      bool                `json:"read"`
	Timestamp time.Time           `json:"timestamp"`
	Action    *NotificationAction `json:"action,omitempty"`
}

// NotificationAction is the optional call-to-action attached to a notification.
// OnClick runs in-process and is never serialized.
type NotificationAction struct {
	Label   string `json:"label"`
	OnClick func() `json:"-"`
}

// NotificationInput is what producers hand to the sink; id, read and
// timestamp are assigned on insert.
type NotificationInput struct {
	Title   string              `json:"title" validate:"required,max=120"`
	Message string              `json:"message" validate:"required,max=500"`
	Type    NotificationType    `json:"type" validate:"required,oneof=task reward achievement system community info"`
	Action  *NotificationAction `json:"action,omitempty"`
}

// Age renders the time elapsed since the notification in the short form
// used by the notification center.
func (n Notification) Age(now time.Time) string {
	diff := now.Sub(n.Timestamp)
	mins := int(diff / time.Minute)
	if mins < 1 {
		return "just now"
	}
	if mins < 60 {
		return fmt.Sprintf("%dm ago", mins)
	}
	hours := mins / 60
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}
	days := hours / 24
	if days < 30 {
		return fmt.Sprintf("%dd ago", days)
	}
	return n.Timestamp.Format("2006-01-02")
}
