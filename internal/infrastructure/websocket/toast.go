package websocket

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"greentask/internal/domain/entity"
)

// Toast is the transient popup shown once when a notification arrives.
type Toast struct {
	NotificationID string                  `json:"notificationId"`
	Title          string                  `json:"title"`
	Message        string                  `json:"message"`
	Type           entity.NotificationType `json:"type"`
	Label          string                  `json:"label"`
	Variant        string                  `json:"variant"`
	ActionLabel    string                  `json:"actionLabel,omitempty"`
}

var titleCaser = cases.Title(language.English)

func NewToast(n entity.Notification) Toast {
	t := Toast{
		NotificationID: n.ID,
		Title:          n.Title,
		Message:        n.Message,
		Type:           n.Type,
		Label:          titleCaser.String(string(n.Type)),
		Variant:        variant(n.Type),
	}
	if n.Action != nil {
		t.ActionLabel = n.Action.Label
	}
	return t
}

func variant(t entity.NotificationType) string {
	switch t {
	case entity.NotificationTypeAchievement:
		return "purple"
	case entity.NotificationTypeReward:
		return "eco"
	case entity.NotificationTypeCommunity:
		return "info"
	default:
		return "default"
	}
}
