package entity

import "time"

type NotificationType string

const (
	NotificationMatch   NotificationType = "match"
	NotificationMessage NotificationType = "message"
	NotificationLike    NotificationType = "like"
	NotificationSystem  NotificationType = "system"
)

type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
}

type NotificationSettings struct {
	Matches  bool `json:"matches"`
	Messages bool `json:"messages"`
	Likes    bool `json:"likes"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{Matches: true, Messages: true, Likes: true}
}

// Allows reports whether a notification of type t should be kept under s.
func (s NotificationSettings) Allows(t NotificationType) bool {
	switch t {
	case NotificationMatch:
		return s.Matches
	case NotificationMessage:
		return s.Messages
	case NotificationLike:
		return s.Likes
	default:
		return true
	}
}
