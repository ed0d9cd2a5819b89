package model

import "time"

// NotificationType identifies the lifecycle event a notification reports.
type NotificationType string

// Notification types.
const (
	NotifyRequestReceived NotificationType = "request_received"
	NotifyRequestApproved NotificationType = "request_approved"
	NotifyRequestDeclined NotificationType = "request_declined"
	NotifyItemReturned    NotificationType = "item_returned"
	NotifyRatingReceived  NotificationType = "rating_received"
	NotifyMessageReceived NotificationType = "message_received"
)

// Notification is a persisted, user-facing record of a lifecycle event.
type Notification struct {
	ID        string           `json:"id" db:"id"`
	UserID    string           `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	RelatedID string           `json:"related_id,omitempty" db:"related_id"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// Event is a notification-worthy fact produced by a lifecycle transition.
type Event struct {
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	RelatedID string           `json:"related_id,omitempty"`
}
