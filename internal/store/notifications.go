package store

import (
	"context"
	"fmt"

	"github.com/erazemk/izposoja/internal/model"
)

// CreateNotification persists a notification for its recipient.
func (s *Store) CreateNotification(ctx context.Context, e model.Event) (*model.Notification, error) {
	n := &model.Notification{
		ID:        newID(),
		UserID:    e.UserID,
		Type:      e.Type,
		Title:     e.Title,
		Message:   e.Message,
		RelatedID: e.RelatedID,
		CreatedAt: s.now(),
	}
	_, err := s.ext.ExecContext(ctx,
		`INSERT INTO notifications (id, user_id, type, title, message, related_id, is_read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.RelatedID, n.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}
	return n, nil
}

// ListNotifications returns a user's notifications, newest first.
func (s *Store) ListNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	notifications := []model.Notification{}
	err := s.selectAll(ctx, &notifications,
		`SELECT id, user_id, type, title, message, related_id, is_read, created_at
		 FROM notifications WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return notifications, nil
}

// UnreadCount returns how many of a user's notifications are unread.
func (s *Store) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.scalar(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`, userID,
	)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}

// MarkNotificationRead marks one notification read. It reports false when
// the notification does not exist or belongs to another user.
func (s *Store) MarkNotificationRead(ctx context.Context, id, userID string) (bool, error) {
	ok, err := s.affected(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("marking notification read: %w", err)
	}
	return ok, nil
}

// MarkAllNotificationsRead marks every notification of a user read.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	_, err := s.ext.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`, userID,
	)
	if err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}
	return nil
}
