// Package notify turns lifecycle events into persisted notifications.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/erazemk/izposoja/internal/apperr"
	"github.com/erazemk/izposoja/internal/events"
	"github.com/erazemk/izposoja/internal/model"
)

// Store is the notification persistence the dispatcher needs.
type Store interface {
	CreateNotification(ctx context.Context, e model.Event) (*model.Notification, error)
	ListNotifications(ctx context.Context, userID string) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkNotificationRead(ctx context.Context, id, userID string) (bool, error)
	MarkAllNotificationsRead(ctx context.Context, userID string) error
}

// Dispatcher persists each event once and forwards it to a publisher.
// Delivery is best effort. Failures are logged and never returned, so a
// committed transition is never undone by a notification problem.
type Dispatcher struct {
	store     Store
	publisher events.Publisher
	logger    *zap.Logger
}

// New returns a Dispatcher. A nil publisher disables publishing.
func New(store Store, publisher events.Publisher, logger *zap.Logger) *Dispatcher {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Dispatcher{store: store, publisher: publisher, logger: logger}
}

// Dispatch delivers events in order. Each event is attempted exactly once.
func (d *Dispatcher) Dispatch(ctx context.Context, evs ...model.Event) {
	for _, e := range evs {
		log := d.logger.With(
			zap.String("type", string(e.Type)),
			zap.String("user_id", e.UserID),
			zap.String("related_id", e.RelatedID),
		)

		if _, err := d.store.CreateNotification(ctx, e); err != nil {
			log.Error("storing notification", zap.Error(err))
			continue
		}

		if err := d.publisher.Publish(ctx, e); err != nil {
			log.Warn("publishing notification event", zap.Error(err))
		}
	}
}

// List returns a user's notifications, newest first.
func (d *Dispatcher) List(ctx context.Context, userID string) ([]model.Notification, error) {
	return d.store.ListNotifications(ctx, userID)
}

// UnreadCount returns the number of unread notifications of a user.
func (d *Dispatcher) UnreadCount(ctx context.Context, userID string) (int, error) {
	return d.store.UnreadCount(ctx, userID)
}

// MarkRead marks a notification read for its recipient. Notifications of
// other users are reported as not found.
func (d *Dispatcher) MarkRead(ctx context.Context, userID, id string) error {
	ok, err := d.store.MarkNotificationRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("notification not found")
	}
	return nil
}

// MarkAllRead marks every notification of a user read.
func (d *Dispatcher) MarkAllRead(ctx context.Context, userID string) error {
	return d.store.MarkAllNotificationsRead(ctx, userID)
}
