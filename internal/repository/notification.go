package repository

import (
	"context"

	"expirytracker/internal/model"
)

// NotificationFilter narrows an inbox listing.
type NotificationFilter string

const (
	FilterAll      NotificationFilter = "all"
	FilterExpiring NotificationFilter = "expiring"
	FilterExpired  NotificationFilter = "expired"
	FilterUnread   NotificationFilter = "unread"
)

// Valid reports whether f is a known filter.
func (f NotificationFilter) Valid() bool {
	switch f {
	case FilterAll, FilterExpiring, FilterExpired, FilterUnread:
		return true
	}
	return false
}

// NotificationRepository persists the in-app inbox.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)

	// ListByUser returns at most limit entries, newest first.
	ListByUser(ctx context.Context, userID string, filter NotificationFilter, limit int) ([]model.Notification, error)

	CountUnread(ctx context.Context, userID string) (int, error)

	// MarkRead returns sql.ErrNoRows when the notification does not belong to the user.
	MarkRead(ctx context.Context, userID, id string) error

	// MarkAllRead returns the number of notifications that changed.
	MarkAllRead(ctx context.Context, userID string) (int64, error)

	Delete(ctx context.Context, userID, id string) error
}
