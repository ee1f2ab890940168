package service

import (
	"context"
	"database/sql"
	"errors"

	"expirytracker/internal/model"
	"expirytracker/internal/repository"
)

// InboxLimit caps every inbox listing.
const InboxLimit = 50

// NotificationService manages the in-app inbox.
type NotificationService interface {
	// List returns notifications newest first. An empty filter means all.
	List(ctx context.Context, userID, filter string, limit int) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID, id string) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) List(ctx context.Context, userID, filter string, limit int) ([]model.Notification, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	f := repository.NotificationFilter(filter)
	if f == "" {
		f = repository.FilterAll
	}
	if !f.Valid() {
		return nil, ErrInvalidFilter
	}
	if limit <= 0 || limit > InboxLimit {
		limit = InboxLimit
	}
	return s.repo.ListByUser(ctx, userID, f, limit)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, ErrUserRequired
	}
	return s.repo.CountUnread(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrUserRequired
	}
	if id == "" {
		return ErrIDRequired
	}
	return notFound(s.repo.MarkRead(ctx, userID, id))
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrUserRequired
	}
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrUserRequired
	}
	if id == "" {
		return ErrIDRequired
	}
	return notFound(s.repo.Delete(ctx, userID, id))
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotificationNotFound
	}
	return err
}
