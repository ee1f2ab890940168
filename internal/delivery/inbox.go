// Package delivery contains the collaborators that make a fired reminder visible to its user.
package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"expirytracker/internal/model"
	"expirytracker/internal/reminder"
	"expirytracker/internal/repository"
)

// ActionURL is where an inbox entry links to.
const ActionURL = "documents.html"

// Inbox stores each reminder as an unread in-app notification.
type Inbox struct {
	repo  repository.NotificationRepository
	newID func() string
}

func NewInbox(repo repository.NotificationRepository) *Inbox {
	return &Inbox{repo: repo, newID: uuid.NewString}
}

var _ reminder.Deliverer = (*Inbox)(nil)

func (i *Inbox) Deliver(ctx context.Context, n reminder.Notification) error {
	createdAt := n.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := i.repo.Create(ctx, &model.Notification{
		ID:         i.newID(),
		UserID:     n.UserID,
		DocumentID: n.DocumentID,
		Type:       n.Bucket.NotificationType(),
		Bucket:     n.Bucket.String(),
		Title:      n.Title,
		Message:    n.Body,
		ActionURL:  ActionURL,
		CreatedAt:  createdAt,
	})
	if err != nil {
		return fmt.Errorf("store inbox notification: %w", err)
	}
	return nil
}
