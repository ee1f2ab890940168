package postgres

import (
	"context"
	"database/sql"
	"strconv"

	"expirytracker/internal/model"
	"expirytracker/internal/repository"
)

const notificationColumns = `id, user_id, document_id, type, bucket, title, message, action_url, read, read_at, created_at`

// NotificationPostgres is the in-app inbox table.
type NotificationPostgres struct {
	db *sql.DB
}

func NewNotificationPostgres(db *sql.DB) *NotificationPostgres {
	return &NotificationPostgres{db: db}
}

var _ repository.NotificationRepository = (*NotificationPostgres)(nil)

func scanNotification(s scanner) (model.Notification, error) {
	var n model.Notification
	var readAt sql.NullTime
	err := s.Scan(
		&n.ID,
		&n.UserID,
		&n.DocumentID,
		&n.Type,
		&n.Bucket,
		&n.Title,
		&n.Message,
		&n.ActionURL,
		&n.Read,
		&readAt,
		&n.CreatedAt,
	)
	if readAt.Valid {
		t := readAt.Time
		n.ReadAt = &t
	}
	return n, err
}

func (r *NotificationPostgres) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	const q = `
		INSERT INTO notifications (id, user_id, document_id, type, bucket, title, message, action_url, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + notificationColumns
	out, err := scanNotification(r.db.QueryRowContext(ctx, q,
		n.ID,
		n.UserID,
		n.DocumentID,
		n.Type,
		n.Bucket,
		n.Title,
		n.Message,
		n.ActionURL,
		n.Read,
		n.CreatedAt,
	))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByUser applies the inbox filter in SQL; an unknown filter behaves like FilterAll.
func (r *NotificationPostgres) ListByUser(ctx context.Context, userID string, filter repository.NotificationFilter, limit int) ([]model.Notification, error) {
	q := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = $1`
	args := []any{userID}
	switch filter {
	case repository.FilterExpiring, repository.FilterExpired:
		q += ` AND type = $2`
		args = append(args, string(filter))
	case repository.FilterUnread:
		q += ` AND read = FALSE`
	}
	args = append(args, limit)
	q += ` ORDER BY created_at DESC, id DESC LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *NotificationPostgres) CountUnread(ctx context.Context, userID string) (int, error) {
	const q = `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`
	var n int
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *NotificationPostgres) MarkRead(ctx context.Context, userID, id string) error {
	const q = `
		UPDATE notifications
		SET read = TRUE, read_at = COALESCE(read_at, now())
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *NotificationPostgres) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	const q = `UPDATE notifications SET read = TRUE, read_at = now() WHERE user_id = $1 AND read = FALSE`
	res, err := r.db.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *NotificationPostgres) Delete(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM notifications WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
