package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"expirytracker/internal/model"
	"expirytracker/internal/repository"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var notificationCols = []string{"id", "user_id", "document_id", "type", "bucket", "title", "message", "action_url", "read", "read_at", "created_at"}

func TestNotificationPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	n := &model.Notification{
		ID: "n-1", UserID: "user-1", DocumentID: "doc-1", Type: model.NotificationExpiring, Bucket: "30",
		Title: "Expiry Reminder", Message: "msg", ActionURL: "documents.html", CreatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO notifications").
		WithArgs(n.ID, n.UserID, n.DocumentID, n.Type, n.Bucket, n.Title, n.Message, n.ActionURL, false, now).
		WillReturnRows(sqlmock.NewRows(notificationCols).
			AddRow(n.ID, n.UserID, n.DocumentID, n.Type, n.Bucket, n.Title, n.Message, n.ActionURL, false, nil, now))

	out, err := NewNotificationPostgres(db).Create(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, "n-1", out.ID)
	assert.Nil(t, out.ReadAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationPostgres_ListByUser(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		filter  repository.NotificationFilter
		pattern string
		args    []driver.Value
	}{
		{"all", repository.FilterAll, "WHERE user_id = \\$1 ORDER BY created_at DESC, id DESC LIMIT \\$2", []driver.Value{"user-1", 50}},
		{"expiring", repository.FilterExpiring, "AND type = \\$2 ORDER BY (.+) LIMIT \\$3", []driver.Value{"user-1", "expiring", 50}},
		{"expired", repository.FilterExpired, "AND type = \\$2 ORDER BY (.+) LIMIT \\$3", []driver.Value{"user-1", "expired", 50}},
		{"unread", repository.FilterUnread, "AND read = FALSE ORDER BY (.+) LIMIT \\$2", []driver.Value{"user-1", 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(tt.pattern).
				WithArgs(tt.args...).
				WillReturnRows(sqlmock.NewRows(notificationCols).
					AddRow("n-1", "user-1", "doc-1", "expired", "expired", "Document Expired", "m", "", true, now, now))

			items, err := NewNotificationPostgres(db).ListByUser(context.Background(), "user-1", tt.filter, 50)
			require.NoError(t, err)
			require.Len(t, items, 1)
			require.NotNil(t, items[0].ReadAt)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNotificationPostgres_CountUnread(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM notifications WHERE user_id = \\$1 AND read = FALSE").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := NewNotificationPostgres(db).CountUnread(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestNotificationPostgres_MarkRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewNotificationPostgres(db)
	mock.ExpectExec("UPDATE notifications").WithArgs("n-1", "user-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE notifications").WithArgs("n-2", "user-1").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.MarkRead(context.Background(), "user-1", "n-1"))
	assert.ErrorIs(t, repo.MarkRead(context.Background(), "user-1", "n-2"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationPostgres_MarkAllRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE notifications SET read = TRUE, read_at = now\\(\\) WHERE user_id = \\$1 AND read = FALSE").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewNotificationPostgres(db).MarkAllRead(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestNotificationPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewNotificationPostgres(db)
	mock.ExpectExec("DELETE FROM notifications").WithArgs("n-1", "user-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM notifications").WithArgs("n-1", "user-1").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), "user-1", "n-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "user-1", "n-1"), sql.ErrNoRows)
}
