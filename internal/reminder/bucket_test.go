package reminder

import (
	"encoding/json"
	"testing"
	"time"

	"expirytracker/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestBucketFor(t *testing.T) {
	tests := []struct {
		days   int
		want   Bucket
		wantOK bool
	}{
		{-400, BucketExpired, true},
		{-1, BucketExpired, true},
		{0, BucketExpired, true},
		{1, Bucket1Day, true},
		{2, 0, false},
		{6, 0, false},
		{7, Bucket7Days, true},
		{8, 0, false},
		{15, 0, false},
		{29, 0, false},
		{30, Bucket30Days, true},
		{31, 0, false},
	}

	for _, tt := range tests {
		got, ok := BucketFor(tt.days)
		assert.Equal(t, tt.wantOK, ok, "days=%d", tt.days)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, "days=%d", tt.days)
		}
	}
}

func TestBucket_Enabled(t *testing.T) {
	prefs := model.Preferences{Notify30Days: true, Notify7Days: false, Notify1Day: true, NotifyExpired: false}

	assert.True(t, Bucket30Days.Enabled(prefs))
	assert.False(t, Bucket7Days.Enabled(prefs))
	assert.True(t, Bucket1Day.Enabled(prefs))
	assert.False(t, BucketExpired.Enabled(prefs))
	assert.False(t, Bucket(15).Enabled(model.DefaultPreferences("u")))
}

func TestBucket_Copy(t *testing.T) {
	tests := []struct {
		bucket Bucket
		title  string
		body   string
	}{
		{Bucket30Days, "Expiry Reminder", `Your document "My Passport" expires in 30 days.`},
		{Bucket7Days, "Expiring Soon", `Your document "My Passport" expires in 7 days.`},
		{Bucket1Day, "Expires Tomorrow", `Your document "My Passport" expires tomorrow. Don't forget to renew it!`},
		{BucketExpired, "Document Expired", `Your document "My Passport" has expired and requires immediate attention.`},
	}

	for _, tt := range tests {
		t.Run(tt.bucket.String(), func(t *testing.T) {
			title, body := tt.bucket.Copy("My Passport")
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestBucket_NotificationType(t *testing.T) {
	assert.Equal(t, model.NotificationExpired, BucketExpired.NotificationType())
	assert.Equal(t, model.NotificationExpiring, Bucket1Day.NotificationType())
	assert.Equal(t, model.NotificationExpiring, Bucket30Days.NotificationType())
}

func TestKey_String(t *testing.T) {
	day := time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, "notification_doc-1_30_2025-06-10", NewKey("doc-1", Bucket30Days, day).String())
	assert.Equal(t, "notification_doc-1_expired_2025-06-10", NewKey("doc-1", BucketExpired, day).String())
	assert.NotEqual(t, NewKey("doc-1", Bucket7Days, day).String(), NewKey("doc-1", Bucket7Days, day.Add(time.Hour)).String())
}

func TestNotification_JSONBucket(t *testing.T) {
	b, err := json.Marshal(Notification{DocumentID: "d1", Bucket: BucketExpired})
	assert.NoError(t, err)
	assert.Contains(t, string(b), `"bucket":"expired"`)
}
