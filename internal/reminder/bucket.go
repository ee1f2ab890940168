package reminder

import (
	"fmt"

	"expirytracker/internal/model"
)

// Bucket is a reminder threshold. Every non-positive days-remaining value collapses into BucketExpired.
type Bucket int

const (
	BucketExpired Bucket = 0
	Bucket1Day    Bucket = 1
	Bucket7Days   Bucket = 7
	Bucket30Days  Bucket = 30
)

// BucketFor maps days remaining to a bucket using exact matches only.
// 15 days remaining matches nothing; a reminder fires only on the day a threshold is reached.
func BucketFor(daysRemaining int) (Bucket, bool) {
	switch {
	case daysRemaining <= 0:
		return BucketExpired, true
	case daysRemaining == 1:
		return Bucket1Day, true
	case daysRemaining == 7:
		return Bucket7Days, true
	case daysRemaining == 30:
		return Bucket30Days, true
	default:
		return 0, false
	}
}

// String renders the bucket as used in ledger keys and API payloads.
func (b Bucket) String() string {
	if b == BucketExpired {
		return "expired"
	}
	return fmt.Sprintf("%d", int(b))
}

// Enabled reports whether prefs allow reminders for this bucket.
func (b Bucket) Enabled(prefs model.Preferences) bool {
	switch b {
	case BucketExpired:
		return prefs.NotifyExpired
	case Bucket1Day:
		return prefs.Notify1Day
	case Bucket7Days:
		return prefs.Notify7Days
	case Bucket30Days:
		return prefs.Notify30Days
	default:
		return false
	}
}

// NotificationType is the inbox category for the bucket.
func (b Bucket) NotificationType() string {
	if b == BucketExpired {
		return model.NotificationExpired
	}
	return model.NotificationExpiring
}

// Copy returns the notification title and body for a document name.
func (b Bucket) Copy(name string) (title, body string) {
	switch b {
	case BucketExpired:
		return "Document Expired", fmt.Sprintf("Your document \"%s\" has expired and requires immediate attention.", name)
	case Bucket1Day:
		return "Expires Tomorrow", fmt.Sprintf("Your document \"%s\" expires tomorrow. Don't forget to renew it!", name)
	case Bucket7Days:
		return "Expiring Soon", fmt.Sprintf("Your document \"%s\" expires in 7 days.", name)
	case Bucket30Days:
		return "Expiry Reminder", fmt.Sprintf("Your document \"%s\" expires in 30 days.", name)
	default:
		return "", ""
	}
}
