package model

import "time"

// Notification types shown in the in-app inbox.
const (
	NotificationExpiring = "expiring"
	NotificationExpired  = "expired"
)

// Notification is an in-app inbox entry created when a reminder fires.
type Notification struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	DocumentID string     `json:"document_id"`
	Type       string     `json:"type"`
	Bucket     string     `json:"bucket"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	ActionURL  string     `json:"action_url,omitempty"`
	Read       bool       `json:"read"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
