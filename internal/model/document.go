package model

import "time"

// Document is a personal document tracked for expiry (passport, licence, ...).
// ExpiryDate is kept as the calendar date text supplied by the client; it is
// parsed only where status or reminders are computed.
type Document struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Number     string    `json:"number"`
	IssueDate  string    `json:"issue_date,omitempty"`
	ExpiryDate string    `json:"expiry_date"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
