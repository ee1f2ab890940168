package model

import "time"

// Preferences gate each reminder threshold for a user.
type Preferences struct {
	UserID        string    `json:"user_id"`
	Notify30Days  bool      `json:"notify_30_days"`
	Notify7Days   bool      `json:"notify_7_days"`
	Notify1Day    bool      `json:"notify_1_day"`
	NotifyExpired bool      `json:"notify_expired"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DefaultPreferences returns the all-enabled preferences used when a user has none stored.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:        userID,
		Notify30Days:  true,
		Notify7Days:   true,
		Notify1Day:    true,
		NotifyExpired: true,
	}
}
