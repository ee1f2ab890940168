package repository

import (
	"context"

	"expirytracker/internal/model"
)

// PreferenceRepository stores per-user reminder preferences.
type PreferenceRepository interface {
	// Get returns sql.ErrNoRows when the user never saved preferences.
	Get(ctx context.Context, userID string) (*model.Preferences, error)

	// Upsert creates or replaces the user's preferences.
	Upsert(ctx context.Context, p *model.Preferences) (*model.Preferences, error)
}
