package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"expirytracker/internal/model"
	"expirytracker/internal/repository"
)

// PreferencesUpdate is a partial update; nil fields keep their current value.
type PreferencesUpdate struct {
	Notify30Days  *bool `json:"notify_30_days"`
	Notify7Days   *bool `json:"notify_7_days"`
	Notify1Day    *bool `json:"notify_1_day"`
	NotifyExpired *bool `json:"notify_expired"`
}

// PreferenceService reads and updates reminder preferences.
type PreferenceService interface {
	// Get returns the stored preferences or the all-enabled defaults.
	Get(ctx context.Context, userID string) (*model.Preferences, error)

	// Update merges in onto the current preferences and stores the result.
	Update(ctx context.Context, userID string, in PreferencesUpdate) (*model.Preferences, error)
}

type preferenceService struct {
	repo repository.PreferenceRepository
	now  func() time.Time
}

func NewPreferenceService(repo repository.PreferenceRepository) PreferenceService {
	return &preferenceService{repo: repo, now: time.Now}
}

func (s *preferenceService) Get(ctx context.Context, userID string) (*model.Preferences, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			def := model.DefaultPreferences(userID)
			return &def, nil
		}
		return nil, err
	}
	return p, nil
}

func (s *preferenceService) Update(ctx context.Context, userID string, in PreferencesUpdate) (*model.Preferences, error) {
	cur, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := *cur
	merge(&next.Notify30Days, in.Notify30Days)
	merge(&next.Notify7Days, in.Notify7Days)
	merge(&next.Notify1Day, in.Notify1Day)
	merge(&next.NotifyExpired, in.NotifyExpired)
	next.UpdatedAt = s.now().UTC()

	return s.repo.Upsert(ctx, &next)
}

func merge(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
