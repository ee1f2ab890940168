package postgres

import (
	"context"
	"database/sql"

	"expirytracker/internal/model"
	"expirytracker/internal/repository"
)

// PreferencePostgres stores reminder preferences in notification_preferences.
type PreferencePostgres struct {
	db *sql.DB
}

func NewPreferencePostgres(db *sql.DB) *PreferencePostgres {
	return &PreferencePostgres{db: db}
}

var _ repository.PreferenceRepository = (*PreferencePostgres)(nil)

func (r *PreferencePostgres) Get(ctx context.Context, userID string) (*model.Preferences, error) {
	const q = `
		SELECT user_id, notify_30_days, notify_7_days, notify_1_day, notify_expired, updated_at
		FROM notification_preferences
		WHERE user_id = $1
	`
	var p model.Preferences
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&p.UserID,
		&p.Notify30Days,
		&p.Notify7Days,
		&p.Notify1Day,
		&p.NotifyExpired,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PreferencePostgres) Upsert(ctx context.Context, p *model.Preferences) (*model.Preferences, error) {
	const q = `
		INSERT INTO notification_preferences (user_id, notify_30_days, notify_7_days, notify_1_day, notify_expired, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			notify_30_days = EXCLUDED.notify_30_days,
			notify_7_days  = EXCLUDED.notify_7_days,
			notify_1_day   = EXCLUDED.notify_1_day,
			notify_expired = EXCLUDED.notify_expired,
			updated_at     = EXCLUDED.updated_at
		RETURNING user_id, notify_30_days, notify_7_days, notify_1_day, notify_expired, updated_at
	`
	var out model.Preferences
	if err := r.db.QueryRowContext(ctx, q,
		p.UserID,
		p.Notify30Days,
		p.Notify7Days,
		p.Notify1Day,
		p.NotifyExpired,
		p.UpdatedAt,
	).Scan(
		&out.UserID,
		&out.Notify30Days,
		&out.Notify7Days,
		&out.Notify1Day,
		&out.NotifyExpired,
		&out.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}
