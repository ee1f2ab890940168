// Package scheduler runs the periodic reminder sweep.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"expirytracker/internal/service"
)

// Sweeper evaluates every user on a fixed interval and archives the ledger afterwards.
type Sweeper struct {
	reminders service.ReminderService
	ledger    service.LedgerService
	interval  time.Duration
	log       zerolog.Logger
	now       func() time.Time
}

// NewSweeper constructs a Sweeper. ledger may be nil to skip exports.
func NewSweeper(reminders service.ReminderService, ledger service.LedgerService, interval time.Duration, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		reminders: reminders,
		ledger:    ledger,
		interval:  interval,
		log:       log.With().Str("component", "sweeper").Logger(),
		now:       time.Now,
	}
}

// Run sweeps once immediately, then on every tick until ctx is canceled.
func (s *Sweeper) Run(ctx context.Context) error {
	s.log.Info().Str("event", "sweeper_start").Dur("interval", s.interval).Send()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Str("event", "sweeper_stop").Send()
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep followed by a ledger export.
// Failures are logged; the next tick tries again.
func (s *Sweeper) RunOnce(ctx context.Context) {
	res, err := s.reminders.SweepAll(ctx)
	if err != nil {
		s.log.Error().
			Err(err).
			Str("event", "sweep_failed").
			Int("users", res.Users).
			Int("failed", res.Failed).
			Send()
	}

	if s.ledger == nil || ctx.Err() != nil {
		return
	}
	if _, err := s.ledger.Export(ctx, s.now()); err != nil && !errors.Is(err, service.ErrStorageDisabled) {
		s.log.Error().Err(err).Str("event", "ledger_export_failed").Send()
	}
}
