package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"expirytracker/internal/model"
	"expirytracker/internal/reminder"
	"expirytracker/internal/repository"
)

// Evaluator runs one reminder cycle. *reminder.Engine implements it.
type Evaluator interface {
	Evaluate(ctx context.Context, docs []model.Document, prefs model.Preferences, today time.Time) ([]reminder.Notification, error)
}

// SweepResult summarises a SweepAll run.
type SweepResult struct {
	Users         int `json:"users"`
	Failed        int `json:"failed"`
	Notifications int `json:"notifications"`
}

// ReminderService evaluates reminders for one user or for every user.
type ReminderService interface {
	// EvaluateUser runs a cycle over the user's current documents and preferences.
	EvaluateUser(ctx context.Context, userID string) ([]reminder.Notification, error)

	// SweepAll evaluates every user with documents. Per-user failures are
	// counted and joined into the returned error; other users still run.
	SweepAll(ctx context.Context) (SweepResult, error)
}

type reminderService struct {
	docs        repository.DocumentRepository
	prefs       PreferenceService
	engine      Evaluator
	concurrency int
	log         zerolog.Logger
	now         func() time.Time
}

func NewReminderService(docs repository.DocumentRepository, prefs PreferenceService, engine Evaluator, concurrency int, log zerolog.Logger) ReminderService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &reminderService{
		docs:        docs,
		prefs:       prefs,
		engine:      engine,
		concurrency: concurrency,
		log:         log.With().Str("component", "reminder_service").Logger(),
		now:         time.Now,
	}
}

func (s *reminderService) EvaluateUser(ctx context.Context, userID string) ([]reminder.Notification, error) {
	if userID == "" {
		return nil, ErrUserRequired
	}
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	docs, err := s.docs.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	return s.engine.Evaluate(ctx, docs, *prefs, s.now())
}

func (s *reminderService) SweepAll(ctx context.Context) (SweepResult, error) {
	start := time.Now()
	users, err := s.docs.ListUserIDs(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list users: %w", err)
	}

	var (
		mu   sync.Mutex
		res  = SweepResult{Users: len(users)}
		errs []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, userID := range users {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			sent, err := s.EvaluateUser(gctx, userID)
			mu.Lock()
			defer mu.Unlock()
			res.Notifications += len(sent)
			if err != nil {
				res.Failed++
				errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	err = errors.Join(errs...)

	ev := s.log.Info()
	if err != nil {
		ev = s.log.Warn().Err(err)
	}
	ev.Str("event", "reminder_sweep").
		Int("users", res.Users).
		Int("failed", res.Failed).
		Int("notifications", res.Notifications).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("reminder sweep finished")

	return res, err
}
