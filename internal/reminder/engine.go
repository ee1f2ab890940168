// Package reminder decides which expiry reminders are due and guarantees that each
// (document, threshold, calendar day) fires at most once.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"expirytracker/internal/expiry"
	"expirytracker/internal/model"
)

// ErrLedgerUnavailable wraps ledger failures. An evaluation cycle that hits it is
// aborted: no reminder is delivered without a successful ledger claim.
var ErrLedgerUnavailable = errors.New("reminder ledger unavailable")

// Notification is a reminder produced by an evaluation cycle.
type Notification struct {
	DocumentID   string    `json:"document_id"`
	UserID       string    `json:"user_id"`
	DocumentName string    `json:"document_name"`
	Bucket       Bucket    `json:"bucket"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

// MarshalText renders the bucket as "30", "7", "1" or "expired".
func (b Bucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Deliverer performs the user-visible delivery of a reminder.
// The engine logs a returned error but never retries it.
type Deliverer interface {
	Deliver(ctx context.Context, n Notification) error
}

// DelivererFunc adapts a function to Deliverer.
type DelivererFunc func(ctx context.Context, n Notification) error

// Deliver calls f(ctx, n).
func (f DelivererFunc) Deliver(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// DefaultDeliveryTimeout bounds a single Deliver call.
const DefaultDeliveryTimeout = 10 * time.Second

// Engine evaluates document snapshots against reminder thresholds.
// It holds no per-user state; every call receives the full snapshot it works on.
type Engine struct {
	ledger          Ledger
	deliverer       Deliverer
	loc             *time.Location
	log             zerolog.Logger
	metrics         *Metrics
	tracer          trace.Tracer
	now             func() time.Time
	deliveryTimeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithDeliveryTimeout sets the deadline given to each Deliver call. A delivery that
// outlives it counts as failed. Non-positive values keep DefaultDeliveryTimeout.
func WithDeliveryTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.deliveryTimeout = d
		}
	}
}

// NewEngine constructs an Engine. loc defines calendar days; metrics may be nil.
func NewEngine(ledger Ledger, deliverer Deliverer, loc *time.Location, log zerolog.Logger, metrics *Metrics, opts ...Option) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	e := &Engine{
		ledger:          ledger,
		deliverer:       deliverer,
		loc:             loc,
		log:             log.With().Str("component", "reminder").Logger(),
		metrics:         metrics,
		tracer:          otel.Tracer("expirytracker/reminder"),
		now:             time.Now,
		deliveryTimeout: DefaultDeliveryTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Location returns the location that defines calendar days for this engine.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Evaluate runs one reminder cycle over documents, in the order given.
//
// Documents with an unparseable expiry date are skipped. For every document whose
// days remaining equals a threshold enabled in prefs, the ledger key for today is
// claimed atomically; only the claimant builds and delivers the reminder. The claim
// stands whether or not delivery succeeds. A ledger error aborts the cycle and is
// returned together with the reminders already delivered.
//
// Once started the cycle runs to completion: cancellation of ctx is not propagated
// to the ledger or the deliverer. Each delivery still gets its own deadline.
func (e *Engine) Evaluate(ctx context.Context, documents []model.Document, prefs model.Preferences, today time.Time) ([]Notification, error) {
	start := time.Now()
	ctx = context.WithoutCancel(ctx)
	ctx, span := e.tracer.Start(ctx, "reminder.Evaluate", trace.WithAttributes(
		attribute.String("user_id", prefs.UserID),
		attribute.Int("documents", len(documents)),
	))
	defer span.End()

	today = expiry.Midnight(today.In(e.loc), e.loc)

	var out []Notification
	for _, doc := range documents {
		n, ok, err := e.evaluateDocument(ctx, doc, prefs, today)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "ledger unavailable")
			e.metrics.observeEvaluation("ledger_error", time.Since(start).Seconds())
			e.log.Error().
				Err(err).
				Str("event", "reminder_evaluation_failed").
				Str("status", "error").
				Str("document_id", doc.ID).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Msg("ledger unavailable, aborting reminder cycle")
			return out, err
		}
		if ok {
			out = append(out, n)
		}
	}

	span.SetAttributes(attribute.Int("notifications", len(out)))
	e.metrics.observeEvaluation("success", time.Since(start).Seconds())
	e.log.Debug().
		Str("event", "reminder_evaluation").
		Str("status", "success").
		Str("user_id", prefs.UserID).
		Int("documents", len(documents)).
		Int("notifications", len(out)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("reminder cycle complete")
	return out, nil
}

func (e *Engine) evaluateDocument(ctx context.Context, doc model.Document, prefs model.Preferences, today time.Time) (Notification, bool, error) {
	exp, err := expiry.ParseDate(doc.ExpiryDate, e.loc)
	if err != nil {
		e.log.Debug().
			Str("event", "reminder_skip_invalid_date").
			Str("document_id", doc.ID).
			Str("expiry_date", doc.ExpiryDate).
			Msg("skipping document with unparseable expiry date")
		return Notification{}, false, nil
	}

	bucket, ok := BucketFor(expiry.DaysRemaining(exp, today))
	if !ok || !bucket.Enabled(prefs) {
		return Notification{}, false, nil
	}

	key := NewKey(doc.ID, bucket, today).String()
	claimed, err := e.ledger.PutIfAbsent(ctx, key)
	if err != nil {
		return Notification{}, false, fmt.Errorf("%w: claim %s: %w", ErrLedgerUnavailable, key, err)
	}
	if !claimed {
		return Notification{}, false, nil
	}

	title, body := bucket.Copy(doc.Name)
	n := Notification{
		DocumentID:   doc.ID,
		UserID:       doc.UserID,
		DocumentName: doc.Name,
		Bucket:       bucket,
		Title:        title,
		Body:         body,
		CreatedAt:    e.now().In(e.loc),
	}

	e.metrics.observeFired(bucket)
	if err := e.deliver(ctx, n); err != nil {
		e.metrics.observeDeliveryFailure(bucket)
		e.log.Warn().
			Err(err).
			Str("event", "reminder_delivery_failed").
			Str("status", "error").
			Str("document_id", doc.ID).
			Str("user_id", doc.UserID).
			Str("bucket", bucket.String()).
			Str("ledger_key", key).
			Msg("reminder delivery failed; not retried today")
		return n, true, nil
	}

	e.log.Info().
		Str("event", "reminder_sent").
		Str("status", "success").
		Str("document_id", doc.ID).
		Str("user_id", doc.UserID).
		Str("bucket", bucket.String()).
		Str("ledger_key", key).
		Msg("reminder delivered")
	return n, true, nil
}

func (e *Engine) deliver(ctx context.Context, n Notification) error {
	ctx, cancel := context.WithTimeout(ctx, e.deliveryTimeout)
	defer cancel()
	return e.deliverer.Deliver(ctx, n)
}
