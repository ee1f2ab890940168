package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"expirytracker/internal/reminder"
	"expirytracker/internal/storage"
)

// ExportURLExpiry is how long a presigned export link stays valid.
const ExportURLExpiry = 15 * time.Minute

// LedgerExport is the JSON document written to object storage.
type LedgerExport struct {
	Day         string    `json:"day"`
	GeneratedAt time.Time `json:"generated_at"`
	Keys        []string  `json:"keys"`
}

// LedgerService exposes the reminder ledger for inspection and archiving.
type LedgerService interface {
	Snapshot(ctx context.Context) ([]string, error)

	// Export writes the full snapshot to ledger/<day>.json, replacing an earlier export of that day.
	Export(ctx context.Context, day time.Time) (storage.ObjectInfo, error)

	// ExportURL returns a presigned download link for the export of day (YYYY-MM-DD).
	ExportURL(ctx context.Context, day string) (string, error)
}

type ledgerService struct {
	ledger reminder.Ledger
	store  storage.Storage
	loc    *time.Location
	log    zerolog.Logger
	now    func() time.Time
}

// NewLedgerService constructs a LedgerService; store may be nil when object storage is not configured.
func NewLedgerService(l reminder.Ledger, store storage.Storage, loc *time.Location, log zerolog.Logger) LedgerService {
	if loc == nil {
		loc = time.UTC
	}
	return &ledgerService{
		ledger: l,
		store:  store,
		loc:    loc,
		log:    log.With().Str("component", "ledger_service").Logger(),
		now:    time.Now,
	}
}

func exportKey(day string) string {
	return "ledger/" + day + ".json"
}

func (s *ledgerService) Snapshot(ctx context.Context) ([]string, error) {
	keys, err := s.ledger.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", reminder.ErrLedgerUnavailable, err)
	}
	return keys, nil
}

func (s *ledgerService) Export(ctx context.Context, day time.Time) (storage.ObjectInfo, error) {
	if s.store == nil {
		return storage.ObjectInfo{}, ErrStorageDisabled
	}
	keys, err := s.Snapshot(ctx)
	if err != nil {
		return storage.ObjectInfo{}, err
	}

	d := day.In(s.loc).Format(time.DateOnly)
	body, err := json.Marshal(LedgerExport{Day: d, GeneratedAt: s.now().UTC(), Keys: keys})
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("encode ledger export: %w", err)
	}

	info, err := s.store.Put(ctx, exportKey(d), bytes.NewReader(body), storage.PutObjectOptions{
		Size:        int64(len(body)),
		ContentType: "application/json",
		Metadata:    map[string]string{"ledger-keys": fmt.Sprint(len(keys))},
	})
	if err != nil {
		return storage.ObjectInfo{}, fmt.Errorf("upload to storage: %w", err)
	}

	s.log.Info().
		Str("event", "ledger_export").
		Str("object_key", info.Key).
		Int("keys", len(keys)).
		Send()
	return info, nil
}

func (s *ledgerService) ExportURL(ctx context.Context, day string) (string, error) {
	if _, err := time.Parse(time.DateOnly, day); err != nil {
		return "", ErrInvalidDay
	}
	if s.store == nil {
		return "", ErrStorageDisabled
	}
	key := exportKey(day)
	if _, err := s.store.Stat(ctx, key); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return "", ErrExportNotFound
		}
		return "", err
	}
	return s.store.PresignGet(ctx, key, ExportURLExpiry)
}
