package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"

	"expirytracker/internal/config"
	"expirytracker/internal/reminder"
)

// ErrUnknownDriver is returned by Open for an unsupported LEDGER_DRIVER value.
var ErrUnknownDriver = errors.New("unknown ledger driver")

var (
	_ reminder.Ledger = (*Memory)(nil)
	_ reminder.Ledger = (*SQLite)(nil)
	_ reminder.Ledger = (*Postgres)(nil)
	_ reminder.Ledger = (*Redis)(nil)
)

// Open builds the ledger selected by cfg.Driver. pg and rdb are only consulted
// by the postgres and redis drivers. The returned io.Closer releases resources
// owned by the ledger itself and is never nil.
func Open(_ context.Context, cfg config.LedgerConfig, pg *sql.DB, rdb redis.UniversalClient) (reminder.Ledger, io.Closer, error) {
	switch cfg.Driver {
	case "", "sqlite":
		l, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return l, l, nil
	case "postgres":
		if pg == nil {
			return nil, nil, errors.New("postgres ledger requires a database connection")
		}
		return NewPostgres(pg), nopCloser{}, nil
	case "redis":
		if rdb == nil {
			return nil, nil, errors.New("redis ledger requires REDIS_URL")
		}
		return NewRedis(rdb, cfg.KeyPrefix), nopCloser{}, nil
	case "memory":
		return NewMemory(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

const healthKey = "health_check"

// Check reports whether l answers a lookup. Every driver serves Has from its
// backing store, so a failure here means the next reminder cycle would abort.
func Check(ctx context.Context, l reminder.Ledger) error {
	if _, err := l.Has(ctx, healthKey); err != nil {
		return fmt.Errorf("%w: %w", reminder.ErrLedgerUnavailable, err)
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
