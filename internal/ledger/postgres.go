package ledger

import (
	"context"
	"database/sql"
)

// Postgres stores the ledger in the reminder_ledger table of the shared
// PostgreSQL database (created by migration.EnsureMigrated).
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a ledger over an existing connection pool.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Has(ctx context.Context, key string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM reminder_ledger WHERE key = $1)`
	var ok bool
	if err := p.db.QueryRowContext(ctx, q, key).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (p *Postgres) Put(ctx context.Context, key string) error {
	_, err := p.PutIfAbsent(ctx, key)
	return err
}

// PutIfAbsent relies on the primary key: only the inserting transaction sees one affected row.
func (p *Postgres) PutIfAbsent(ctx context.Context, key string) (bool, error) {
	const q = `INSERT INTO reminder_ledger (key) VALUES ($1) ON CONFLICT (key) DO NOTHING`
	res, err := p.db.ExecContext(ctx, q, key)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (p *Postgres) Snapshot(ctx context.Context) ([]string, error) {
	return scanKeys(ctx, p.db, `SELECT key FROM reminder_ledger ORDER BY key`)
}
