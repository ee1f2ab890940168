package reminder

import (
	"context"
	"time"
)

// DayLayout formats the calendar day component of a ledger key.
const DayLayout = time.DateOnly

// Key identifies one reminder attempt: a document, a threshold and a calendar day.
type Key struct {
	DocumentID string
	Bucket     Bucket
	Day        string
}

// NewKey builds the ledger key for a document and bucket on the calendar day of today.
func NewKey(documentID string, b Bucket, today time.Time) Key {
	return Key{DocumentID: documentID, Bucket: b, Day: today.Format(DayLayout)}
}

// String is the opaque storage key, e.g. "notification_doc-1_30_2025-06-10".
func (k Key) String() string {
	return "notification_" + k.DocumentID + "_" + k.Bucket.String() + "_" + k.Day
}

// Ledger is the durable idempotency store for reminders. Entries are never
// updated or removed. Implementations must be safe for concurrent use and
// PutIfAbsent must be an atomic check-and-set per key.
type Ledger interface {
	// Has reports whether key has been recorded.
	Has(ctx context.Context, key string) (bool, error)
	// Put records key; recording an existing key is a no-op.
	Put(ctx context.Context, key string) error
	// PutIfAbsent records key and reports true only for the caller that created it.
	PutIfAbsent(ctx context.Context, key string) (bool, error)
	// Snapshot returns every recorded key.
	Snapshot(ctx context.Context) ([]string, error)
}
