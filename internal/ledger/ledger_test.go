package ledger

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"expirytracker/internal/config"
	"expirytracker/internal/reminder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ledgerSuite checks the behaviour every backend must share.
type ledgerSuite struct {
	suite.Suite
	open   func(t *testing.T) reminder.Ledger
	ledger reminder.Ledger
}

func (s *ledgerSuite) SetupTest() {
	s.ledger = s.open(s.T())
}

func (s *ledgerSuite) TestPutThenHas() {
	ctx := context.Background()

	ok, err := s.ledger.Has(ctx, "notification_d1_30_2025-06-10")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.ledger.Put(ctx, "notification_d1_30_2025-06-10"))

	ok, err = s.ledger.Has(ctx, "notification_d1_30_2025-06-10")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.ledger.Has(ctx, "notification_d1_30_2025-06-11")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ledgerSuite) TestPutIsIdempotent() {
	ctx := context.Background()

	s.Require().NoError(s.ledger.Put(ctx, "k"))
	s.Require().NoError(s.ledger.Put(ctx, "k"))

	keys, err := s.ledger.Snapshot(ctx)
	s.Require().NoError(err)
	s.Equal([]string{"k"}, keys)
}

func (s *ledgerSuite) TestPutIfAbsent() {
	ctx := context.Background()

	created, err := s.ledger.PutIfAbsent(ctx, "k")
	s.Require().NoError(err)
	s.True(created)

	created, err = s.ledger.PutIfAbsent(ctx, "k")
	s.Require().NoError(err)
	s.False(created)
}

func (s *ledgerSuite) TestPutIfAbsentConcurrent() {
	ctx := context.Background()
	var wins atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := s.ledger.PutIfAbsent(ctx, "notification_d1_7_2025-06-10")
			if s.NoError(err) && created {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load())
}

func (s *ledgerSuite) TestSnapshotSorted() {
	ctx := context.Background()

	keys, err := s.ledger.Snapshot(ctx)
	s.Require().NoError(err)
	s.Empty(keys)

	for _, k := range []string{"notification_b_1_2025-06-10", "notification_a_expired_2025-06-10", "notification_a_30_2025-06-10"} {
		s.Require().NoError(s.ledger.Put(ctx, k))
	}

	keys, err = s.ledger.Snapshot(ctx)
	s.Require().NoError(err)
	s.Equal([]string{
		"notification_a_30_2025-06-10",
		"notification_a_expired_2025-06-10",
		"notification_b_1_2025-06-10",
	}, keys)
}

func TestMemoryLedger(t *testing.T) {
	suite.Run(t, &ledgerSuite{open: func(*testing.T) reminder.Ledger { return NewMemory() }})
}

func TestSQLiteLedger(t *testing.T) {
	suite.Run(t, &ledgerSuite{open: func(t *testing.T) reminder.Ledger {
		l, err := OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = l.Close() })
		return l
	}})
}

func TestSQLiteLedger_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	l, err := OpenSQLite(path)
	require.NoError(t, err)
	created, err := l.PutIfAbsent(ctx, "notification_d1_30_2025-06-10")
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, l.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	ok, err := reopened.Has(ctx, "notification_d1_30_2025-06-10")
	require.NoError(t, err)
	assert.True(t, ok)

	created, err = reopened.PutIfAbsent(ctx, "notification_d1_30_2025-06-10")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	l, closer, err := Open(ctx, config.LedgerConfig{Driver: "memory"}, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, l)
	assert.NoError(t, closer.Close())

	l, closer, err = Open(ctx, config.LedgerConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "l.db")}, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, l)
	assert.NoError(t, closer.Close())

	_, _, err = Open(ctx, config.LedgerConfig{Driver: "postgres"}, nil, nil)
	assert.Error(t, err)

	_, _, err = Open(ctx, config.LedgerConfig{Driver: "redis"}, nil, nil)
	assert.Error(t, err)

	_, _, err = Open(ctx, config.LedgerConfig{Driver: "etcd"}, nil, nil)
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestCheck(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, Check(ctx, NewMemory()))

	l, err := OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	require.NoError(t, Check(ctx, l))
	require.NoError(t, l.Close())

	err = Check(ctx, l)
	require.Error(t, err)
	assert.ErrorIs(t, err, reminder.ErrLedgerUnavailable)
}
