//go:build integration

package ledger

import (
	"context"
	"testing"

	"expirytracker/internal/reminder"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisLedger(t *testing.T) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	addr, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(addr)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	suite.Run(t, &ledgerSuite{open: func(t *testing.T) reminder.Ledger {
		require.NoError(t, client.FlushAll(ctx).Err())
		return NewRedis(client, "reminder:")
	}})
}

func TestRedisLedger_PrefixIsolation(t *testing.T) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	addr, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(addr)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(ctx, "unrelated", "x", 0).Err())
	l := NewRedis(client, "reminder:")
	require.NoError(t, l.Put(ctx, "notification_d1_1_2025-06-10"))

	keys, err := l.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"notification_d1_1_2025-06-10"}, keys)

	raw, err := client.Get(ctx, "reminder:notification_d1_1_2025-06-10").Result()
	require.NoError(t, err)
	require.Equal(t, "sent", raw)
}
