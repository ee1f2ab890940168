package ledger

import (
	"context"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

const sentMarker = "sent"

// Redis stores ledger keys as plain string values with no TTL. It lets several
// API replicas share one ledger.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis creates a ledger; every key is stored under prefix.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Redis) Put(ctx context.Context, key string) error {
	_, err := r.PutIfAbsent(ctx, key)
	return err
}

// PutIfAbsent uses SETNX, which Redis executes atomically.
func (r *Redis) PutIfAbsent(ctx context.Context, key string) (bool, error) {
	return r.client.SetNX(ctx, r.prefix+key, sentMarker, 0).Result()
}

// Snapshot walks the keyspace with SCAN; the result is sorted and unprefixed.
func (r *Redis) Snapshot(ctx context.Context) ([]string, error) {
	keys := make([]string, 0)
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 500).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), r.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}
