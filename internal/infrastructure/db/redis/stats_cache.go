package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/landworks/registry-system/internal/core/ports"
)

const statsTTL = time.Minute

// StatsCache is a read-through cache for transaction statistics backed by
// Redis. Entries expire quickly; slightly stale aggregates are acceptable.
// Key format: stats:<from_unix>:<to_unix>
type StatsCache struct {
	client *redis.Client
}

// NewStatsCache creates a StatsCache wrapping the given Redis client.
func NewStatsCache(client *redis.Client) *StatsCache {
	return &StatsCache{client: client}
}

// Get returns the cached statistics for the range, or (nil, nil) on a miss.
func (c *StatsCache) Get(ctx context.Context, from, to time.Time) (*ports.TransactionStats, error) {
	raw, err := c.client.Get(ctx, c.key(from, to)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stats cache get: %w", err)
	}

	var stats ports.TransactionStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("stats cache decode: %w", err)
	}
	return &stats, nil
}

// Set stores the statistics for the range (expires after statsTTL).
func (c *StatsCache) Set(ctx context.Context, from, to time.Time, stats *ports.TransactionStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(from, to), raw, statsTTL).Err()
}

func (c *StatsCache) key(from, to time.Time) string {
	fromKey, toKey := int64(0), int64(0)
	if !from.IsZero() {
		fromKey = from.Unix()
	}
	if !to.IsZero() {
		toKey = to.Unix()
	}
	return fmt.Sprintf("stats:%d:%d", fromKey, toKey)
}
