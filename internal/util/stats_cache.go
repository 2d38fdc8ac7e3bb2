package util

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyTotalCount  = "notifications:count:total"
	keyUnreadCount = "notifications:count:unread"
)

// StatsCache keeps the total/unread notification counts in Redis so the
// list endpoint does not hit Postgres for every poll.
type StatsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStatsCache(rdb *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached counts. ok is false on a miss; Redis being
// unavailable is treated as a miss so callers fall back to the store.
func (c *StatsCache) Get(ctx context.Context) (total, unread int, ok bool) {
	vals, err := c.rdb.MGet(ctx, keyTotalCount, keyUnreadCount).Result()
	if err != nil || len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return 0, 0, false
	}

	totalStr, ok1 := vals[0].(string)
	unreadStr, ok2 := vals[1].(string)
	if !ok1 || !ok2 {
		return 0, 0, false
	}

	total, err = strconv.Atoi(totalStr)
	if err != nil {
		return 0, 0, false
	}
	unread, err = strconv.Atoi(unreadStr)
	if err != nil {
		return 0, 0, false
	}
	return total, unread, true
}

func (c *StatsCache) Set(ctx context.Context, total, unread int) {
	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, keyTotalCount, total, c.ttl)
	pipe.Set(ctx, keyUnreadCount, unread, c.ttl)
	_, _ = pipe.Exec(ctx)
}

// Invalidate drops both counters. Called after every insert and mark-read.
func (c *StatsCache) Invalidate(ctx context.Context) {
	_ = c.rdb.Del(ctx, keyTotalCount, keyUnreadCount).Err()
}
