package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const streakTTL = 36 * time.Hour

// StreakCache keeps the computed streak of a user per calendar day in a
// Redis hash. A check-in drops the whole hash for the user and stores the
// fresh value of its day.
type StreakCache struct {
	rdb *redis.Client
}

// NewStreakCache creates a cache on top of rdb. A nil client yields a cache
// that never hits.
func NewStreakCache(rdb *redis.Client) *StreakCache {
	return &StreakCache{rdb: rdb}
}

func streakKey(userID uint) string {
	return fmt.Sprintf("lbe:streak:%d", userID)
}

// Get returns the cached streak for (userID, day) and whether it was found.
func (c *StreakCache) Get(ctx context.Context, userID uint, day string) (int, bool, error) {
	if c == nil || c.rdb == nil {
		return 0, false, nil
	}
	raw, err := c.rdb.HGet(ctx, streakKey(userID), day).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, nil
	}
	return v, true, nil
}

// Set stores the streak for (userID, day).
func (c *StreakCache) Set(ctx context.Context, userID uint, day string, streak int) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	key := streakKey(userID)
	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, key, day, streak)
	pipe.Expire(ctx, key, streakTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// SetIfAbsent stores the streak for (userID, day) unless a value is already
// cached. Readers use it so a value computed from an older day list never
// replaces the one written by a check-in.
func (c *StreakCache) SetIfAbsent(ctx context.Context, userID uint, day string, streak int) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	key := streakKey(userID)
	pipe := c.rdb.TxPipeline()
	pipe.HSetNX(ctx, key, day, streak)
	pipe.Expire(ctx, key, streakTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Invalidate removes every cached streak of userID.
func (c *StreakCache) Invalidate(ctx context.Context, userID uint) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, streakKey(userID)).Err()
}
