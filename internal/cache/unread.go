package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss means the counter is not cached; callers fall back to the database.
var ErrMiss = errors.New("unread count not cached")

const (
	unreadKeyPrefix = "notify:unread"
	unreadTTL       = 24 * time.Hour
)

// UnreadCounter keeps per-user unread notification counts in Redis. The
// database stays the source of truth; the counter only short-circuits the
// common read path.
type UnreadCounter struct {
	client *redis.Client
}

// NewUnreadCounter wraps a Redis client. A nil client disables the cache;
// every Get then reports a miss and writes are no-ops.
func NewUnreadCounter(client *redis.Client) *UnreadCounter {
	return &UnreadCounter{client: client}
}

func unreadKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", unreadKeyPrefix, userID)
}

// Get returns the cached unread count, or ErrMiss when absent.
func (c *UnreadCounter) Get(ctx context.Context, userID uint64) (int64, error) {
	if c == nil || c.client == nil {
		return 0, ErrMiss
	}
	val, err := c.client.Get(ctx, unreadKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrMiss
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read unread counter: %w", err)
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrMiss
	}
	return count, nil
}

// Set stores the unread count with a TTL.
func (c *UnreadCounter) Set(ctx context.Context, userID uint64, count int64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, unreadKey(userID), count, unreadTTL).Err()
}

// Incr bumps the unread count if it is cached. An uncached counter stays
// uncached so the next Get repopulates from the database.
func (c *UnreadCounter) Incr(ctx context.Context, userID uint64) error {
	if c == nil || c.client == nil {
		return nil
	}
	key := unreadKey(userID)
	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to check unread counter: %w", err)
	}
	if exists == 0 {
		return nil
	}
	return c.client.Incr(ctx, key).Err()
}

// Clear drops the counter, forcing the next read through the database.
func (c *UnreadCounter) Clear(ctx context.Context, userID uint64) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, unreadKey(userID)).Err()
}
