package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RatingCache keeps per-title average review scores in redis so title reads
// skip the AVG aggregate. Cache misses and redis failures fall back to the
// database; failures are logged, never surfaced.
type RatingCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// New connects to redis at addr. An empty addr disables the cache: the
// returned value is usable and every method is a no-op.
func New(addr, password string, ttl time.Duration, log *slog.Logger) (*RatingCache, error) {
	if addr == "" {
		return &RatingCache{ttl: ttl, log: log}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RatingCache{client: rdb, ttl: ttl, log: log}, nil
}

func key(titleID int64) string {
	return fmt.Sprintf("rating:title:%d", titleID)
}

// GetAverage returns the cached average score and whether it was present.
func (c *RatingCache) GetAverage(ctx context.Context, titleID int64) (float64, bool) {
	if c == nil || c.client == nil {
		return 0, false
	}
	val, err := c.client.Get(ctx, key(titleID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("rating cache read failed", "title_id", titleID, "err", err)
		}
		return 0, false
	}
	avg, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return avg, true
}

func (c *RatingCache) SetAverage(ctx context.Context, titleID int64, avg float64) {
	if c == nil || c.client == nil {
		return
	}
	val := strconv.FormatFloat(avg, 'f', -1, 64)
	if err := c.client.Set(ctx, key(titleID), val, c.ttl).Err(); err != nil {
		c.log.Warn("rating cache write failed", "title_id", titleID, "err", err)
	}
}

// Invalidate drops the cached average after a review write.
func (c *RatingCache) Invalidate(ctx context.Context, titleID int64) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key(titleID)).Err(); err != nil {
		c.log.Warn("rating cache invalidation failed", "title_id", titleID, "err", err)
	}
}

// Close releases the redis connection.
func (c *RatingCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
