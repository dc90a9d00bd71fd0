package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/sanadlabs/sanad-backend/internal/logger"
)

// Counters is the atomic increment-and-compare primitive the quota
// ledger uses for hard enforcement. Keys are period-scoped and expire
// shortly after their period ends.
type Counters interface {
	// IncrementAndGet atomically bumps the key and returns the new
	// value, setting the expiry on first touch.
	IncrementAndGet(ctx context.Context, key string, expiry time.Duration) (int64, error)
	// Decrement releases a reservation made by IncrementAndGet.
	Decrement(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (int64, error)
	Close() error
}

type counters struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewCounters(log *logger.Logger) (Counters, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &counters{
		log: log.With("client", "RedisCounters"),
		rdb: rdb,
	}, nil
}

func (c *counters) IncrementAndGet(ctx context.Context, key string, expiry time.Duration) (int64, error) {
	pipe := c.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, expiry)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis incr %s: %w", key, err)
	}
	return incr.Val(), nil
}

func (c *counters) Decrement(ctx context.Context, key string) error {
	if err := c.rdb.Decr(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis decr %s: %w", key, err)
	}
	return nil
}

func (c *counters) Get(ctx context.Context, key string) (int64, error) {
	val, err := c.rdb.Get(ctx, key).Int64()
	if err == goredis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, nil
}

func (c *counters) Close() error {
	return c.rdb.Close()
}
