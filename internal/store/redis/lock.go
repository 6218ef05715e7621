package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const lockKeyPrefix = "rewards:sync:lock:"

// Locker serializes sync runs across processes using Redis SET NX leases.
// A lease expires on its own if the holder dies before releasing it.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLocker(url string, ttl time.Duration) (*Locker, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Locker{client: client, ttl: ttl}, nil
}

// Acquire takes the lease for key. Returns false without error when another
// holder already has it.
func (l *Locker) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKeyPrefix+key, "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	return ok, nil
}

func (l *Locker) Release(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, lockKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("release lock %s: %w", key, err)
	}
	return nil
}

func (l *Locker) Close() error {
	return l.client.Close()
}
