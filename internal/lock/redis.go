package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Locker serializes the conflict-check-then-insert sequence for a single
// room and date across concurrent requests and server instances.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// IdempotencyStore remembers which reservation a client-supplied
// Idempotency-Key produced, so retried requests do not double-book.
type IdempotencyStore interface {
	Remember(ctx context.Context, key, reservationID string, ttl time.Duration) error
	Recall(ctx context.Context, key string) (string, bool, error)
}

// RoomKey builds the lock key guarding one room on one calendar date.
func RoomKey(roomID, date string) string {
	return fmt.Sprintf("room:%s:%s", roomID, date)
}

type RedisLock struct {
	client *redis.Client
}

func NewRedisLock(redisAddr string) (*RedisLock, error) {
	const op = "lock.NewRedisLock"

	client := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &RedisLock{client: client}, nil
}

func (r *RedisLock) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	const op = "lock.RedisLock.Lock"

	lockKey := fmt.Sprintf("lock:%s", key)
	result, err := r.client.SetNX(ctx, lockKey, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (r *RedisLock) Unlock(ctx context.Context, key string) error {
	const op = "lock.RedisLock.Unlock"

	lockKey := fmt.Sprintf("lock:%s", key)
	_, err := r.client.Del(ctx, lockKey).Result()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisLock) Remember(ctx context.Context, key, reservationID string, ttl time.Duration) error {
	const op = "lock.RedisLock.Remember"

	idemKey := fmt.Sprintf("idem:%s", key)
	if err := r.client.SetNX(ctx, idemKey, reservationID, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisLock) Recall(ctx context.Context, key string) (string, bool, error) {
	const op = "lock.RedisLock.Recall"

	idemKey := fmt.Sprintf("idem:%s", key)
	id, err := r.client.Get(ctx, idemKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	return id, true, nil
}

func (r *RedisLock) Close() error {
	return r.client.Close()
}
