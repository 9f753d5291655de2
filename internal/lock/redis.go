package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrLockFailed = errors.New("failed to acquire account lock")

// unlockScript deletes the key only while it still holds our token, so a
// lock that expired and was taken over by another owner is left alone.
var unlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// RedisLocker serializes account mutations across processes sharing the
// same database, using SET NX EX keys per username.
type RedisLocker struct {
	client        *redis.Client
	prefix        string
	ttl           time.Duration
	retryInterval time.Duration
	maxRetries    int
	logger        *slog.Logger
}

func NewRedisLocker(client *redis.Client, ttl, retryInterval time.Duration, maxRetries int, logger *slog.Logger) *RedisLocker {
	return &RedisLocker{
		client:        client,
		prefix:        "economy:lock:account:",
		ttl:           ttl,
		retryInterval: retryInterval,
		maxRetries:    maxRetries,
		logger:        logger,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, keys ...string) (Unlock, error) {
	keys = normalize(keys)
	token := uuid.NewString()

	held := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := l.acquire(ctx, l.prefix+key, token); err != nil {
			l.release(held, token)
			return nil, fmt.Errorf("lock %q: %w", key, err)
		}
		held = append(held, l.prefix+key)
	}

	return func() { l.release(held, token) }, nil
}

func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	for i := 0; i < l.maxRetries; i++ {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}
	return ErrLockFailed
}

func (l *RedisLocker) release(keys []string, token string) {
	// Release must succeed even when the caller's context was cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := len(keys) - 1; i >= 0; i-- {
		if err := unlockScript.Run(ctx, l.client, []string{keys[i]}, token).Err(); err != nil {
			l.logger.Error("Failed to release account lock", "key", keys[i], "error", err)
		}
	}
}
