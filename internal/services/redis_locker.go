package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cart-discount-service/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	lockKeyPrefix     = "cart-lock:"
	lockRetryInterval = 25 * time.Millisecond
)

// releaseScript deletes the lock only while it still holds our token, so an
// expired lock taken over by another instance is left alone
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// RedisLocker serializes cart mutations across service instances
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	logger *zap.Logger
}

// NewRedisLocker creates a locker whose locks expire after ttl and whose
// acquisition gives up after wait
func NewRedisLocker(client *redis.Client, ttl, wait time.Duration, logger *zap.Logger) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl, wait: wait, logger: logger}
}

// Lock acquires the cart's lock, retrying until the wait elapses or ctx ends
func (l *RedisLocker) Lock(ctx context.Context, cartID int) (func(), error) {
	key := fmt.Sprintf("%s%d", lockKeyPrefix, cartID)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock for cart %d: %w", cartID, err)
		}
		if acquired {
			var once sync.Once
			return func() { once.Do(func() { l.release(key, token) }) }, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: cart %d", models.ErrCartBusy, cartID)
		}

		timer := time.NewTimer(lockRetryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, fmt.Errorf("%w: cart %d: %v", models.ErrCartBusy, cartID, ctx.Err())
		case <-timer.C:
		}
	}
}

func (l *RedisLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		l.logger.Warn("failed to release cart lock", zap.String("key", key), zap.Error(err))
	}
}
