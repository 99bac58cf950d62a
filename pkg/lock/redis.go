package lock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when another holder owns the key.
var ErrNotAcquired = errors.New("lock already held")

// Locker hands out short-lived advisory locks.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error)
}

// Release gives the lock back. It is safe to call more than once.
type Release func(ctx context.Context) error

// releaseScript deletes the key only if it still carries our token, so an
// expired lock taken over by someone else is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with SET NX PX and a token check on release.
type RedisLocker struct {
	client *redis.Client
	prefix string
}

// NewRedisLocker builds a locker whose keys live under prefix ("lock" when empty).
func NewRedisLocker(client *redis.Client, prefix string) *RedisLocker {
	prefix = strings.TrimRight(prefix, ":")
	if prefix == "" {
		prefix = "lock"
	}
	return &RedisLocker{client: client, prefix: prefix}
}

func (l *RedisLocker) key(name string) string {
	return l.prefix + ":" + name
}

// Acquire takes key for ttl or returns ErrNotAcquired.
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Release, error) {
	const op = "lock.RedisLocker.Acquire"

	lockKey := l.key(key)
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}

	released := false
	return func(ctx context.Context) error {
		if released {
			return nil
		}
		released = true
		if err := releaseScript.Run(ctx, l.client, []string{lockKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("lock.RedisLocker.Release: %w", err)
		}
		return nil
	}, nil
}
