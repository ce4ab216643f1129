// Package runlock keeps two publish cycles from running at the same time
// across processes.
package runlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrHeld is returned by Acquire when another holder owns the lock.
var ErrHeld = errors.New("run lock is held by another process")

// Locker hands out a lock for one named resource.
type Locker interface {
	// Acquire takes the lock or returns ErrHeld. The returned func releases it.
	Acquire(ctx context.Context) (release func(context.Context) error, err error)
}

// Noop always succeeds. Used when no shared lock store is configured.
type Noop struct{}

func (Noop) Acquire(context.Context) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock is a SET NX lock with a TTL so a crashed holder cannot block forever.
type RedisLock struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewRedis(rdb *redis.Client, key string, ttl time.Duration) *RedisLock {
	return &RedisLock{rdb: rdb, key: key, ttl: ttl}
}

func (l *RedisLock) Acquire(ctx context.Context) (func(context.Context) error, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", l.key, err)
	}
	if !ok {
		return nil, ErrHeld
	}
	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.rdb, []string{l.key}, token).Err(); err != nil {
			return fmt.Errorf("release lock %s: %w", l.key, err)
		}
		return nil
	}
	return release, nil
}
