package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLocked = errors.New("lock is held by another worker")

const keyPrefix = "styledecor:lock:"

// releaseScript deletes the key only while it still carries the caller's token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// Locker is a best-effort mutual exclusion over a shared redis instance.
type Locker struct {
	client   redis.Cmdable
	ttl      time.Duration
	newToken func() string
}

func NewLocker(client redis.Cmdable, ttl time.Duration) *Locker {
	return &Locker{client: client, ttl: ttl, newToken: uuid.NewString}
}

// Acquire takes the named lock and returns the function that releases it.
// ErrLocked is returned when someone else holds it. A release after the TTL
// lapsed leaves a newer holder's lock in place.
func (l *Locker) Acquire(ctx context.Context, name string) (func(context.Context) error, error) {
	key := keyPrefix + name
	token := l.newToken()
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, ErrLocked
	}

	release := func(ctx context.Context) error {
		if err := l.client.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("release %s: %w", key, err)
		}
		return nil
	}
	return release, nil
}
