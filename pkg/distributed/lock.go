package distributed

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AccountLock is a short-lived distributed lock scoped to one account,
// used to serialize multi-key session mutations against admission.
type AccountLock struct {
	client *redis.Client
	key    string
	value  string // unique holder identifier
	ttl    time.Duration
}

// unlockScript releases the lock only when still held by this holder.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func NewAccountLock(client *redis.Client, accountID string, ttl time.Duration) *AccountLock {
	b := make([]byte, 16)
	rand.Read(b)
	return &AccountLock{
		client: client,
		key:    "playgate:lock:account:" + accountID,
		value:  hex.EncodeToString(b),
		ttl:    ttl,
	}
}

// Lock acquires the lock, polling until the context expires.
func (l *AccountLock) Lock(ctx context.Context) error {
	for {
		acquired, err := l.client.SetNX(ctx, l.key, l.value, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("failed to acquire account lock: %w", err)
		}
		if acquired {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("account lock wait cancelled: %w", ctx.Err())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// TryLock attempts a single acquisition without waiting.
func (l *AccountLock) TryLock(ctx context.Context) (bool, error) {
	acquired, err := l.client.SetNX(ctx, l.key, l.value, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire account lock: %w", err)
	}
	return acquired, nil
}

// Unlock releases the lock if this holder still owns it.
func (l *AccountLock) Unlock(ctx context.Context) error {
	if err := unlockScript.Run(ctx, l.client, []string{l.key}, l.value).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("failed to release account lock: %w", err)
	}
	return nil
}
