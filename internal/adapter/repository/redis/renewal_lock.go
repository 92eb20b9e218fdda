package redis

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lease only when the stored token matches, so
// a holder whose lease expired cannot release a lease re-acquired by
// another instance.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// RenewalLock implements usecase.RenewalLock with a Redis SETNX lease.
// The TTL bounds how long a crashed holder can block other instances.
type RenewalLock struct {
	client *redis.Client
	key    string
	token  string
}

// NewRenewalLock creates a new RenewalLock.
func NewRenewalLock(client *redis.Client) *RenewalLock {
	return &RenewalLock{
		client: client,
		key:    "smartwallet:renewal:lease",
		token:  ulid.Make().String(),
	}
}

// Acquire takes the lease. It returns false when another holder is active.
func (l *RenewalLock) Acquire(ctx context.Context, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, l.key, l.token, ttl).Result()
}

// Release gives the lease back.
func (l *RenewalLock) Release(ctx context.Context) error {
	return l.client.Eval(ctx, releaseScript, []string{l.key}, l.token).Err()
}
