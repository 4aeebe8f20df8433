// Package redis implements the idempotency guard with Redis SETNX.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/remittance-ledger/pkg/idempotency"
	"github.com/go-redis/redis/v8"
)

const markerValue = "PENDING"

// SetNXAPI is the slice of the Redis client the guard needs.
type SetNXAPI interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// Guard implements idempotency.Guard on Redis.
type Guard struct {
	Client SetNXAPI
}

// New creates a new Guard.
func New(client SetNXAPI) *Guard {
	return &Guard{Client: client}
}

// Make sure we conform to the interface
var _ idempotency.Guard = (*Guard)(nil)

// TryAcquire sets key with an expiry only if it does not exist.
func (g *Guard) TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := g.Client.SetNX(ctx, key, markerValue, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set idempotency key in Redis: %w: %w", idempotency.ErrUnavailable, err)
	}
	return ok, nil
}
