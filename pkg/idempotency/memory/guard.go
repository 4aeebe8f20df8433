// Package memory is an in-process idempotency guard for tests and single-node runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/chris/remittance-ledger/pkg/idempotency"
)

// Guard keeps markers in a map with their expiry.
type Guard struct {
	mu      sync.Mutex
	markers map[string]time.Time
	now     func() time.Time
}

// New creates an empty Guard.
func New() *Guard {
	return &Guard{markers: make(map[string]time.Time), now: time.Now}
}

var _ idempotency.Guard = (*Guard)(nil)

// TryAcquire creates the marker if it is absent or expired.
func (g *Guard) TryAcquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if expiresAt, ok := g.markers[key]; ok && now.Before(expiresAt) {
		return false, nil
	}
	g.markers[key] = now.Add(ttl)

	// Sweep expired markers so the map stays bounded by live traffic.
	if len(g.markers) > 1024 {
		for k, exp := range g.markers {
			if !now.Before(exp) {
				delete(g.markers, k)
			}
		}
	}
	return true, nil
}
