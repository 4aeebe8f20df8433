// Package idempotency provides the fast-path duplicate filter placed in front
// of the ledger. A marker only tells the caller that a request was seen
// recently; the ledger's unique (account, request id) key is authoritative.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultTTL is how long a marker blocks a duplicate request.
const DefaultTTL = time.Second

const keyPrefix = "transaction-id-lock"

// ErrUnavailable wraps backend failures. Callers must not proceed without a verdict.
var ErrUnavailable = errors.New("idempotency guard unavailable")

// Guard atomically creates a marker for key unless one already exists.
type Guard interface {
	// TryAcquire returns true if this call created the marker.
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// KeyFor returns the marker key of a request on one account.
func KeyFor(accountID int64, requestID string) string {
	return fmt.Sprintf("%s::%d::%s", keyPrefix, accountID, requestID)
}
