// Package events publishes committed ledger records to downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
)

// TypeTransactionCommitted is the only event type emitted today.
const TypeTransactionCommitted = "transaction.committed"

// TransactionEvent is the message body sent for each committed record.
type TransactionEvent struct {
	EventType   string             `json:"event_type"`
	Transaction models.Transaction `json:"transaction"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// Publisher defines the interface for a component that announces committed records.
type Publisher interface {
	// Publish is called after commit. Its failure never undoes the commit.
	Publish(ctx context.Context, records ...models.Transaction) error
}

// NoopPublisher drops every event. It is used when no queue is configured.
type NoopPublisher struct{}

// Publish does nothing.
func (NoopPublisher) Publish(context.Context, ...models.Transaction) error { return nil }

var _ Publisher = NoopPublisher{}
