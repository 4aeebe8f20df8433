package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	lambdaevents "github.com/aws/aws-lambda-go/events"
	"github.com/chris/remittance-ledger/pkg/models"
)

// Notification is what an account holder is told about one committed record.
type Notification struct {
	AccountID     int64
	TransactionID string
	Text          string
}

// Notifier turns queued transaction events into account notifications.
type Notifier struct {
	Logger *slog.Logger
	// Deliver sends one notification. It defaults to logging it.
	Deliver func(ctx context.Context, n Notification) error
}

// NewNotifier creates a Notifier that logs notifications.
func NewNotifier(logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	n := &Notifier{Logger: logger}
	n.Deliver = n.log
	return n
}

// HandleSQSEvent processes a batch and reports failed messages individually
// so SQS redelivers only those.
func (n *Notifier) HandleSQSEvent(ctx context.Context, sqsEvent lambdaevents.SQSEvent) (lambdaevents.SQSEventResponse, error) {
	var resp lambdaevents.SQSEventResponse
	for _, message := range sqsEvent.Records {
		if err := n.handleMessage(ctx, message); err != nil {
			n.Logger.ErrorContext(ctx, "failed to process transaction event", "message_id", message.MessageId, "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, lambdaevents.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
		}
	}
	return resp, nil
}

func (n *Notifier) handleMessage(ctx context.Context, message lambdaevents.SQSMessage) error {
	var event TransactionEvent
	if err := json.Unmarshal([]byte(message.Body), &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.EventType != TypeTransactionCommitted {
		n.Logger.DebugContext(ctx, "skipping event", "event_type", event.EventType, "message_id", message.MessageId)
		return nil
	}
	return n.Deliver(ctx, NotificationFor(event.Transaction))
}

func (n *Notifier) log(ctx context.Context, note Notification) error {
	n.Logger.InfoContext(ctx, "account notification",
		"account_id", note.AccountID,
		"transaction_id", note.TransactionID,
		"text", note.Text,
	)
	return nil
}

// NotificationFor renders the message for one committed record.
func NotificationFor(tx models.Transaction) Notification {
	var text string
	switch {
	case tx.Type == models.WITHDRAW && tx.IsTransferLeg():
		text = fmt.Sprintf("Sent %d to %s (fee %d). Balance %d.", tx.Amount, tx.CounterpartyAccountNo, tx.Fee, tx.BalanceAfterTransaction)
	case tx.Type == models.DEPOSIT && tx.IsTransferLeg():
		text = fmt.Sprintf("Received %d from %s. Balance %d.", tx.Amount, tx.CounterpartyAccountNo, tx.BalanceAfterTransaction)
	case tx.Type == models.WITHDRAW:
		text = fmt.Sprintf("Withdrew %d. Balance %d.", tx.Amount, tx.BalanceAfterTransaction)
	default:
		text = fmt.Sprintf("Deposited %d. Balance %d.", tx.Amount, tx.BalanceAfterTransaction)
	}
	return Notification{AccountID: tx.AccountID, TransactionID: tx.ID, Text: text}
}
