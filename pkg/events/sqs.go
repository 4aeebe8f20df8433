package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/chris/remittance-ledger/pkg/models"
)

// SendMessageAPI is the slice of the SQS client the publisher needs.
type SendMessageAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher implements the Publisher interface using AWS SQS.
type SQSPublisher struct {
	Client   SendMessageAPI
	QueueURL string
}

// NewSQSPublisher creates a new SQSPublisher.
func NewSQSPublisher(client SendMessageAPI, queueURL string) *SQSPublisher {
	return &SQSPublisher{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Publisher = (*SQSPublisher)(nil)

// Publish sends one message per record. Every record is attempted; the
// returned error joins all send failures.
func (p *SQSPublisher) Publish(ctx context.Context, records ...models.Transaction) error {
	var errs []error
	for _, rec := range records {
		if err := p.send(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *SQSPublisher) send(ctx context.Context, rec models.Transaction) error {
	// Marshal the event to JSON.
	body, err := json.Marshal(TransactionEvent{
		EventType:   TypeTransactionCommitted,
		Transaction: rec,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal transaction event for SQS: %w", err)
	}

	// Send the message to SQS.
	_, err = p.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.QueueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {DataType: aws.String("String"), StringValue: aws.String(TypeTransactionCommitted)},
			"type":       {DataType: aws.String("String"), StringValue: aws.String(string(rec.Type))},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS for transaction %s: %w", rec.ID, err)
	}

	return nil
}
