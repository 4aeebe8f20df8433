// Package dynamodb implements the idempotency guard as a conditional PutItem.
//
// The table needs a string partition key named lock_key. Enabling DynamoDB TTL
// on expires_at lets the service purge stale markers; the condition below does
// not depend on that purge having happened.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/remittance-ledger/pkg/idempotency"
)

// PutItemAPI is the slice of the DynamoDB client the guard needs.
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// marker is the item written for each acquired key.
type marker struct {
	LockKey   string `dynamodbav:"lock_key"`
	Status    string `dynamodbav:"status"`
	CreatedAt int64  `dynamodbav:"created_at"`
	ExpiresAt int64  `dynamodbav:"expires_at"`
}

// Guard implements idempotency.Guard on DynamoDB.
type Guard struct {
	Client    PutItemAPI
	TableName string
	Logger    *slog.Logger
	now       func() time.Time
}

// New creates a new Guard. A nil logger falls back to slog.Default().
func New(client PutItemAPI, tableName string, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{Client: client, TableName: tableName, Logger: logger, now: time.Now}
}

// Make sure we conform to the interface
var _ idempotency.Guard = (*Guard)(nil)

// TryAcquire writes the marker unless a live one exists.
func (g *Guard) TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	now := g.now()
	// Round the expiry up so a sub-second ttl still blocks for at least that long.
	expiresAt := now.Add(ttl + time.Second - time.Nanosecond).Unix()

	item, err := attributevalue.MarshalMap(marker{
		LockKey:   key,
		Status:    "PENDING",
		CreatedAt: now.Unix(),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return false, fmt.Errorf("failed to marshal idempotency marker: %w", err)
	}

	_, err = g.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(g.TableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(lock_key) OR expires_at <= :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: strconv.FormatInt(now.Unix(), 10)},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			g.Logger.DebugContext(ctx, "idempotency marker already present", "key", key, "table", g.TableName)
			return false, nil
		}
		return false, fmt.Errorf("failed to put idempotency marker in DynamoDB: %w: %w", idempotency.ErrUnavailable, err)
	}
	return true, nil
}
