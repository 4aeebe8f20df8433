package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/remittance-ledger/pkg/events/mocks"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSQSPublisher(t *testing.T) {
	withdrawLeg := models.Transaction{ID: "tx-1", AccountID: 1, RequestID: "r", Type: models.WITHDRAW, Status: models.SUCCESS, Amount: 100}
	depositLeg := models.Transaction{ID: "tx-2", AccountID: 2, RequestID: "r", Type: models.DEPOSIT, Status: models.SUCCESS, Amount: 100}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockClient := new(mocks.SendMessageAPI)
		publisher := NewSQSPublisher(mockClient, "https://sqs.local/queue")

		var bodies []string
		mockClient.On("SendMessage", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				input := args.Get(1).(*sqs.SendMessageInput)
				assert.Equal(t, "https://sqs.local/queue", *input.QueueUrl)
				bodies = append(bodies, *input.MessageBody)
			}).
			Return(&sqs.SendMessageOutput{}, nil).Twice()

		// Act
		err := publisher.Publish(context.Background(), withdrawLeg, depositLeg)

		// Assert
		require.NoError(t, err)
		require.Len(t, bodies, 2)
		var event TransactionEvent
		require.NoError(t, json.Unmarshal([]byte(bodies[0]), &event))
		assert.Equal(t, TypeTransactionCommitted, event.EventType)
		assert.Equal(t, "tx-1", event.Transaction.ID)
		mockClient.AssertExpectations(t)
	})

	t.Run("One Send Fails", func(t *testing.T) {
		mockClient := new(mocks.SendMessageAPI)
		publisher := NewSQSPublisher(mockClient, "q")
		mockClient.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("queue gone")).Once()
		mockClient.On("SendMessage", mock.Anything, mock.Anything).Return(&sqs.SendMessageOutput{}, nil).Once()

		err := publisher.Publish(context.Background(), withdrawLeg, depositLeg)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "tx-1")
		mockClient.AssertExpectations(t)
	})
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), models.Transaction{}))
}
