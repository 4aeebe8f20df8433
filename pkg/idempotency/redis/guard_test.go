package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chris/remittance-ledger/pkg/idempotency"
	"github.com/chris/remittance-ledger/pkg/idempotency/redis/mocks"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTryAcquire(t *testing.T) {
	key := idempotency.KeyFor(1, "req-1")

	t.Run("Acquired", func(t *testing.T) {
		mockClient := new(mocks.SetNXAPI)
		guard := New(mockClient)
		mockClient.On("SetNX", mock.Anything, key, "PENDING", time.Second).Return(redis.NewBoolResult(true, nil)).Once()

		ok, err := guard.TryAcquire(context.Background(), key, time.Second)

		assert.NoError(t, err)
		assert.True(t, ok)
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Held", func(t *testing.T) {
		mockClient := new(mocks.SetNXAPI)
		guard := New(mockClient)
		mockClient.On("SetNX", mock.Anything, key, mock.Anything, mock.Anything).Return(redis.NewBoolResult(false, nil)).Once()

		ok, err := guard.TryAcquire(context.Background(), key, time.Second)

		assert.NoError(t, err)
		assert.False(t, ok)
		mockClient.AssertExpectations(t)
	})

	t.Run("Redis Down", func(t *testing.T) {
		mockClient := new(mocks.SetNXAPI)
		guard := New(mockClient)
		mockClient.On("SetNX", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(redis.NewBoolResult(false, errors.New("connection refused"))).Once()

		ok, err := guard.TryAcquire(context.Background(), key, time.Second)

		assert.False(t, ok)
		assert.ErrorIs(t, err, idempotency.ErrUnavailable)
		assert.Contains(t, err.Error(), "connection refused")
		mockClient.AssertExpectations(t)
	})
}
