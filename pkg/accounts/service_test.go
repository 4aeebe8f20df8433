package accounts

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
	"github.com/chris/remittance-ledger/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New(time.Second), nil)

	created, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.ACTIVE, created.Account.Status)
	assert.Zero(t, created.Account.Balance)
	assert.NotEmpty(t, created.Account.AccountNo)
	assert.Equal(t, models.DefaultDailyWithdrawLimit, created.Limits.DailyWithdrawLimit)
	assert.Equal(t, models.DefaultDailyTransferLimit, created.Limits.DailyTransferLimit)

	got, err := svc.Get(ctx, created.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Account.AccountNo, got.Account.AccountNo)

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, models.ErrAccountNotFound)
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New(time.Second), nil)
	created, err := svc.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Close(ctx, created.Account.ID))
	got, err := svc.Get(ctx, created.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CLOSED, got.Account.Status)

	assert.ErrorIs(t, svc.Close(ctx, created.Account.ID), models.ErrAccountNotActive)
	assert.ErrorIs(t, svc.Close(ctx, 999), models.ErrAccountNotFound)
}

func TestUpdateLimits(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New(time.Second), nil)
	created, err := svc.Create(ctx)
	require.NoError(t, err)

	updated, err := svc.UpdateLimits(ctx, created.Account.ID, 5_000, 7_000)
	require.NoError(t, err)
	assert.Equal(t, int64(5_000), updated.Limits.DailyWithdrawLimit)
	assert.Equal(t, int64(7_000), updated.Limits.DailyTransferLimit)

	_, err = svc.UpdateLimits(ctx, created.Account.ID, -1, 7_000)
	assert.ErrorIs(t, err, models.ErrInvalidLimit)

	got, err := svc.Get(ctx, created.Account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5_000), got.Limits.DailyWithdrawLimit)
}

func TestListTransactions(t *testing.T) {
	ctx := context.Background()
	store := memory.New(time.Second)
	svc := NewService(store, nil)
	created, err := svc.Create(ctx)
	require.NoError(t, err)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		err := store.InTx(ctx, func(tx storage.Tx) error {
			return tx.InsertTransaction(ctx, models.Transaction{
				ID: fmt.Sprintf("id-%d", i), AccountID: created.Account.ID, RequestID: fmt.Sprintf("r-%02d", i),
				Type: models.DEPOSIT, Status: models.SUCCESS, Amount: 1,
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			})
		})
		require.NoError(t, err)
	}

	t.Run("First Page", func(t *testing.T) {
		page, err := svc.ListTransactions(ctx, created.Account.AccountNo, 1, 10)

		require.NoError(t, err)
		require.Len(t, page.Transactions, 10)
		assert.Equal(t, "r-24", page.Transactions[0].RequestID)
		assert.Equal(t, 25, page.TransactionCount)
	})

	t.Run("Count Is Capped", func(t *testing.T) {
		page, err := svc.ListTransactions(ctx, created.Account.AccountNo, 1, 2)

		require.NoError(t, err)
		assert.Len(t, page.Transactions, 2)
		assert.Equal(t, CountLimit(1, 2), page.TransactionCount)
		assert.Equal(t, 21, page.TransactionCount)
	})

	t.Run("Invalid Page", func(t *testing.T) {
		for _, tc := range [][2]int{{0, 10}, {1, 0}, {1, MaxPageSize + 1}} {
			_, err := svc.ListTransactions(ctx, created.Account.AccountNo, tc[0], tc[1])
			assert.ErrorIs(t, err, models.ErrInvalidPage)
		}
	})

	t.Run("Page Beyond Addressable Range", func(t *testing.T) {
		for _, tc := range [][2]int{{math.MaxInt/100 + 2, 100}, {math.MaxInt, 1}, {MaxPage(20) + 1, 20}} {
			page, err := svc.ListTransactions(ctx, created.Account.AccountNo, tc[0], tc[1])

			assert.Nil(t, page)
			assert.ErrorIs(t, err, models.ErrInvalidPage)
		}
	})

	t.Run("Last Addressable Page Is Empty", func(t *testing.T) {
		page, err := svc.ListTransactions(ctx, created.Account.AccountNo, MaxPage(MaxPageSize), MaxPageSize)

		require.NoError(t, err)
		assert.Empty(t, page.Transactions)
		assert.Equal(t, 25, page.TransactionCount)
	})

	t.Run("Unknown Account Number", func(t *testing.T) {
		_, err := svc.ListTransactions(ctx, "missing", 1, 10)
		assert.ErrorIs(t, err, models.ErrAccountNotFound)
	})
}
