package mapping

import (
	"testing"
	"time"

	"github.com/chris/remittance-ledger/pkg/engine"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToApiTransferReceipt(t *testing.T) {
	t.Run("Committed Transfer", func(t *testing.T) {
		r := &engine.TransferReceipt{
			FromAccountID: 1, ToAccountID: 2, RequestID: "req-1",
			CounterpartyAccountNo: "acc-2", Amount: 100_000, Fee: 2_000,
			FeeRate: decimal.RequireFromString("0.02"), FeePolicyType: models.FeePolicyNight,
			BalanceAfter: 398_000, Status: models.SUCCESS, CreatedAt: time.Now(),
		}

		out := ToApiTransferReceipt(r)

		assert.Equal(t, 0.02, out.FeeRate)
		require.NotNil(t, out.FeePolicyType)
		assert.Equal(t, "NIGHT", *out.FeePolicyType)
		assert.Equal(t, "req-1", out.TransactionId)
	})

	t.Run("Pending Placeholder", func(t *testing.T) {
		out := ToApiTransferReceipt(&engine.TransferReceipt{RequestID: "req-1", Status: models.PENDING})

		assert.Nil(t, out.FeePolicyType)
		assert.Zero(t, out.FeeRate)
	})
}

func TestToApiTransaction(t *testing.T) {
	plain := ToApiTransaction(&models.Transaction{ID: "t1", RequestID: "r1", Type: models.DEPOSIT, Status: models.SUCCESS, Amount: 10})
	assert.Nil(t, plain.CounterpartyAccountNo)
	assert.Nil(t, plain.FeeRate)

	leg := ToApiTransaction(&models.Transaction{
		ID: "t2", RequestID: "r2", Type: models.WITHDRAW, Status: models.SUCCESS, Amount: 10, Fee: 1,
		FeePolicyType: models.FeePolicyDefault, FeeRate: decimal.RequireFromString("0.01"), CounterpartyAccountNo: "acc-9",
	})
	require.NotNil(t, leg.CounterpartyAccountNo)
	assert.Equal(t, "acc-9", *leg.CounterpartyAccountNo)
	require.NotNil(t, leg.FeeRate)
	assert.Equal(t, 0.01, *leg.FeeRate)
}
