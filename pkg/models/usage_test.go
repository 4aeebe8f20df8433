package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyLimitUsage(t *testing.T) {
	now := time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC)
	usage := NewDailyLimitUsage(1, LimitDate(now), now)

	assert.Equal(t, "2025-06-30", usage.LimitDate)
	assert.Zero(t, usage.WithdrawUsed)

	t.Run("Exactly At Limit", func(t *testing.T) {
		used := usage.AddWithdrawUsed(600, now)

		assert.NoError(t, used.CheckWithdraw(400, 1_000))
		assert.ErrorIs(t, used.CheckWithdraw(401, 1_000), ErrExceedDailyWithdrawLimit)
	})

	t.Run("Transfer Counter Is Separate", func(t *testing.T) {
		used := usage.AddTransferUsed(1_000, now)

		assert.NoError(t, used.CheckWithdraw(1_000, 1_000))
		assert.ErrorIs(t, used.CheckTransfer(1, 1_000), ErrExceedDailyTransferLimit)
		assert.ErrorIs(t, used.CheckTransfer(1, 1_000), ErrExceedDailyLimit)
	})

	t.Run("Huge Amount Does Not Overflow", func(t *testing.T) {
		used := usage.AddWithdrawUsed(10, now)

		assert.Error(t, used.CheckWithdraw(math.MaxInt64, 1_000))
	})
}
