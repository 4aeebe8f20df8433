package fee

import (
	"testing"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	engine := NewStandardEngine(seoul)
	require.NoError(t, engine.Validate())

	t.Run("Default Policy During Day", func(t *testing.T) {
		at := time.Date(2025, 5, 20, 14, 0, 0, 0, seoul)

		quote, err := engine.Calculate(100_000, at)

		require.NoError(t, err)
		assert.Equal(t, models.FeePolicyDefault, quote.PolicyType)
		assert.True(t, quote.Rate.Equal(decimal.RequireFromString("0.01")))
		assert.Equal(t, int64(1_000), quote.FeeAmount)
		assert.Equal(t, at, quote.AppliedAt)
	})

	t.Run("Night Policy At 23:30", func(t *testing.T) {
		at := time.Date(2025, 5, 20, 23, 30, 0, 0, seoul)

		quote, err := engine.Calculate(100_000, at)

		require.NoError(t, err)
		assert.Equal(t, models.FeePolicyNight, quote.PolicyType)
		assert.Equal(t, int64(2_000), quote.FeeAmount)
	})

	t.Run("Night Window Bounds", func(t *testing.T) {
		cases := map[string]struct {
			hour, minute int
			want         models.FeePolicyType
		}{
			"22:59": {22, 59, models.FeePolicyDefault},
			"23:00": {23, 0, models.FeePolicyNight},
			"05:59": {5, 59, models.FeePolicyNight},
			"06:00": {6, 0, models.FeePolicyDefault},
		}
		for name, tc := range cases {
			at := time.Date(2025, 5, 20, tc.hour, tc.minute, 0, 0, seoul)
			quote, err := engine.Calculate(1_000, at)
			require.NoError(t, err, name)
			assert.Equal(t, tc.want, quote.PolicyType, name)
		}
	})

	t.Run("Window Uses Configured Location", func(t *testing.T) {
		// 14:30 UTC is 23:30 in Seoul.
		at := time.Date(2025, 5, 20, 14, 30, 0, 0, time.UTC)

		quote, err := engine.Calculate(1_000, at)

		require.NoError(t, err)
		assert.Equal(t, models.FeePolicyNight, quote.PolicyType)
	})

	t.Run("Fee Is Floored", func(t *testing.T) {
		quote, err := engine.Calculate(199, time.Date(2025, 5, 20, 12, 0, 0, 0, seoul))

		require.NoError(t, err)
		assert.Equal(t, int64(1), quote.FeeAmount)
	})
}

func TestCalculateWithoutDefault(t *testing.T) {
	engine := NewEngine(NightPolicy(time.UTC))

	_, err := engine.Calculate(1_000, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))

	assert.ErrorIs(t, err, ErrPolicyNotConfigured)
	assert.ErrorIs(t, engine.Validate(), ErrPolicyNotConfigured)
}

func TestDefaultNeverTestedFirst(t *testing.T) {
	engine := NewEngine(DefaultPolicy(), NightPolicy(time.UTC))

	quote, err := engine.Calculate(1_000, time.Date(2025, 1, 1, 23, 10, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, models.FeePolicyNight, quote.PolicyType)
}

func TestValidateRejectsTwoDefaults(t *testing.T) {
	engine := NewEngine(DefaultPolicy(), DefaultPolicy())

	assert.Error(t, engine.Validate())
}
