package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/chris/remittance-ledger/pkg/engine"
	"github.com/chris/remittance-ledger/pkg/fee"
	guardmem "github.com/chris/remittance-ledger/pkg/idempotency/memory"
	"github.com/chris/remittance-ledger/pkg/limits"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	t.Run("Duplicate Request", func(t *testing.T) {
		err := mapError(&pgconn.PgError{Code: "23505", ConstraintName: transactionsRequestKey})
		assert.ErrorIs(t, err, storage.ErrDuplicateRequest)
	})

	t.Run("Other Unique Violation", func(t *testing.T) {
		err := mapError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_account_no_key"})
		assert.NotErrorIs(t, err, storage.ErrDuplicateRequest)
	})

	t.Run("Lock Timeout And Deadlock", func(t *testing.T) {
		for _, code := range []string{"55P03", "40P01"} {
			err := mapError(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: code}))
			assert.ErrorIs(t, err, storage.ErrLockTimeout, code)

			var pgErr *pgconn.PgError
			assert.True(t, errors.As(err, &pgErr), "original error stays in the chain")
		}
	})

	t.Run("Foreign Key", func(t *testing.T) {
		err := mapError(&pgconn.PgError{Code: "23503"})
		assert.ErrorIs(t, err, models.ErrAccountNotFound)
	})

	t.Run("Not A Postgres Error", func(t *testing.T) {
		plain := errors.New("plain")
		assert.Equal(t, plain, mapError(plain))
	})
}

// newIntegrationStore connects to TEST_DATABASE_URL or skips the test.
func newIntegrationStore(t *testing.T, lockTimeout time.Duration) *Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := Connect(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := New(pool, lockTimeout, nil)
	require.NoError(t, store.Migrate(ctx))
	return store
}

func createAccount(t *testing.T, s *Store, balance int64) *models.Account {
	t.Helper()
	ctx := context.Background()
	var created *models.Account
	err := s.InTx(ctx, func(tx storage.Tx) error {
		acc := models.NewAccount(uuid.NewString(), time.Now())
		acc.Balance = balance
		out, err := tx.CreateAccount(ctx, acc)
		if err != nil {
			return err
		}
		created = out
		return tx.CreateLimitSetting(ctx, models.DefaultLimitSetting(out.ID, time.Now()))
	})
	require.NoError(t, err)
	return created
}

func TestIntegrationLedger(t *testing.T) {
	store := newIntegrationStore(t, 200*time.Millisecond)
	ctx := context.Background()
	acc := createAccount(t, store, 1_000)

	t.Run("Insert And Find Transaction", func(t *testing.T) {
		appliedAt := time.Now().UTC().Truncate(time.Microsecond)
		rec := models.Transaction{
			ID: uuid.NewString(), AccountID: acc.ID, RequestID: uuid.NewString(),
			Type: models.WITHDRAW, Status: models.PENDING, Amount: 100,
			FeePolicyType: models.FeePolicyNight, FeeRate: decimal.RequireFromString("0.02"),
			FeeAppliedAt: &appliedAt, CounterpartyAccountNo: "other",
			CreatedAt: appliedAt,
		}
		err := store.InTx(ctx, func(tx storage.Tx) error {
			if err := tx.InsertTransaction(ctx, rec); err != nil {
				return err
			}
			rec.Status = models.SUCCESS
			rec.Fee = 2
			return tx.UpdateTransaction(ctx, rec)
		})
		require.NoError(t, err)

		found, err := store.FindTransaction(ctx, acc.ID, rec.RequestID)
		require.NoError(t, err)
		assert.Equal(t, models.SUCCESS, found.Status)
		assert.True(t, found.FeeRate.Equal(rec.FeeRate))
		assert.Equal(t, "other", found.CounterpartyAccountNo)

		err = store.InTx(ctx, func(tx storage.Tx) error {
			return tx.InsertTransaction(ctx, rec)
		})
		assert.ErrorIs(t, err, storage.ErrDuplicateRequest)
	})

	t.Run("Usage Row Is Created Once", func(t *testing.T) {
		date := models.LimitDate(time.Now())
		for i := 0; i < 2; i++ {
			err := store.InTx(ctx, func(tx storage.Tx) error {
				usage, err := tx.LockOrCreateUsage(ctx, acc.ID, date)
				if err != nil {
					return err
				}
				return tx.SaveUsage(ctx, usage.AddWithdrawUsed(10, time.Now()))
			})
			require.NoError(t, err)
		}

		err := store.InTx(ctx, func(tx storage.Tx) error {
			usage, err := tx.LockOrCreateUsage(ctx, acc.ID, date)
			if err != nil {
				return err
			}
			assert.Equal(t, int64(20), usage.WithdrawUsed)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("Lock Timeout", func(t *testing.T) {
		holding := make(chan struct{})
		release := make(chan struct{})
		go func() {
			_ = store.InTx(ctx, func(tx storage.Tx) error {
				_, err := tx.LockAccount(ctx, acc.ID)
				close(holding)
				<-release
				return err
			})
		}()
		<-holding

		err := store.InTx(ctx, func(tx storage.Tx) error {
			_, err := tx.LockAccount(ctx, acc.ID)
			return err
		})
		close(release)

		assert.ErrorIs(t, err, storage.ErrLockTimeout)
	})
}

func newIntegrationEngine(t *testing.T, store *Store) *engine.Engine {
	t.Helper()
	seoul := time.FixedZone("KST", 9*60*60)
	afternoon := time.Date(2025, 4, 10, 14, 0, 0, 0, seoul)
	return engine.New(store, guardmem.New(), fee.NewStandardEngine(seoul), limits.NewTracker(seoul), engine.Options{
		GuardTTL: time.Minute,
		Clock:    func() time.Time { return afternoon },
	})
}

func TestIntegrationConcurrentEngine(t *testing.T) {
	store := newIntegrationStore(t, 10*time.Second)
	eng := newIntegrationEngine(t, store)
	ctx := context.Background()

	t.Run("Distinct Withdrawals", func(t *testing.T) {
		// Arrange
		acc := createAccount(t, store, 1_000_000)
		var wg sync.WaitGroup
		errs := make(chan error, 100)

		// Act
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := eng.Withdraw(ctx, acc.ID, 10_000, fmt.Sprintf("bulk-%d", i))
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)

		// Assert
		for err := range errs {
			assert.NoError(t, err)
		}
		got, err := store.GetAccount(ctx, acc.ID)
		require.NoError(t, err)
		assert.Zero(t, got.Balance)
		n, err := store.CountTransactions(ctx, acc.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, 100, n)
	})

	t.Run("Opposing Transfers", func(t *testing.T) {
		// Arrange
		a := createAccount(t, store, 1_000_000)
		b := createAccount(t, store, 1_000_000)
		const rounds = 50
		var wg sync.WaitGroup
		errs := make(chan error, 2*rounds)

		// Act
		for i := 0; i < rounds; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				_, err := eng.Transfer(ctx, a.ID, b.ID, 1_000, fmt.Sprintf("ab-%d", i))
				errs <- err
			}(i)
			go func(i int) {
				defer wg.Done()
				_, err := eng.Transfer(ctx, b.ID, a.ID, 1_000, fmt.Sprintf("ba-%d", i))
				errs <- err
			}(i)
		}
		wg.Wait()
		close(errs)

		// Assert
		for err := range errs {
			assert.NoError(t, err)
		}
		for _, id := range []int64{a.ID, b.ID} {
			got, err := store.GetAccount(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, int64(1_000_000-rounds*10), got.Balance)
			n, err := store.CountTransactions(ctx, id, 0)
			require.NoError(t, err)
			assert.Equal(t, 2*rounds, n)
		}
	})
}
