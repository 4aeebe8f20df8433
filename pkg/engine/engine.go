// Package engine executes deposits, withdrawals and transfers against the ledger.
//
// Every operation follows the same protocol: a fast duplicate check through the
// idempotency guard, then one atomic ledger unit that first claims the
// (account, request id) key, locks the accounts in ascending id order,
// validates, applies and marks the record SUCCESS. A failure anywhere rolls the
// unit back, so no partial state or PENDING row survives.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/chris/remittance-ledger/pkg/events"
	"github.com/chris/remittance-ledger/pkg/fee"
	"github.com/chris/remittance-ledger/pkg/idempotency"
	"github.com/chris/remittance-ledger/pkg/limits"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
	"github.com/google/uuid"
)

// FeeCalculator prices a transfer.
type FeeCalculator interface {
	Calculate(amount int64, requestedAt time.Time) (fee.Quote, error)
}

// Options holds the optional collaborators of an Engine.
type Options struct {
	// GuardTTL defaults to idempotency.DefaultTTL.
	GuardTTL  time.Duration
	Publisher events.Publisher
	Logger    *slog.Logger
	Clock     func() time.Time
}

// Engine holds the dependencies for money-movement operations.
type Engine struct {
	ledger    storage.Ledger
	guard     idempotency.Guard
	fees      FeeCalculator
	limits    *limits.Tracker
	publisher events.Publisher
	guardTTL  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a new Engine.
func New(ledger storage.Ledger, guard idempotency.Guard, fees FeeCalculator, tracker *limits.Tracker, opts Options) *Engine {
	e := &Engine{
		ledger:    ledger,
		guard:     guard,
		fees:      fees,
		limits:    tracker,
		publisher: opts.Publisher,
		guardTTL:  opts.GuardTTL,
		logger:    opts.Logger,
		now:       opts.Clock,
	}
	if e.publisher == nil {
		e.publisher = events.NoopPublisher{}
	}
	if e.guardTTL <= 0 {
		e.guardTTL = idempotency.DefaultTTL
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// errDestinationTaken marks a collision on the destination leg of a transfer.
var errDestinationTaken = errors.New("destination request id taken")

// Deposit credits amount to an account.
func (e *Engine) Deposit(ctx context.Context, accountID, amount int64, requestID string) (*Receipt, error) {
	if err := validateRequest(amount, requestID); err != nil {
		return nil, err
	}

	// 1. Fast duplicate filter.
	acquired, err := e.guard.TryAcquire(ctx, idempotency.KeyFor(accountID, requestID), e.guardTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire idempotency key: %w", err)
	}
	if !acquired {
		return e.replay(ctx, accountID, requestID, models.DEPOSIT, amount)
	}

	// 2. Claim, lock, apply and complete in one unit.
	now := e.now()
	rec := pendingRecord(accountID, requestID, models.DEPOSIT, amount, now)
	err = e.ledger.InTx(ctx, func(tx storage.Tx) error {
		if err := tx.InsertTransaction(ctx, rec); err != nil {
			return err
		}
		acc, err := tx.LockAccount(ctx, accountID)
		if err != nil {
			return err
		}
		next, err := acc.Deposit(amount, now)
		if err != nil {
			return err
		}
		if err := tx.SaveAccount(ctx, next); err != nil {
			return err
		}
		rec.Status = models.SUCCESS
		rec.BalanceAfterTransaction = next.Balance
		return tx.UpdateTransaction(ctx, rec)
	})
	if errors.Is(err, storage.ErrDuplicateRequest) {
		return e.replay(ctx, accountID, requestID, models.DEPOSIT, amount)
	}
	if err != nil {
		e.logFailure(ctx, "deposit", accountID, requestID, err)
		return nil, fmt.Errorf("failed to deposit: %w", err)
	}

	// 3. Announce the committed record.
	e.publish(ctx, rec)
	return receiptFrom(&rec, false), nil
}

// Withdraw debits amount from an account within its daily withdraw limit.
func (e *Engine) Withdraw(ctx context.Context, accountID, amount int64, requestID string) (*Receipt, error) {
	if err := validateRequest(amount, requestID); err != nil {
		return nil, err
	}

	// 1. Fast duplicate filter.
	acquired, err := e.guard.TryAcquire(ctx, idempotency.KeyFor(accountID, requestID), e.guardTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire idempotency key: %w", err)
	}
	if !acquired {
		return e.replay(ctx, accountID, requestID, models.WITHDRAW, amount)
	}

	// 2. Claim, lock, check limits, apply and complete in one unit.
	now := e.now()
	rec := pendingRecord(accountID, requestID, models.WITHDRAW, amount, now)
	err = e.ledger.InTx(ctx, func(tx storage.Tx) error {
		if err := tx.InsertTransaction(ctx, rec); err != nil {
			return err
		}
		acc, err := tx.LockAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if !acc.IsActive() {
			return fmt.Errorf("account %d: %w", accountID, models.ErrAccountNotActive)
		}
		setting, err := tx.GetLimitSetting(ctx, accountID)
		if err != nil {
			return err
		}
		if err := e.limits.ReserveWithdraw(ctx, tx, setting, amount, now); err != nil {
			return err
		}
		next, err := acc.Withdraw(amount, now)
		if err != nil {
			return err
		}
		if err := tx.SaveAccount(ctx, next); err != nil {
			return err
		}
		rec.Status = models.SUCCESS
		rec.BalanceAfterTransaction = next.Balance
		return tx.UpdateTransaction(ctx, rec)
	})
	if errors.Is(err, storage.ErrDuplicateRequest) {
		return e.replay(ctx, accountID, requestID, models.WITHDRAW, amount)
	}
	if err != nil {
		e.logFailure(ctx, "withdraw", accountID, requestID, err)
		return nil, fmt.Errorf("failed to withdraw: %w", err)
	}

	// 3. Announce the committed record.
	e.publish(ctx, rec)
	return receiptFrom(&rec, false), nil
}

// Transfer moves amount from one account to another. The source pays
// amount plus the fee; the destination receives amount.
func (e *Engine) Transfer(ctx context.Context, fromAccountID, toAccountID, amount int64, requestID string) (*TransferReceipt, error) {
	if fromAccountID == toAccountID {
		return nil, fmt.Errorf("account %d: %w", fromAccountID, models.ErrSameAccountTransfer)
	}
	if err := validateRequest(amount, requestID); err != nil {
		return nil, err
	}

	// 1. Fast duplicate filter, keyed on the source account.
	acquired, err := e.guard.TryAcquire(ctx, idempotency.KeyFor(fromAccountID, requestID), e.guardTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire idempotency key: %w", err)
	}
	if !acquired {
		return e.replayTransfer(ctx, fromAccountID, toAccountID, requestID, amount, true)
	}

	now := e.now()
	src := pendingRecord(fromAccountID, requestID, models.WITHDRAW, amount, now)
	dst := pendingRecord(toAccountID, requestID, models.DEPOSIT, amount, now)
	firstID, secondID := fromAccountID, toAccountID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}

	// 2. One unit: claim both legs and lock both accounts in ascending id order.
	err = e.ledger.InTx(ctx, func(tx storage.Tx) error {
		for _, leg := range orderedLegs(src, dst) {
			if err := tx.InsertTransaction(ctx, leg); err != nil {
				if leg.AccountID == toAccountID && errors.Is(err, storage.ErrDuplicateRequest) {
					return errDestinationTaken
				}
				return err
			}
		}

		first, err := tx.LockAccount(ctx, firstID)
		if err != nil {
			return err
		}
		second, err := tx.LockAccount(ctx, secondID)
		if err != nil {
			return err
		}
		from, to := first, second
		if from.ID != fromAccountID {
			from, to = second, first
		}
		if !from.IsActive() {
			return fmt.Errorf("account %d: %w", from.ID, models.ErrAccountNotActive)
		}
		if !to.IsActive() {
			return fmt.Errorf("account %d: %w", to.ID, models.ErrAccountNotActive)
		}

		// 3. Daily transfer limit on the source.
		setting, err := tx.GetLimitSetting(ctx, fromAccountID)
		if err != nil {
			return err
		}
		if err := e.limits.ReserveTransfer(ctx, tx, setting, amount, now); err != nil {
			return err
		}

		// 4. Price and apply.
		quote, err := e.fees.Calculate(amount, now)
		if err != nil {
			return fmt.Errorf("failed to calculate fee: %w", err)
		}
		if quote.FeeAmount > math.MaxInt64-amount {
			return fmt.Errorf("amount %d plus fee %d: %w", amount, quote.FeeAmount, models.ErrInvalidAmount)
		}
		nextFrom, err := from.Withdraw(amount+quote.FeeAmount, now)
		if err != nil {
			return err
		}
		nextTo, err := to.Deposit(amount, now)
		if err != nil {
			return err
		}
		if err := tx.SaveAccount(ctx, nextFrom); err != nil {
			return err
		}
		if err := tx.SaveAccount(ctx, nextTo); err != nil {
			return err
		}

		// 5. Complete both legs.
		appliedAt := quote.AppliedAt
		src.Status = models.SUCCESS
		src.Fee = quote.FeeAmount
		src.FeePolicyType = quote.PolicyType
		src.FeeRate = quote.Rate
		src.FeeAppliedAt = &appliedAt
		src.CounterpartyAccountNo = to.AccountNo
		src.BalanceAfterTransaction = nextFrom.Balance
		if err := tx.UpdateTransaction(ctx, src); err != nil {
			return err
		}

		dst.Status = models.SUCCESS
		dst.CounterpartyAccountNo = from.AccountNo
		dst.BalanceAfterTransaction = nextTo.Balance
		return tx.UpdateTransaction(ctx, dst)
	})

	switch {
	case errors.Is(err, storage.ErrDuplicateRequest):
		return e.replayTransfer(ctx, fromAccountID, toAccountID, requestID, amount, true)
	case errors.Is(err, errDestinationTaken):
		// Only our own committed transfer explains a taken destination key.
		return e.replayTransfer(ctx, fromAccountID, toAccountID, requestID, amount, false)
	case err != nil:
		e.logFailure(ctx, "transfer", fromAccountID, requestID, err)
		return nil, fmt.Errorf("failed to transfer: %w", err)
	}

	// 6. Announce both committed legs.
	e.publish(ctx, src, dst)
	return transferReceiptFrom(&src, toAccountID, false), nil
}

// replay returns the persisted outcome of an earlier request, or a PENDING
// placeholder while that request is still in flight.
func (e *Engine) replay(ctx context.Context, accountID int64, requestID string, txType models.TransactionType, amount int64) (*Receipt, error) {
	existing, err := e.ledger.FindTransaction(ctx, accountID, requestID)
	if errors.Is(err, storage.ErrNotFound) {
		e.logger.InfoContext(ctx, "duplicate request still in flight", "account_id", accountID, "request_id", requestID)
		return &Receipt{
			AccountID: accountID,
			RequestID: requestID,
			Type:      txType,
			Status:    models.PENDING,
			Amount:    amount,
			Replayed:  true,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up earlier request: %w", err)
	}
	e.logger.InfoContext(ctx, "replaying request", "account_id", accountID, "request_id", requestID, "status", existing.Status)
	return receiptFrom(existing, true), nil
}

// replayTransfer returns the earlier transfer stored under requestID on the
// source account. The stored record must be the source leg of a transfer to
// toAccountID; anything else is a request id conflict. A missing record is
// reported as PENDING only when inFlight is set.
func (e *Engine) replayTransfer(ctx context.Context, fromAccountID, toAccountID int64, requestID string, amount int64, inFlight bool) (*TransferReceipt, error) {
	existing, err := e.ledger.FindTransaction(ctx, fromAccountID, requestID)
	if errors.Is(err, storage.ErrNotFound) {
		if !inFlight {
			return nil, e.transferConflict(ctx, fromAccountID, toAccountID, requestID)
		}
		e.logger.InfoContext(ctx, "duplicate transfer still in flight", "account_id", fromAccountID, "request_id", requestID)
		return &TransferReceipt{
			FromAccountID: fromAccountID,
			ToAccountID:   toAccountID,
			RequestID:     requestID,
			Amount:        amount,
			Status:        models.PENDING,
			Replayed:      true,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up earlier transfer: %w", err)
	}

	storedTo, err := e.transferDestination(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to look up earlier transfer: %w", err)
	}
	if storedTo != toAccountID {
		return nil, e.transferConflict(ctx, fromAccountID, toAccountID, requestID)
	}
	e.logger.InfoContext(ctx, "replaying transfer", "account_id", fromAccountID, "request_id", requestID, "status", existing.Status)
	return transferReceiptFrom(existing, storedTo, true), nil
}

// transferDestination resolves the destination account of a source leg.
// It returns zero when rec is not the source leg of a transfer.
func (e *Engine) transferDestination(ctx context.Context, rec *models.Transaction) (int64, error) {
	if rec.Type != models.WITHDRAW || !rec.IsTransferLeg() {
		return 0, nil
	}
	dest, err := e.ledger.GetAccountByNo(ctx, rec.CounterpartyAccountNo)
	if errors.Is(err, models.ErrAccountNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return dest.ID, nil
}

func (e *Engine) transferConflict(ctx context.Context, fromAccountID, toAccountID int64, requestID string) error {
	e.logger.WarnContext(ctx, "request id already used by another operation",
		"from_account_id", fromAccountID, "to_account_id", toAccountID, "request_id", requestID)
	return fmt.Errorf("failed to transfer: request %q: %w", requestID, models.ErrRequestIDConflict)
}

func (e *Engine) publish(ctx context.Context, records ...models.Transaction) {
	if err := e.publisher.Publish(ctx, records...); err != nil {
		e.logger.ErrorContext(ctx, "failed to publish committed transactions", "request_id", records[0].RequestID, "error", err)
	}
}

func (e *Engine) logFailure(ctx context.Context, op string, accountID int64, requestID string, err error) {
	kind := KindOf(err)
	level := slog.LevelInfo
	switch kind {
	case KindRetryable:
		level = slog.LevelWarn
	case KindInternal, KindConfiguration:
		level = slog.LevelError
	}
	e.logger.Log(ctx, level, op+" rejected",
		"account_id", accountID, "request_id", requestID, "kind", kind.String(), "error", err)
}

func validateRequest(amount int64, requestID string) error {
	if requestID == "" {
		return models.ErrMissingRequestID
	}
	if amount <= 0 {
		return fmt.Errorf("amount %d: %w", amount, models.ErrInvalidAmount)
	}
	return nil
}

func pendingRecord(accountID int64, requestID string, txType models.TransactionType, amount int64, now time.Time) models.Transaction {
	return models.Transaction{
		ID:        uuid.NewString(),
		AccountID: accountID,
		RequestID: requestID,
		Type:      txType,
		Status:    models.PENDING,
		Amount:    amount,
		CreatedAt: now,
	}
}

// orderedLegs returns the legs in ascending account id order so that
// concurrent transfers claim request keys in the same order they lock accounts.
func orderedLegs(a, b models.Transaction) []models.Transaction {
	if b.AccountID < a.AccountID {
		return []models.Transaction{b, a}
	}
	return []models.Transaction{a, b}
}
