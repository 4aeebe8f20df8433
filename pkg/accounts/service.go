// Package accounts holds account administration: opening, reading, closing,
// limit changes and transaction history.
package accounts

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
	"github.com/google/uuid"
)

const (
	// MaxPageSize bounds the pageSize accepted by ListTransactions.
	MaxPageSize = 100
	// pageLinks is how many pages ahead the capped count has to cover.
	pageLinks = 10
)

// AccountWithLimits is an account together with its limit setting.
type AccountWithLimits struct {
	Account models.Account
	Limits  models.AccountLimitSetting
}

// TransactionPage is one page of an account's history.
type TransactionPage struct {
	Transactions []models.Transaction
	// TransactionCount is exact up to the cap returned by CountLimit.
	TransactionCount int
}

// Service holds the dependencies for account administration.
type Service struct {
	ledger       storage.Ledger
	logger       *slog.Logger
	now          func() time.Time
	newAccountNo func() string
}

// NewService creates a new Service.
func NewService(ledger storage.Ledger, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		ledger:       ledger,
		logger:       logger,
		now:          time.Now,
		newAccountNo: uuid.NewString,
	}
}

// Create opens an ACTIVE account with a zero balance and the default limits.
func (s *Service) Create(ctx context.Context) (*AccountWithLimits, error) {
	now := s.now()
	var out AccountWithLimits
	err := s.ledger.InTx(ctx, func(tx storage.Tx) error {
		acc, err := tx.CreateAccount(ctx, models.NewAccount(s.newAccountNo(), now))
		if err != nil {
			return err
		}
		setting := models.DefaultLimitSetting(acc.ID, now)
		if err := tx.CreateLimitSetting(ctx, setting); err != nil {
			return err
		}
		out = AccountWithLimits{Account: *acc, Limits: setting}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.InfoContext(ctx, "account opened", "account_id", out.Account.ID, "account_no", out.Account.AccountNo)
	return &out, nil
}

// Get returns an account and its limit setting.
func (s *Service) Get(ctx context.Context, accountID int64) (*AccountWithLimits, error) {
	acc, err := s.ledger.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	setting, err := s.ledger.GetLimitSetting(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &AccountWithLimits{Account: *acc, Limits: *setting}, nil
}

// Close moves an ACTIVE account to CLOSED. Closing twice fails with ErrAccountNotActive.
func (s *Service) Close(ctx context.Context, accountID int64) error {
	err := s.ledger.InTx(ctx, func(tx storage.Tx) error {
		acc, err := tx.LockAccount(ctx, accountID)
		if err != nil {
			return err
		}
		closed, err := acc.Close(s.now())
		if err != nil {
			return err
		}
		return tx.SaveAccount(ctx, closed)
	})
	if err != nil {
		return fmt.Errorf("failed to close account: %w", err)
	}

	s.logger.InfoContext(ctx, "account closed", "account_id", accountID)
	return nil
}

// UpdateLimits replaces both daily limits. The account lock serializes the
// change with in-flight movements on the same account.
func (s *Service) UpdateLimits(ctx context.Context, accountID, dailyWithdrawLimit, dailyTransferLimit int64) (*AccountWithLimits, error) {
	var out AccountWithLimits
	err := s.ledger.InTx(ctx, func(tx storage.Tx) error {
		acc, err := tx.LockAccount(ctx, accountID)
		if err != nil {
			return err
		}
		setting, err := tx.GetLimitSetting(ctx, accountID)
		if err != nil {
			return err
		}
		changed, err := setting.Change(dailyWithdrawLimit, dailyTransferLimit, s.now())
		if err != nil {
			return err
		}
		if err := tx.SaveLimitSetting(ctx, changed); err != nil {
			return err
		}
		out = AccountWithLimits{Account: *acc, Limits: changed}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update limits: %w", err)
	}
	return &out, nil
}

// ListTransactions returns one page of an account's history, newest first.
// page starts at 1.
func (s *Service) ListTransactions(ctx context.Context, accountNo string, page, pageSize int) (*TransactionPage, error) {
	if page < 1 || pageSize < 1 || pageSize > MaxPageSize || page > MaxPage(pageSize) {
		return nil, fmt.Errorf("page=%d pageSize=%d: %w", page, pageSize, models.ErrInvalidPage)
	}

	acc, err := s.ledger.GetAccountByNo(ctx, accountNo)
	if err != nil {
		return nil, err
	}

	offset := (page - 1) * pageSize
	txs, err := s.ledger.ListTransactions(ctx, acc.ID, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	count, err := s.ledger.CountTransactions(ctx, acc.ID, CountLimit(page, pageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	return &TransactionPage{Transactions: txs, TransactionCount: count}, nil
}

// MaxPage is the highest page whose offset and CountLimit fit in an int.
func MaxPage(pageSize int) int {
	return (math.MaxInt - pageSize*pageLinks) / pageSize
}

// CountLimit is the most rows the history count reads: enough to tell whether
// the next ten pages exist.
func CountLimit(page, pageSize int) int {
	return (page-1)*pageSize + pageSize*pageLinks + 1
}
