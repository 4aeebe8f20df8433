package storage

import (
	"context"

	"github.com/chris/remittance-ledger/pkg/models"
)

// Ledger defines the root interface for the data layer.
// Every state change goes through InTx so that it commits or rolls back as one unit.
type Ledger interface {
	LedgerReader

	// InTx runs fn inside one atomic unit. The unit commits when fn returns nil
	// and rolls back otherwise; all row locks taken through tx are released
	// when InTx returns.
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// LedgerReader holds the non-locking reads used outside an atomic unit.
type LedgerReader interface {
	// FindTransaction returns the committed record for (accountID, requestID)
	// or ErrNotFound.
	FindTransaction(ctx context.Context, accountID int64, requestID string) (*models.Transaction, error)
	GetAccount(ctx context.Context, accountID int64) (*models.Account, error)
	GetAccountByNo(ctx context.Context, accountNo string) (*models.Account, error)
	GetLimitSetting(ctx context.Context, accountID int64) (*models.AccountLimitSetting, error)
	// ListTransactions returns an account's records, newest first.
	ListTransactions(ctx context.Context, accountID int64, offset, limit int) ([]models.Transaction, error)
	// CountTransactions counts an account's records, stopping at max.
	CountTransactions(ctx context.Context, accountID int64, max int) (int, error)
}

// Tx is the set of operations available inside one atomic unit.
type Tx interface {
	// LockAccount returns a fresh copy of the account holding its exclusive row lock.
	LockAccount(ctx context.Context, accountID int64) (*models.Account, error)
	SaveAccount(ctx context.Context, account models.Account) error
	// CreateAccount inserts the account and returns it with its assigned ID.
	CreateAccount(ctx context.Context, account models.Account) (*models.Account, error)

	GetLimitSetting(ctx context.Context, accountID int64) (*models.AccountLimitSetting, error)
	CreateLimitSetting(ctx context.Context, setting models.AccountLimitSetting) error
	SaveLimitSetting(ctx context.Context, setting models.AccountLimitSetting) error

	// LockOrCreateUsage returns the usage row for (accountID, limitDate) holding
	// its exclusive row lock, inserting a zeroed row first when none exists.
	LockOrCreateUsage(ctx context.Context, accountID int64, limitDate string) (*models.AccountDailyLimitUsage, error)
	SaveUsage(ctx context.Context, usage models.AccountDailyLimitUsage) error

	// InsertTransaction claims (AccountID, RequestID). It blocks while another
	// open unit holds the same key and returns ErrDuplicateRequest once the
	// key is taken by a committed record.
	InsertTransaction(ctx context.Context, tx models.Transaction) error
	UpdateTransaction(ctx context.Context, tx models.Transaction) error
}
