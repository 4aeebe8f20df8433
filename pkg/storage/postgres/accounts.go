package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, account_no, balance, status, created_at, updated_at`

const limitSettingColumns = `account_id, daily_withdraw_limit, daily_transfer_limit, created_at, updated_at`

const usageColumns = `account_id, limit_date, withdraw_used, transfer_used, created_at, updated_at`

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// unit implements storage.Tx over an open pgx transaction.
type unit struct {
	tx pgx.Tx
}

var _ storage.Tx = (*unit)(nil)

func scanAccount(row rowScanner) (*models.Account, error) {
	var acc models.Account
	var status string
	if err := row.Scan(&acc.ID, &acc.AccountNo, &acc.Balance, &status, &acc.CreatedAt, &acc.UpdatedAt); err != nil {
		return nil, err
	}
	acc.Status = models.AccountStatus(status)
	return &acc, nil
}

func scanLimitSetting(row rowScanner) (*models.AccountLimitSetting, error) {
	var s models.AccountLimitSetting
	if err := row.Scan(&s.AccountID, &s.DailyWithdrawLimit, &s.DailyTransferLimit, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func scanUsage(row rowScanner) (*models.AccountDailyLimitUsage, error) {
	var u models.AccountDailyLimitUsage
	if err := row.Scan(&u.AccountID, &u.LimitDate, &u.WithdrawUsed, &u.TransferUsed, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetAccount retrieves an account without locking it.
func (s *Store) GetAccount(ctx context.Context, accountID int64) (*models.Account, error) {
	acc, err := scanAccount(s.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, accountID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", accountID, models.ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", mapError(err))
	}
	return acc, nil
}

// GetAccountByNo retrieves an account by its public account number.
func (s *Store) GetAccountByNo(ctx context.Context, accountNo string) (*models.Account, error) {
	acc, err := scanAccount(s.Pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_no = $1`, accountNo))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("account %s: %w", accountNo, models.ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by number: %w", mapError(err))
	}
	return acc, nil
}

// GetLimitSetting retrieves the limit setting of an account.
func (s *Store) GetLimitSetting(ctx context.Context, accountID int64) (*models.AccountLimitSetting, error) {
	return getLimitSetting(s.Pool.QueryRow(ctx, `SELECT `+limitSettingColumns+` FROM account_limit_settings WHERE account_id = $1`, accountID), accountID)
}

func getLimitSetting(row pgx.Row, accountID int64) (*models.AccountLimitSetting, error) {
	setting, err := scanLimitSetting(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", accountID, models.ErrLimitSettingNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get limit setting: %w", mapError(err))
	}
	return setting, nil
}

func (u *unit) LockAccount(ctx context.Context, accountID int64) (*models.Account, error) {
	acc, err := scanAccount(u.tx.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR NO KEY UPDATE`, accountID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("account %d: %w", accountID, models.ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %d: %w", accountID, mapError(err))
	}
	return acc, nil
}

func (u *unit) SaveAccount(ctx context.Context, account models.Account) error {
	tag, err := u.tx.Exec(ctx,
		`UPDATE accounts SET balance = $2, status = $3, updated_at = $4 WHERE id = $1`,
		account.ID, account.Balance, string(account.Status), account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save account %d: %w", account.ID, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %d: %w", account.ID, models.ErrAccountNotFound)
	}
	return nil
}

func (u *unit) CreateAccount(ctx context.Context, account models.Account) (*models.Account, error) {
	err := u.tx.QueryRow(ctx,
		`INSERT INTO accounts (account_no, balance, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		account.AccountNo, account.Balance, string(account.Status), account.CreatedAt, account.UpdatedAt,
	).Scan(&account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", mapError(err))
	}
	return &account, nil
}

func (u *unit) GetLimitSetting(ctx context.Context, accountID int64) (*models.AccountLimitSetting, error) {
	return getLimitSetting(u.tx.QueryRow(ctx, `SELECT `+limitSettingColumns+` FROM account_limit_settings WHERE account_id = $1`, accountID), accountID)
}

func (u *unit) CreateLimitSetting(ctx context.Context, setting models.AccountLimitSetting) error {
	_, err := u.tx.Exec(ctx,
		`INSERT INTO account_limit_settings (`+limitSettingColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		setting.AccountID, setting.DailyWithdrawLimit, setting.DailyTransferLimit, setting.CreatedAt, setting.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create limit setting: %w", mapError(err))
	}
	return nil
}

func (u *unit) SaveLimitSetting(ctx context.Context, setting models.AccountLimitSetting) error {
	tag, err := u.tx.Exec(ctx,
		`UPDATE account_limit_settings
		 SET daily_withdraw_limit = $2, daily_transfer_limit = $3, updated_at = $4
		 WHERE account_id = $1`,
		setting.AccountID, setting.DailyWithdrawLimit, setting.DailyTransferLimit, setting.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save limit setting: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %d: %w", setting.AccountID, models.ErrLimitSettingNotFound)
	}
	return nil
}

func (u *unit) LockOrCreateUsage(ctx context.Context, accountID int64, limitDate string) (*models.AccountDailyLimitUsage, error) {
	// A concurrent creator makes this insert wait and then do nothing.
	_, err := u.tx.Exec(ctx,
		`INSERT INTO account_daily_limit_usages (`+usageColumns+`)
		 VALUES ($1, $2, 0, 0, now(), now())
		 ON CONFLICT (account_id, limit_date) DO NOTHING`,
		accountID, limitDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create usage row: %w", mapError(err))
	}

	usage, err := scanUsage(u.tx.QueryRow(ctx,
		`SELECT `+usageColumns+` FROM account_daily_limit_usages
		 WHERE account_id = $1 AND limit_date = $2 FOR UPDATE`,
		accountID, limitDate))
	if err != nil {
		return nil, fmt.Errorf("failed to lock usage row: %w", mapError(err))
	}
	return usage, nil
}

func (u *unit) SaveUsage(ctx context.Context, usage models.AccountDailyLimitUsage) error {
	_, err := u.tx.Exec(ctx,
		`UPDATE account_daily_limit_usages
		 SET withdraw_used = $3, transfer_used = $4, updated_at = $5
		 WHERE account_id = $1 AND limit_date = $2`,
		usage.AccountID, usage.LimitDate, usage.WithdrawUsed, usage.TransferUsed, usage.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save usage row: %w", mapError(err))
	}
	return nil
}
