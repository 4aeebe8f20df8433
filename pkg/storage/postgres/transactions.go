package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const transactionColumns = `id, account_id, request_id, type, status, amount, fee,
	fee_policy_type, fee_rate::text, fee_applied_at, counterparty_account_no,
	balance_after_transaction, created_at`

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		tx           models.Transaction
		txType       string
		status       string
		policyType   *string
		feeRate      *string
		feeAppliedAt *time.Time
		counterparty *string
	)
	err := row.Scan(&tx.ID, &tx.AccountID, &tx.RequestID, &txType, &status, &tx.Amount, &tx.Fee,
		&policyType, &feeRate, &feeAppliedAt, &counterparty,
		&tx.BalanceAfterTransaction, &tx.CreatedAt)
	if err != nil {
		return nil, err
	}

	tx.Type = models.TransactionType(txType)
	tx.Status = models.TransactionStatus(status)
	tx.FeeAppliedAt = feeAppliedAt
	if policyType != nil {
		tx.FeePolicyType = models.FeePolicyType(*policyType)
	}
	if counterparty != nil {
		tx.CounterpartyAccountNo = *counterparty
	}
	if feeRate != nil {
		rate, err := decimal.NewFromString(*feeRate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fee rate %q: %w", *feeRate, err)
		}
		tx.FeeRate = rate
	}
	return &tx, nil
}

// nullable returns nil for the zero value so the column stores NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func feeRateArg(tx models.Transaction) *string {
	if tx.FeePolicyType == "" {
		return nil
	}
	rate := tx.FeeRate.String()
	return &rate
}

// FindTransaction returns the committed record for (accountID, requestID).
func (s *Store) FindTransaction(ctx context.Context, accountID int64, requestID string) (*models.Transaction, error) {
	tx, err := scanTransaction(s.Pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE account_id = $1 AND request_id = $2`,
		accountID, requestID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("transaction %d/%s: %w", accountID, requestID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", mapError(err))
	}
	return tx, nil
}

// ListTransactions returns an account's records, newest first.
func (s *Store) ListTransactions(ctx context.Context, accountID int64, offset, limit int) ([]models.Transaction, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE account_id = $1
		 ORDER BY created_at DESC, id DESC
		 OFFSET $2 LIMIT $3`,
		accountID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", mapError(err))
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0, limit)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", mapError(err))
	}
	return transactions, nil
}

// CountTransactions counts an account's records, reading at most max rows.
func (s *Store) CountTransactions(ctx context.Context, accountID int64, max int) (int, error) {
	var count int
	err := s.Pool.QueryRow(ctx,
		`SELECT count(*) FROM (
		     SELECT 1 FROM transactions WHERE account_id = $1 LIMIT $2
		 ) capped`,
		accountID, max).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", mapError(err))
	}
	return count, nil
}

func (u *unit) InsertTransaction(ctx context.Context, tx models.Transaction) error {
	_, err := u.tx.Exec(ctx,
		`INSERT INTO transactions (id, account_id, request_id, type, status, amount, fee,
		     fee_policy_type, fee_rate, fee_applied_at, counterparty_account_no,
		     balance_after_transaction, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::numeric, $10, $11, $12, $13)`,
		tx.ID, tx.AccountID, tx.RequestID, string(tx.Type), string(tx.Status), tx.Amount, tx.Fee,
		nullable(string(tx.FeePolicyType)), feeRateArg(tx), tx.FeeAppliedAt, nullable(tx.CounterpartyAccountNo),
		tx.BalanceAfterTransaction, tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %d/%s: %w", tx.AccountID, tx.RequestID, mapError(err))
	}
	return nil
}

func (u *unit) UpdateTransaction(ctx context.Context, tx models.Transaction) error {
	tag, err := u.tx.Exec(ctx,
		`UPDATE transactions
		 SET status = $3, fee = $4, fee_policy_type = $5, fee_rate = $6::numeric,
		     fee_applied_at = $7, counterparty_account_no = $8, balance_after_transaction = $9
		 WHERE account_id = $1 AND request_id = $2`,
		tx.AccountID, tx.RequestID, string(tx.Status), tx.Fee,
		nullable(string(tx.FeePolicyType)), feeRateArg(tx), tx.FeeAppliedAt,
		nullable(tx.CounterpartyAccountNo), tx.BalanceAfterTransaction)
	if err != nil {
		return fmt.Errorf("failed to update transaction %d/%s: %w", tx.AccountID, tx.RequestID, mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %d/%s: %w", tx.AccountID, tx.RequestID, storage.ErrNotFound)
	}
	return nil
}
