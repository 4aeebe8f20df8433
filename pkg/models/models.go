package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus defines the lifecycle states of an account.
type AccountStatus string

const (
	ACTIVE AccountStatus = "ACTIVE"
	CLOSED AccountStatus = "CLOSED"
)

// TransactionType defines the direction of a ledger record.
// Transfer legs are recorded as WITHDRAW on the source and DEPOSIT on the
// destination, with CounterpartyAccountNo set.
type TransactionType string

const (
	DEPOSIT  TransactionType = "DEPOSIT"
	WITHDRAW TransactionType = "WITHDRAW"
)

// TransactionStatus defines the possible states of a ledger record.
type TransactionStatus string

const (
	PENDING TransactionStatus = "PENDING"
	SUCCESS TransactionStatus = "SUCCESS"
)

// FeePolicyType names the fee rule that priced a transfer.
type FeePolicyType string

const (
	FeePolicyDefault FeePolicyType = "DEFAULT"
	FeePolicyNight   FeePolicyType = "NIGHT"
)

// Default daily limits applied when an account is opened.
const (
	DefaultDailyWithdrawLimit int64 = 1_000_000
	DefaultDailyTransferLimit int64 = 3_000_000
)

// Account represents the internal domain model for an account.
type Account struct {
	ID        int64         `json:"account_id"`
	AccountNo string        `json:"account_no"`
	Balance   int64         `json:"balance"`
	Status    AccountStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// AccountLimitSetting holds the configured daily movement limits of an account.
type AccountLimitSetting struct {
	AccountID          int64     `json:"account_id"`
	DailyWithdrawLimit int64     `json:"daily_withdraw_limit"`
	DailyTransferLimit int64     `json:"daily_transfer_limit"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// AccountDailyLimitUsage accumulates one account's movements for one calendar day.
type AccountDailyLimitUsage struct {
	AccountID    int64     `json:"account_id"`
	LimitDate    string    `json:"limit_date"`
	WithdrawUsed int64     `json:"withdraw_used"`
	TransferUsed int64     `json:"transfer_used"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Transaction is a ledger record: the outcome of one money-movement leg.
type Transaction struct {
	ID                      string            `json:"id"`
	AccountID               int64             `json:"account_id"`
	RequestID               string            `json:"request_id"`
	Type                    TransactionType   `json:"type"`
	Status                  TransactionStatus `json:"status"`
	Amount                  int64             `json:"amount"`
	Fee                     int64             `json:"fee"`
	FeePolicyType           FeePolicyType     `json:"fee_policy_type,omitempty"`
	FeeRate                 decimal.Decimal   `json:"fee_rate"`
	FeeAppliedAt            *time.Time        `json:"fee_applied_at,omitempty"`
	CounterpartyAccountNo   string            `json:"counterparty_account_no,omitempty"`
	BalanceAfterTransaction int64             `json:"balance_after_transaction"`
	CreatedAt               time.Time         `json:"created_at"`
}

// IsTransferLeg reports whether the record is one side of a transfer.
func (t *Transaction) IsTransferLeg() bool {
	return t.CounterpartyAccountNo != ""
}
