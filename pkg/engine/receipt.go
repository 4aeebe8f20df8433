package engine

import (
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/shopspring/decimal"
)

// Receipt is the outcome of a deposit or withdrawal.
type Receipt struct {
	AccountID    int64
	RequestID    string
	Type         models.TransactionType
	Status       models.TransactionStatus
	Amount       int64
	Fee          int64
	BalanceAfter int64
	CreatedAt    time.Time
	// Replayed is set when the result comes from an earlier request with the same id.
	Replayed bool
}

// TransferReceipt is the outcome of a transfer, seen from the source account.
type TransferReceipt struct {
	FromAccountID         int64
	ToAccountID           int64
	RequestID             string
	CounterpartyAccountNo string
	Amount                int64
	Fee                   int64
	FeeRate               decimal.Decimal
	FeePolicyType         models.FeePolicyType
	BalanceAfter          int64
	Status                models.TransactionStatus
	CreatedAt             time.Time
	Replayed              bool
}

func receiptFrom(rec *models.Transaction, replayed bool) *Receipt {
	return &Receipt{
		AccountID:    rec.AccountID,
		RequestID:    rec.RequestID,
		Type:         rec.Type,
		Status:       rec.Status,
		Amount:       rec.Amount,
		Fee:          rec.Fee,
		BalanceAfter: rec.BalanceAfterTransaction,
		CreatedAt:    rec.CreatedAt,
		Replayed:     replayed,
	}
}

func transferReceiptFrom(rec *models.Transaction, toAccountID int64, replayed bool) *TransferReceipt {
	return &TransferReceipt{
		FromAccountID:         rec.AccountID,
		ToAccountID:           toAccountID,
		RequestID:             rec.RequestID,
		CounterpartyAccountNo: rec.CounterpartyAccountNo,
		Amount:                rec.Amount,
		Fee:                   rec.Fee,
		FeeRate:               rec.FeeRate,
		FeePolicyType:         rec.FeePolicyType,
		BalanceAfter:          rec.BalanceAfterTransaction,
		Status:                rec.Status,
		CreatedAt:             rec.CreatedAt,
		Replayed:              replayed,
	}
}
