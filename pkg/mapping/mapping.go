package mapping

import (
	"github.com/chris/remittance-ledger/pkg/accounts"
	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/engine"
	"github.com/chris/remittance-ledger/pkg/models"
)

// ToApiAccount converts an account and its limits to the API model.
func ToApiAccount(a *accounts.AccountWithLimits) *api.Account {
	return &api.Account{
		AccountId: a.Account.ID,
		AccountNo: a.Account.AccountNo,
		Balance:   a.Account.Balance,
		Status:    api.AccountStatus(a.Account.Status),
		Limits: api.AccountLimits{
			DailyWithdrawLimit: a.Limits.DailyWithdrawLimit,
			DailyTransferLimit: a.Limits.DailyTransferLimit,
		},
		CreatedAt: a.Account.CreatedAt,
		UpdatedAt: a.Account.UpdatedAt,
	}
}

// ToApiReceipt converts a deposit or withdrawal receipt to the API model.
func ToApiReceipt(r *engine.Receipt) *api.Receipt {
	return &api.Receipt{
		AccountId:               r.AccountID,
		TransactionId:           r.RequestID,
		Type:                    api.TransactionType(r.Type),
		Status:                  api.TransactionStatus(r.Status),
		Amount:                  r.Amount,
		Fee:                     r.Fee,
		BalanceAfterTransaction: r.BalanceAfter,
		CreatedAt:               r.CreatedAt,
	}
}

// ToApiTransferReceipt converts a transfer receipt to the API model.
// A PENDING placeholder has no fee policy yet.
func ToApiTransferReceipt(r *engine.TransferReceipt) *api.TransferReceipt {
	out := &api.TransferReceipt{
		FromAccountId:           r.FromAccountID,
		ToAccountId:             r.ToAccountID,
		TransactionId:           r.RequestID,
		CounterpartyAccountNo:   r.CounterpartyAccountNo,
		Amount:                  r.Amount,
		Fee:                     r.Fee,
		FeeRate:                 r.FeeRate.InexactFloat64(),
		BalanceAfterTransaction: r.BalanceAfter,
		Status:                  api.TransactionStatus(r.Status),
		CreatedAt:               r.CreatedAt,
	}
	if r.FeePolicyType != "" {
		policy := string(r.FeePolicyType)
		out.FeePolicyType = &policy
	}
	return out
}

// ToApiTransaction converts a ledger record to the API history row.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	out := &api.Transaction{
		Id:                      tx.ID,
		TransactionId:           tx.RequestID,
		Type:                    api.TransactionType(tx.Type),
		Status:                  api.TransactionStatus(tx.Status),
		Amount:                  tx.Amount,
		Fee:                     tx.Fee,
		BalanceAfterTransaction: tx.BalanceAfterTransaction,
		CreatedAt:               tx.CreatedAt,
	}
	if tx.FeePolicyType != "" {
		policy := string(tx.FeePolicyType)
		rate := tx.FeeRate.InexactFloat64()
		out.FeePolicyType = &policy
		out.FeeRate = &rate
	}
	if tx.IsTransferLeg() {
		counterparty := tx.CounterpartyAccountNo
		out.CounterpartyAccountNo = &counterparty
	}
	return out
}

// ToApiTransactionPage converts a history page to the API model.
func ToApiTransactionPage(page *accounts.TransactionPage) *api.TransactionPage {
	txs := make([]api.Transaction, len(page.Transactions))
	for i := range page.Transactions {
		txs[i] = *ToApiTransaction(&page.Transactions[i])
	}
	return &api.TransactionPage{Transactions: txs, TransactionCount: page.TransactionCount}
}
