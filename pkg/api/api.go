// Package api holds the HTTP wire types and the chi routes that bind them
// to a ServerInterface. Both are maintained by hand.
package api

import "time"

// Account status values on the wire.
type AccountStatus string

const (
	AccountStatusACTIVE AccountStatus = "ACTIVE"
	AccountStatusCLOSED AccountStatus = "CLOSED"
)

// TransactionType is DEPOSIT or WITHDRAW.
type TransactionType string

// TransactionStatus is PENDING or SUCCESS.
type TransactionStatus string

// AccountLimits are the daily caps shown on an account.
type AccountLimits struct {
	DailyWithdrawLimit int64 `json:"dailyWithdrawLimit"`
	DailyTransferLimit int64 `json:"dailyTransferLimit"`
}

// Account is the account view returned by the account routes.
type Account struct {
	AccountId int64         `json:"accountId"`
	AccountNo string        `json:"accountNo"`
	Balance   int64         `json:"balance"`
	Status    AccountStatus `json:"status"`
	Limits    AccountLimits `json:"limits"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// MoneyRequest is the body of a deposit or withdrawal.
type MoneyRequest struct {
	Amount        int64  `json:"amount"`
	TransactionId string `json:"transactionId"`
}

// TransferRequest is the body of POST /api/transfers.
type TransferRequest struct {
	FromAccountId int64  `json:"fromAccountId"`
	ToAccountId   int64  `json:"toAccountId"`
	Amount        int64  `json:"amount"`
	TransactionId string `json:"transactionId"`
}

// Receipt answers a deposit or withdrawal.
type Receipt struct {
	AccountId               int64             `json:"accountId"`
	TransactionId           string            `json:"transactionId"`
	Type                    TransactionType   `json:"type"`
	Status                  TransactionStatus `json:"status"`
	Amount                  int64             `json:"amount"`
	Fee                     int64             `json:"fee"`
	BalanceAfterTransaction int64             `json:"balanceAfterTransaction"`
	CreatedAt               time.Time         `json:"createdAt"`
}

// TransferReceipt answers a transfer, seen from the source account.
type TransferReceipt struct {
	FromAccountId           int64             `json:"fromAccountId"`
	ToAccountId             int64             `json:"toAccountId"`
	TransactionId           string            `json:"transactionId"`
	CounterpartyAccountNo   string            `json:"counterpartyAccountNo"`
	Amount                  int64             `json:"amount"`
	Fee                     int64             `json:"fee"`
	FeeRate                 float64           `json:"feeRate"`
	FeePolicyType           *string           `json:"feePolicyType,omitempty"`
	BalanceAfterTransaction int64             `json:"balanceAfterTransaction"`
	Status                  TransactionStatus `json:"status"`
	CreatedAt               time.Time         `json:"createdAt"`
}

// Transaction is one row of an account's history.
type Transaction struct {
	Id                      string            `json:"id"`
	TransactionId           string            `json:"transactionId"`
	Type                    TransactionType   `json:"type"`
	Status                  TransactionStatus `json:"status"`
	Amount                  int64             `json:"amount"`
	Fee                     int64             `json:"fee"`
	FeeRate                 *float64          `json:"feeRate,omitempty"`
	FeePolicyType           *string           `json:"feePolicyType,omitempty"`
	CounterpartyAccountNo   *string           `json:"counterpartyAccountNo,omitempty"`
	BalanceAfterTransaction int64             `json:"balanceAfterTransaction"`
	CreatedAt               time.Time         `json:"createdAt"`
}

// TransactionPage is one page of history with the capped total count.
type TransactionPage struct {
	Transactions     []Transaction `json:"transactions"`
	TransactionCount int           `json:"transactionCount"`
}

// ErrorPayload carries the specific error type.
type ErrorPayload struct {
	Type string `json:"type"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	ErrorCode string        `json:"errorCode"`
	Message   string        `json:"message"`
	Payload   *ErrorPayload `json:"payload,omitempty"`
}

// ListTransactionsParams are the optional paging query parameters.
type ListTransactionsParams struct {
	Page     *int `form:"page,omitempty" json:"page,omitempty"`
	PageSize *int `form:"pageSize,omitempty" json:"pageSize,omitempty"`
}
