package handlers

import (
	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/handlers/accounts"
	"github.com/chris/remittance-ledger/pkg/handlers/ledger"
	"github.com/chris/remittance-ledger/pkg/handlers/transactions"
)

// ApiHandler implements the server interface by composing the resource handlers.
type ApiHandler struct {
	*accounts.AccountsHandler
	*transactions.TransactionsHandler
	*ledger.LedgerHandler
}

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(accountManager accounts.AccountManager, mover transactions.MoneyMover, history ledger.HistoryReader) *ApiHandler {
	return &ApiHandler{
		AccountsHandler:     accounts.NewAccountsHandler(accountManager),
		TransactionsHandler: transactions.NewTransactionsHandler(mover),
		LedgerHandler:       ledger.NewLedgerHandler(history),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)
