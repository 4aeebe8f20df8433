package ledger

import (
	"context"
	"net/http"

	"github.com/chris/remittance-ledger/pkg/accounts"
	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/handlers/respond"
	"github.com/chris/remittance-ledger/pkg/mapping"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
)

// HistoryReader pages through an account's ledger records.
type HistoryReader interface {
	ListTransactions(ctx context.Context, accountNo string, page, pageSize int) (*accounts.TransactionPage, error)
}

// LedgerHandler holds the dependencies for ledger-related handlers.
type LedgerHandler struct {
	History HistoryReader
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(history HistoryReader) *LedgerHandler {
	return &LedgerHandler{History: history}
}

func (h *LedgerHandler) ListTransactionsByAccountNo(w http.ResponseWriter, r *http.Request, accountNo string, params api.ListTransactionsParams) {
	page, pageSize := defaultPage, defaultPageSize
	if params.Page != nil {
		page = *params.Page
	}
	if params.PageSize != nil {
		pageSize = *params.PageSize
	}

	result, err := h.History.ListTransactions(r.Context(), accountNo, page, pageSize)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiTransactionPage(result))
}
