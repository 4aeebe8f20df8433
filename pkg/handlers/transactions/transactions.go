package transactions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/engine"
	"github.com/chris/remittance-ledger/pkg/handlers/respond"
	"github.com/chris/remittance-ledger/pkg/mapping"
	"github.com/chris/remittance-ledger/pkg/models"
)

const (
	// IdempotencyHeader carries the request id when the body omits transactionId.
	IdempotencyHeader = "Idempotency-Key"
	// ReplayHeader marks a response served from an earlier request.
	ReplayHeader = "X-Idempotent-Replay"
)

// MoneyMover executes balance-changing operations.
type MoneyMover interface {
	Deposit(ctx context.Context, accountID, amount int64, requestID string) (*engine.Receipt, error)
	Withdraw(ctx context.Context, accountID, amount int64, requestID string) (*engine.Receipt, error)
	Transfer(ctx context.Context, fromAccountID, toAccountID, amount int64, requestID string) (*engine.TransferReceipt, error)
}

// TransactionsHandler holds the dependencies for money movement handlers.
type TransactionsHandler struct {
	Engine MoneyMover
}

// NewTransactionsHandler creates a new TransactionsHandler.
func NewTransactionsHandler(engine MoneyMover) *TransactionsHandler {
	return &TransactionsHandler{Engine: engine}
}

// Deposit credits an account.
func (h *TransactionsHandler) Deposit(w http.ResponseWriter, r *http.Request, accountId int64) {
	h.move(w, r, accountId, h.Engine.Deposit)
}

// Withdraw debits an account.
func (h *TransactionsHandler) Withdraw(w http.ResponseWriter, r *http.Request, accountId int64) {
	h.move(w, r, accountId, h.Engine.Withdraw)
}

func (h *TransactionsHandler) move(w http.ResponseWriter, r *http.Request, accountId int64,
	op func(context.Context, int64, int64, string) (*engine.Receipt, error)) {
	var req api.MoneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	receipt, err := op(r.Context(), accountId, req.Amount, requestID(r, req.TransactionId))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if receipt.Replayed {
		w.Header().Set(ReplayHeader, "true")
	}
	respond.JSON(w, statusFor(receipt.Status), mapping.ToApiReceipt(receipt))
}

// Transfer moves money between two accounts.
func (h *TransactionsHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req api.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	receipt, err := h.Engine.Transfer(r.Context(), req.FromAccountId, req.ToAccountId, req.Amount, requestID(r, req.TransactionId))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if receipt.Replayed {
		w.Header().Set(ReplayHeader, "true")
	}
	respond.JSON(w, statusFor(receipt.Status), mapping.ToApiTransferReceipt(receipt))
}

// requestID prefers the body value over the header.
func requestID(r *http.Request, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return r.Header.Get(IdempotencyHeader)
}

// A PENDING placeholder means another request with the same id is still running.
func statusFor(status models.TransactionStatus) int {
	if status == models.PENDING {
		return http.StatusAccepted
	}
	return http.StatusOK
}
