package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	accountsvc "github.com/chris/remittance-ledger/pkg/accounts"
	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/handlers/respond"
	"github.com/chris/remittance-ledger/pkg/mapping"
)

// AccountManager is the account administration the handlers need.
type AccountManager interface {
	Create(ctx context.Context) (*accountsvc.AccountWithLimits, error)
	Get(ctx context.Context, accountID int64) (*accountsvc.AccountWithLimits, error)
	Close(ctx context.Context, accountID int64) error
	UpdateLimits(ctx context.Context, accountID, dailyWithdrawLimit, dailyTransferLimit int64) (*accountsvc.AccountWithLimits, error)
}

// AccountsHandler holds the dependencies for account-related handlers.
type AccountsHandler struct {
	Accounts AccountManager
}

// NewAccountsHandler creates a new AccountsHandler.
func NewAccountsHandler(accounts AccountManager) *AccountsHandler {
	return &AccountsHandler{Accounts: accounts}
}

// CreateAccount opens a new account with the default limits.
func (h *AccountsHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	created, err := h.Accounts.Create(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, mapping.ToApiAccount(created))
}

// GetAccount returns an account with its limits.
func (h *AccountsHandler) GetAccount(w http.ResponseWriter, r *http.Request, accountId int64) {
	account, err := h.Accounts.Get(r.Context(), accountId)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiAccount(account))
}

// CloseAccount handles the logic for closing an account.
func (h *AccountsHandler) CloseAccount(w http.ResponseWriter, r *http.Request, accountId int64) {
	if err := h.Accounts.Close(r.Context(), accountId); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountsHandler) UpdateAccountLimits(w http.ResponseWriter, r *http.Request, accountId int64) {
	var limits api.AccountLimits
	if err := json.NewDecoder(r.Body).Decode(&limits); err != nil {
		respond.BadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	updated, err := h.Accounts.UpdateLimits(r.Context(), accountId, limits.DailyWithdrawLimit, limits.DailyTransferLimit)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiAccount(updated))
}
