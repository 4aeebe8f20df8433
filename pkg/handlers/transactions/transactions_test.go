package transactions_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/engine"
	"github.com/chris/remittance-ledger/pkg/handlers/mocks"
	"github.com/chris/remittance-ledger/pkg/handlers/transactions"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWithdraw(t *testing.T) {
	body, _ := json.Marshal(api.MoneyRequest{Amount: 10_000, TransactionId: "req-1"})

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mover := new(mocks.MoneyMover)
		mover.On("Withdraw", mock.Anything, int64(7), int64(10_000), "req-1").Return(&engine.Receipt{
			AccountID: 7, RequestID: "req-1", Type: models.WITHDRAW, Status: models.SUCCESS,
			Amount: 10_000, BalanceAfter: 90_000, CreatedAt: time.Now(),
		}, nil)

		h := transactions.NewTransactionsHandler(mover)
		req := httptest.NewRequest(http.MethodPost, "/api/accounts/7/withdraw", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		// Act
		h.Withdraw(rr, req, 7)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get(transactions.ReplayHeader))

		var receipt api.Receipt
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &receipt))
		assert.Equal(t, int64(90_000), receipt.BalanceAfterTransaction)
		assert.Equal(t, "req-1", receipt.TransactionId)
		mover.AssertExpectations(t)
	})

	t.Run("Replay Sets Header", func(t *testing.T) {
		mover := new(mocks.MoneyMover)
		mover.On("Withdraw", mock.Anything, int64(7), int64(10_000), "req-1").Return(&engine.Receipt{
			AccountID: 7, RequestID: "req-1", Status: models.SUCCESS, Replayed: true,
		}, nil)

		h := transactions.NewTransactionsHandler(mover)
		req := httptest.NewRequest(http.MethodPost, "/api/accounts/7/withdraw", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.Withdraw(rr, req, 7)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "true", rr.Header().Get(transactions.ReplayHeader))
		mover.AssertExpectations(t)
	})

	t.Run("In Flight Duplicate Is Accepted", func(t *testing.T) {
		mover := new(mocks.MoneyMover)
		mover.On("Withdraw", mock.Anything, int64(7), int64(10_000), "req-1").Return(&engine.Receipt{
			AccountID: 7, RequestID: "req-1", Status: models.PENDING, Replayed: true,
		}, nil)

		h := transactions.NewTransactionsHandler(mover)
		req := httptest.NewRequest(http.MethodPost, "/api/accounts/7/withdraw", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.Withdraw(rr, req, 7)

		assert.Equal(t, http.StatusAccepted, rr.Code)
	})

	t.Run("Insufficient Balance", func(t *testing.T) {
		mover := new(mocks.MoneyMover)
		mover.On("Withdraw", mock.Anything, int64(7), int64(10_000), "req-1").
			Return(nil, fmt.Errorf("withdraw failed: %w", models.ErrInsufficientBalance))

		h := transactions.NewTransactionsHandler(mover)
		req := httptest.NewRequest(http.MethodPost, "/api/accounts/7/withdraw", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.Withdraw(rr, req, 7)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var resp api.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "BAD_REQUEST", resp.ErrorCode)
		require.NotNil(t, resp.Payload)
		assert.Equal(t, "INSUFFICIENT_BALANCE", resp.Payload.Type)
	})

	t.Run("Lock Timeout Is Retryable", func(t *testing.T) {
		mover := new(mocks.MoneyMover)
		mover.On("Withdraw", mock.Anything, int64(7), int64(10_000), "req-1").Return(nil, storage.ErrLockTimeout)

		h := transactions.NewTransactionsHandler(mover)
		req := httptest.NewRequest(http.MethodPost, "/api/accounts/7/withdraw", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.Withdraw(rr, req, 7)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, "1", rr.Header().Get("Retry-After"))
	})

	t.Run("Invalid Body", func(t *testing.T) {
		mover := new(mocks.MoneyMover)
		h := transactions.NewTransactionsHandler(mover)
		req := httptest.NewRequest(http.MethodPost, "/api/accounts/7/withdraw", bytes.NewReader([]byte("{")))
		rr := httptest.NewRecorder()

		h.Withdraw(rr, req, 7)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mover.AssertNotCalled(t, "Withdraw", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDepositUsesIdempotencyHeader(t *testing.T) {
	// Arrange
	mover := new(mocks.MoneyMover)
	mover.On("Deposit", mock.Anything, int64(3), int64(500), "header-key").Return(&engine.Receipt{
		AccountID: 3, RequestID: "header-key", Type: models.DEPOSIT, Status: models.SUCCESS, Amount: 500, BalanceAfter: 500,
	}, nil)

	h := transactions.NewTransactionsHandler(mover)
	body, _ := json.Marshal(api.MoneyRequest{Amount: 500})
	req := httptest.NewRequest(http.MethodPost, "/api/accounts/3/deposit", bytes.NewReader(body))
	req.Header.Set(transactions.IdempotencyHeader, "header-key")
	rr := httptest.NewRecorder()

	// Act
	h.Deposit(rr, req, 3)

	// Assert
	assert.Equal(t, http.StatusOK, rr.Code)
	mover.AssertExpectations(t)
}

func TestTransfer(t *testing.T) {
	reqBody := api.TransferRequest{FromAccountId: 1, ToAccountId: 2, Amount: 100_000, TransactionId: "tr-1"}
	body, _ := json.Marshal(reqBody)

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mover := new(mocks.MoneyMover)
		mover.On("Transfer", mock.Anything, int64(1), int64(2), int64(100_000), "tr-1").Return(&engine.TransferReceipt{
			FromAccountID: 1, ToAccountID: 2, RequestID: "tr-1", CounterpartyAccountNo: "acc-2",
			Amount: 100_000, Fee: 1_000, FeeRate: decimal.RequireFromString("0.01"),
			FeePolicyType: models.FeePolicyDefault, BalanceAfter: 399_000, Status: models.SUCCESS,
		}, nil)

		h := transactions.NewTransactionsHandler(mover)
		req := httptest.NewRequest(http.MethodPost, "/api/transfers", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		// Act
		h.Transfer(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		var receipt api.TransferReceipt
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &receipt))
		assert.Equal(t, int64(1_000), receipt.Fee)
		assert.Equal(t, 0.01, receipt.FeeRate)
		assert.Equal(t, "acc-2", receipt.CounterpartyAccountNo)
		mover.AssertExpectations(t)
	})

	t.Run("Request Id Conflict", func(t *testing.T) {
		mover := new(mocks.MoneyMover)
		mover.On("Transfer", mock.Anything, int64(1), int64(2), int64(100_000), "tr-1").Return(nil, models.ErrRequestIDConflict)

		h := transactions.NewTransactionsHandler(mover)
		req := httptest.NewRequest(http.MethodPost, "/api/transfers", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.Transfer(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Unknown Account", func(t *testing.T) {
		mover := new(mocks.MoneyMover)
		mover.On("Transfer", mock.Anything, int64(1), int64(2), int64(100_000), "tr-1").Return(nil, models.ErrAccountNotFound)

		h := transactions.NewTransactionsHandler(mover)
		req := httptest.NewRequest(http.MethodPost, "/api/transfers", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.Transfer(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Internal Error Hides Detail", func(t *testing.T) {
		mover := new(mocks.MoneyMover)
		mover.On("Transfer", mock.Anything, int64(1), int64(2), int64(100_000), "tr-1").Return(nil, assert.AnError)

		h := transactions.NewTransactionsHandler(mover)
		req := httptest.NewRequest(http.MethodPost, "/api/transfers", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.Transfer(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), assert.AnError.Error())
	})
}
