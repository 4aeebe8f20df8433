// Package respond writes JSON bodies and maps domain errors to HTTP responses.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/chris/remittance-ledger/pkg/engine"
	"github.com/chris/remittance-ledger/pkg/fee"
	"github.com/chris/remittance-ledger/pkg/idempotency"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
)

// Generic error codes.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeBadRequest         = "BAD_REQUEST"
	CodeConflict           = "CONFLICT"
	CodeInternal           = "INTERNAL_SERVER_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// TypeInvalidRequest is the payload type for malformed input.
const TypeInvalidRequest = "INVALID_REQUEST"

// Order matters: the daily limit variants wrap ErrExceedDailyLimit.
var errorTypes = []struct {
	err error
	typ string
}{
	{models.ErrAccountNotFound, "ACCOUNT_NOT_FOUND"},
	{models.ErrLimitSettingNotFound, "ACCOUNT_LIMIT_SETTING_NOT_FOUND"},
	{storage.ErrNotFound, "TX_NOT_FOUND"},
	{models.ErrInvalidAmount, TypeInvalidRequest},
	{models.ErrMissingRequestID, TypeInvalidRequest},
	{models.ErrInvalidPage, TypeInvalidRequest},
	{models.ErrInvalidLimit, "INVALID_LIMIT"},
	{models.ErrSameAccountTransfer, "SAME_ACCOUNT_TRANSFER"},
	{models.ErrAccountNotActive, "ACCOUNT_NOT_ACTIVE"},
	{models.ErrInsufficientBalance, "INSUFFICIENT_BALANCE"},
	{models.ErrExceedDailyWithdrawLimit, "EXCEED_DAILY_WITHDRAW_LIMIT"},
	{models.ErrExceedDailyTransferLimit, "EXCEED_DAILY_TRANSFER_LIMIT"},
	{models.ErrExceedDailyLimit, "EXCEED_DAILY_LIMIT"},
	{models.ErrRequestIDConflict, "REQUEST_ID_CONFLICT"},
	{storage.ErrLockTimeout, "LOCK_TIMEOUT"},
	{idempotency.ErrUnavailable, "IDEMPOTENCY_UNAVAILABLE"},
	{fee.ErrPolicyNotConfigured, "CALCULATOR_NOT_FOUND"},
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// BadRequest answers malformed input that never reached the domain.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, api.ErrorResponse{
		ErrorCode: CodeBadRequest,
		Message:   message,
		Payload:   &api.ErrorPayload{Type: TypeInvalidRequest},
	})
}

// Error maps err to a status and writes the error body.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var paramErr *api.InvalidParamFormatError
	if errors.As(err, &paramErr) {
		BadRequest(w, paramErr.Error())
		return
	}

	status, code := StatusOf(err)
	message := err.Error()
	switch status {
	case http.StatusInternalServerError:
		slog.ErrorContext(r.Context(), "request failed", "error", err, "path", r.URL.Path)
		message = "unexpected error"
	case http.StatusServiceUnavailable:
		w.Header().Set("Retry-After", "1")
	}

	JSON(w, status, api.ErrorResponse{
		ErrorCode: code,
		Message:   message,
		Payload:   &api.ErrorPayload{Type: TypeOf(err)},
	})
}

// StatusOf returns the HTTP status and generic error code for err.
func StatusOf(err error) (int, string) {
	switch engine.KindOf(err) {
	case engine.KindNotFound:
		return http.StatusNotFound, CodeNotFound
	case engine.KindValidation:
		if errors.Is(err, models.ErrRequestIDConflict) {
			return http.StatusConflict, CodeConflict
		}
		return http.StatusBadRequest, CodeBadRequest
	case engine.KindRetryable:
		return http.StatusServiceUnavailable, CodeServiceUnavailable
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// TypeOf returns the specific error type reported in the payload.
func TypeOf(err error) string {
	for _, et := range errorTypes {
		if errors.Is(err, et.err) {
			return et.typ
		}
	}
	return "UNEXPECTED"
}
