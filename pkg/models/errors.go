package models

import (
	"errors"
	"fmt"
)

// ErrAccountNotFound is returned when no account exists for the given id or number.
var ErrAccountNotFound = errors.New("account not found")

// ErrLimitSettingNotFound is returned when an account has no limit setting row.
var ErrLimitSettingNotFound = errors.New("account limit setting not found")

// ErrInvalidAmount is returned for non-positive or overflowing amounts.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrMissingRequestID is returned when a money movement carries no request id.
var ErrMissingRequestID = errors.New("transaction id is required")

// ErrInvalidLimit is returned when a daily limit is set to a non-positive value.
var ErrInvalidLimit = errors.New("invalid daily limit")

// ErrInvalidPage is returned for out-of-range pagination parameters.
var ErrInvalidPage = errors.New("invalid page request")

// ErrSameAccountTransfer is returned when source and destination of a transfer are equal.
var ErrSameAccountTransfer = errors.New("cannot transfer to the same account")

// ErrAccountNotActive is returned when a closed account is asked to move money or close again.
var ErrAccountNotActive = errors.New("account is not active")

// ErrInsufficientBalance is returned when a debit exceeds the available balance.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrExceedDailyLimit is matched by both daily limit errors below.
var ErrExceedDailyLimit = errors.New("daily limit exceeded")

var (
	ErrExceedDailyWithdrawLimit = fmt.Errorf("%w: withdraw", ErrExceedDailyLimit)
	ErrExceedDailyTransferLimit = fmt.Errorf("%w: transfer", ErrExceedDailyLimit)
)

// ErrRequestIDConflict is returned when a request id is already bound to an
// unrelated record on one of the accounts involved.
var ErrRequestIDConflict = errors.New("request id already used for a different operation")
