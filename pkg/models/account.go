package models

import (
	"fmt"
	"math"
	"time"
)

// NewAccount returns an ACTIVE account with a zero balance.
func NewAccount(accountNo string, now time.Time) Account {
	return Account{
		AccountNo: accountNo,
		Balance:   0,
		Status:    ACTIVE,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive reports whether the account may still move money.
func (a Account) IsActive() bool {
	return a.Status == ACTIVE
}

// Withdraw returns a copy of the account with amount debited.
// The receiver is never modified.
func (a Account) Withdraw(amount int64, now time.Time) (Account, error) {
	if !a.IsActive() {
		return a, fmt.Errorf("account %d: %w", a.ID, ErrAccountNotActive)
	}
	if amount <= 0 {
		return a, fmt.Errorf("withdraw %d: %w", amount, ErrInvalidAmount)
	}
	if amount > a.Balance {
		return a, fmt.Errorf("account %d has %d, needs %d: %w", a.ID, a.Balance, amount, ErrInsufficientBalance)
	}

	next := a
	next.Balance = a.Balance - amount
	next.UpdatedAt = now
	return next, nil
}

// Deposit returns a copy of the account with amount credited.
func (a Account) Deposit(amount int64, now time.Time) (Account, error) {
	if !a.IsActive() {
		return a, fmt.Errorf("account %d: %w", a.ID, ErrAccountNotActive)
	}
	if amount <= 0 {
		return a, fmt.Errorf("deposit %d: %w", amount, ErrInvalidAmount)
	}
	if a.Balance > math.MaxInt64-amount {
		return a, fmt.Errorf("deposit %d overflows balance: %w", amount, ErrInvalidAmount)
	}

	next := a
	next.Balance = a.Balance + amount
	next.UpdatedAt = now
	return next, nil
}

// Close returns a copy of the account in the terminal CLOSED state.
func (a Account) Close(now time.Time) (Account, error) {
	if !a.IsActive() {
		return a, fmt.Errorf("account %d: %w", a.ID, ErrAccountNotActive)
	}

	next := a
	next.Status = CLOSED
	next.UpdatedAt = now
	return next, nil
}

// DefaultLimitSetting returns the limit setting every new account starts with.
func DefaultLimitSetting(accountID int64, now time.Time) AccountLimitSetting {
	return AccountLimitSetting{
		AccountID:          accountID,
		DailyWithdrawLimit: DefaultDailyWithdrawLimit,
		DailyTransferLimit: DefaultDailyTransferLimit,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// Change returns a copy of the setting with both limits replaced.
func (s AccountLimitSetting) Change(dailyWithdrawLimit, dailyTransferLimit int64, now time.Time) (AccountLimitSetting, error) {
	if dailyWithdrawLimit <= 0 || dailyTransferLimit <= 0 {
		return s, fmt.Errorf("withdraw=%d transfer=%d: %w", dailyWithdrawLimit, dailyTransferLimit, ErrInvalidLimit)
	}

	next := s
	next.DailyWithdrawLimit = dailyWithdrawLimit
	next.DailyTransferLimit = dailyTransferLimit
	next.UpdatedAt = now
	return next, nil
}
