package models

import (
	"fmt"
	"time"
)

// LimitDateLayout is the calendar-day key format of daily usage rows.
const LimitDateLayout = "2006-01-02"

// LimitDate returns the usage row key for t in t's own location.
func LimitDate(t time.Time) string {
	return t.Format(LimitDateLayout)
}

// NewDailyLimitUsage returns a zeroed usage row for the given account and day.
func NewDailyLimitUsage(accountID int64, limitDate string, now time.Time) AccountDailyLimitUsage {
	return AccountDailyLimitUsage{
		AccountID: accountID,
		LimitDate: limitDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CheckWithdraw fails when amount would push today's withdrawals past limit.
// Reaching the limit exactly is allowed.
func (u AccountDailyLimitUsage) CheckWithdraw(amount, limit int64) error {
	if exceeds(u.WithdrawUsed, amount, limit) {
		return fmt.Errorf("account %d used %d of %d, requested %d: %w", u.AccountID, u.WithdrawUsed, limit, amount, ErrExceedDailyWithdrawLimit)
	}
	return nil
}

// CheckTransfer fails when amount would push today's transfers past limit.
func (u AccountDailyLimitUsage) CheckTransfer(amount, limit int64) error {
	if exceeds(u.TransferUsed, amount, limit) {
		return fmt.Errorf("account %d used %d of %d, requested %d: %w", u.AccountID, u.TransferUsed, limit, amount, ErrExceedDailyTransferLimit)
	}
	return nil
}

// AddWithdrawUsed returns a copy with amount added to the withdraw counter.
// Callers must have passed CheckWithdraw under the same row lock.
func (u AccountDailyLimitUsage) AddWithdrawUsed(amount int64, now time.Time) AccountDailyLimitUsage {
	next := u
	next.WithdrawUsed += amount
	next.UpdatedAt = now
	return next
}

// AddTransferUsed returns a copy with amount added to the transfer counter.
func (u AccountDailyLimitUsage) AddTransferUsed(amount int64, now time.Time) AccountDailyLimitUsage {
	next := u
	next.TransferUsed += amount
	next.UpdatedAt = now
	return next
}

// exceeds computes used+amount > limit without overflowing.
func exceeds(used, amount, limit int64) bool {
	return amount > limit-used
}
