// Package limits enforces per-account daily movement limits inside a ledger unit.
package limits

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
)

// Tracker keys usage rows by the calendar day in its location.
type Tracker struct {
	loc *time.Location
}

// NewTracker creates a Tracker. A nil location means time.Local.
func NewTracker(loc *time.Location) *Tracker {
	if loc == nil {
		loc = time.Local
	}
	return &Tracker{loc: loc}
}

// LimitDate returns the usage row key for at.
func (t *Tracker) LimitDate(at time.Time) string {
	return models.LimitDate(at.In(t.loc))
}

// GetOrCreate returns today's usage row locked for the rest of tx.
func (t *Tracker) GetOrCreate(ctx context.Context, tx storage.Tx, accountID int64, at time.Time) (*models.AccountDailyLimitUsage, error) {
	usage, err := tx.LockOrCreateUsage(ctx, accountID, t.LimitDate(at))
	if err != nil {
		return nil, fmt.Errorf("failed to get daily usage: %w", err)
	}
	return usage, nil
}

// ReserveWithdraw checks amount against the withdraw limit and records it.
func (t *Tracker) ReserveWithdraw(ctx context.Context, tx storage.Tx, setting *models.AccountLimitSetting, amount int64, at time.Time) error {
	usage, err := t.GetOrCreate(ctx, tx, setting.AccountID, at)
	if err != nil {
		return err
	}
	if err := usage.CheckWithdraw(amount, setting.DailyWithdrawLimit); err != nil {
		return err
	}
	if err := tx.SaveUsage(ctx, usage.AddWithdrawUsed(amount, at)); err != nil {
		return fmt.Errorf("failed to record withdraw usage: %w", err)
	}
	return nil
}

// ReserveTransfer checks amount against the transfer limit and records it.
func (t *Tracker) ReserveTransfer(ctx context.Context, tx storage.Tx, setting *models.AccountLimitSetting, amount int64, at time.Time) error {
	usage, err := t.GetOrCreate(ctx, tx, setting.AccountID, at)
	if err != nil {
		return err
	}
	if err := usage.CheckTransfer(amount, setting.DailyTransferLimit); err != nil {
		return err
	}
	if err := tx.SaveUsage(ctx, usage.AddTransferUsed(amount, at)); err != nil {
		return fmt.Errorf("failed to record transfer usage: %w", err)
	}
	return nil
}
