package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
)

var errDuplicateAccountNo = errors.New("account number already exists")

// unit is one atomic unit of work. Writes are staged here and applied to the
// store on commit, while the row locks are still held.
type unit struct {
	store *Store
	held  map[string]chan struct{}

	accounts     map[int64]models.Account
	accountNos   map[string]int64
	settings     map[int64]models.AccountLimitSetting
	usages       map[usageKey]models.AccountDailyLimitUsage
	transactions map[requestKey]models.Transaction
}

func newUnit(s *Store) *unit {
	return &unit{
		store:        s,
		held:         make(map[string]chan struct{}),
		accounts:     make(map[int64]models.Account),
		accountNos:   make(map[string]int64),
		settings:     make(map[int64]models.AccountLimitSetting),
		usages:       make(map[usageKey]models.AccountDailyLimitUsage),
		transactions: make(map[requestKey]models.Transaction),
	}
}

var _ storage.Tx = (*unit)(nil)

// lock acquires the named row lock for the rest of the unit.
func (u *unit) lock(ctx context.Context, name string) error {
	if _, ok := u.held[name]; ok {
		return nil
	}
	ch := u.store.joinRowLock(name)

	var timeout <-chan time.Time
	if u.store.lockTimeout > 0 {
		timer := time.NewTimer(u.store.lockTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case ch <- struct{}{}:
		u.held[name] = ch
		return nil
	case <-ctx.Done():
		u.store.leaveRowLock(name)
		return fmt.Errorf("failed to lock %s: %w", name, ctx.Err())
	case <-timeout:
		u.store.leaveRowLock(name)
		return fmt.Errorf("failed to lock %s: %w", name, storage.ErrLockTimeout)
	}
}

func (u *unit) release() {
	for name, ch := range u.held {
		<-ch
		delete(u.held, name)
		u.store.leaveRowLock(name)
	}
}

func (u *unit) commit() {
	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, acc := range u.accounts {
		s.accounts[id] = acc
	}
	for no, id := range u.accountNos {
		s.accountNos[no] = id
	}
	for id, setting := range u.settings {
		s.settings[id] = setting
	}
	for key, usage := range u.usages {
		s.usages[key] = usage
	}
	for key, tx := range u.transactions {
		rec, ok := s.transactions[key]
		if !ok {
			s.nextSeq++
			rec.seq = s.nextSeq
		}
		rec.tx = tx
		s.transactions[key] = rec
	}
}

func (u *unit) account(id int64) (models.Account, bool) {
	if acc, ok := u.accounts[id]; ok {
		return acc, true
	}
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	acc, ok := u.store.accounts[id]
	return acc, ok
}

func (u *unit) LockAccount(ctx context.Context, accountID int64) (*models.Account, error) {
	if err := u.lock(ctx, fmt.Sprintf("account:%d", accountID)); err != nil {
		return nil, err
	}
	acc, ok := u.account(accountID)
	if !ok {
		return nil, fmt.Errorf("account %d: %w", accountID, models.ErrAccountNotFound)
	}
	return &acc, nil
}

func (u *unit) SaveAccount(_ context.Context, account models.Account) error {
	if _, ok := u.account(account.ID); !ok {
		return fmt.Errorf("account %d: %w", account.ID, models.ErrAccountNotFound)
	}
	u.accounts[account.ID] = account
	return nil
}

func (u *unit) CreateAccount(ctx context.Context, account models.Account) (*models.Account, error) {
	s := u.store
	s.mu.Lock()
	if _, taken := s.accountNos[account.AccountNo]; taken {
		s.mu.Unlock()
		return nil, fmt.Errorf("account %s: %w", account.AccountNo, errDuplicateAccountNo)
	}
	if _, taken := u.accountNos[account.AccountNo]; taken {
		s.mu.Unlock()
		return nil, fmt.Errorf("account %s: %w", account.AccountNo, errDuplicateAccountNo)
	}
	s.nextAccountID++
	account.ID = s.nextAccountID
	s.mu.Unlock()

	if err := u.lock(ctx, fmt.Sprintf("account:%d", account.ID)); err != nil {
		return nil, err
	}
	u.accounts[account.ID] = account
	u.accountNos[account.AccountNo] = account.ID
	return &account, nil
}

func (u *unit) GetLimitSetting(_ context.Context, accountID int64) (*models.AccountLimitSetting, error) {
	if setting, ok := u.settings[accountID]; ok {
		return &setting, nil
	}
	u.store.mu.Lock()
	setting, ok := u.store.settings[accountID]
	u.store.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("account %d: %w", accountID, models.ErrLimitSettingNotFound)
	}
	return &setting, nil
}

func (u *unit) CreateLimitSetting(_ context.Context, setting models.AccountLimitSetting) error {
	if _, ok := u.account(setting.AccountID); !ok {
		return fmt.Errorf("account %d: %w", setting.AccountID, models.ErrAccountNotFound)
	}
	u.settings[setting.AccountID] = setting
	return nil
}

func (u *unit) SaveLimitSetting(ctx context.Context, setting models.AccountLimitSetting) error {
	if _, err := u.GetLimitSetting(ctx, setting.AccountID); err != nil {
		return err
	}
	u.settings[setting.AccountID] = setting
	return nil
}

func (u *unit) LockOrCreateUsage(ctx context.Context, accountID int64, limitDate string) (*models.AccountDailyLimitUsage, error) {
	key := usageKey{accountID, limitDate}
	if err := u.lock(ctx, fmt.Sprintf("usage:%d:%s", accountID, limitDate)); err != nil {
		return nil, err
	}
	if usage, ok := u.usages[key]; ok {
		return &usage, nil
	}

	u.store.mu.Lock()
	usage, ok := u.store.usages[key]
	u.store.mu.Unlock()
	if !ok {
		usage = models.NewDailyLimitUsage(accountID, limitDate, time.Now())
		u.usages[key] = usage
	}
	return &usage, nil
}

func (u *unit) SaveUsage(_ context.Context, usage models.AccountDailyLimitUsage) error {
	key := usageKey{usage.AccountID, usage.LimitDate}
	if _, held := u.held[fmt.Sprintf("usage:%d:%s", usage.AccountID, usage.LimitDate)]; !held {
		return fmt.Errorf("usage %d/%s saved without its row lock", usage.AccountID, usage.LimitDate)
	}
	u.usages[key] = usage
	return nil
}

func (u *unit) InsertTransaction(ctx context.Context, tx models.Transaction) error {
	key := requestKey{tx.AccountID, tx.RequestID}
	if err := u.lock(ctx, fmt.Sprintf("request:%d:%s", tx.AccountID, tx.RequestID)); err != nil {
		return err
	}
	if _, ok := u.transactions[key]; ok {
		return fmt.Errorf("transaction %d/%s: %w", tx.AccountID, tx.RequestID, storage.ErrDuplicateRequest)
	}

	u.store.mu.Lock()
	_, exists := u.store.transactions[key]
	u.store.mu.Unlock()
	if exists {
		return fmt.Errorf("transaction %d/%s: %w", tx.AccountID, tx.RequestID, storage.ErrDuplicateRequest)
	}
	if _, ok := u.account(tx.AccountID); !ok {
		return fmt.Errorf("account %d: %w", tx.AccountID, models.ErrAccountNotFound)
	}

	u.transactions[key] = tx
	return nil
}

func (u *unit) UpdateTransaction(_ context.Context, tx models.Transaction) error {
	key := requestKey{tx.AccountID, tx.RequestID}
	if _, ok := u.transactions[key]; !ok {
		u.store.mu.Lock()
		_, ok = u.store.transactions[key]
		u.store.mu.Unlock()
		if !ok {
			return fmt.Errorf("transaction %d/%s: %w", tx.AccountID, tx.RequestID, storage.ErrNotFound)
		}
	}
	u.transactions[key] = tx
	return nil
}
