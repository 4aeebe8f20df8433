// Package memory is an in-process Ledger used by tests and local runs.
//
// It reproduces the locking behaviour the engine relies on from Postgres:
// exclusive row locks held until the unit ends, bounded lock waits, and a
// unique (account, request id) key that blocks concurrent claimers until the
// holder commits or rolls back.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
)

type usageKey struct {
	accountID int64
	limitDate string
}

type requestKey struct {
	accountID int64
	requestID string
}

// rowLock is a named exclusive lock shared by the units holding or waiting on it.
type rowLock struct {
	ch   chan struct{}
	refs int
}

type record struct {
	tx  models.Transaction
	seq int64
}

// Store implements storage.Ledger in memory.
type Store struct {
	mu          sync.Mutex
	lockTimeout time.Duration

	nextAccountID int64
	nextSeq       int64
	accounts      map[int64]models.Account
	accountNos    map[string]int64
	settings      map[int64]models.AccountLimitSetting
	usages        map[usageKey]models.AccountDailyLimitUsage
	transactions  map[requestKey]record
	rowLocks      map[string]*rowLock
}

// New creates an empty Store. A lockTimeout of zero waits for row locks
// until the context is done.
func New(lockTimeout time.Duration) *Store {
	return &Store{
		lockTimeout:  lockTimeout,
		accounts:     make(map[int64]models.Account),
		accountNos:   make(map[string]int64),
		settings:     make(map[int64]models.AccountLimitSetting),
		usages:       make(map[usageKey]models.AccountDailyLimitUsage),
		transactions: make(map[requestKey]record),
		rowLocks:     make(map[string]*rowLock),
	}
}

// Make sure we conform to the interface
var _ storage.Ledger = (*Store)(nil)

// InTx runs fn in a unit whose staged writes are applied only if fn succeeds.
func (s *Store) InTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	u := newUnit(s)
	defer u.release()

	if err := fn(u); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	u.commit()
	return nil
}

// FindTransaction returns the committed record for (accountID, requestID).
func (s *Store) FindTransaction(_ context.Context, accountID int64, requestID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.transactions[requestKey{accountID, requestID}]
	if !ok {
		return nil, fmt.Errorf("transaction %d/%s: %w", accountID, requestID, storage.ErrNotFound)
	}
	tx := rec.tx
	return &tx, nil
}

// GetAccount returns the committed account.
func (s *Store) GetAccount(_ context.Context, accountID int64) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", accountID, models.ErrAccountNotFound)
	}
	return &acc, nil
}

// GetAccountByNo returns the committed account with the given account number.
func (s *Store) GetAccountByNo(_ context.Context, accountNo string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.accountNos[accountNo]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", accountNo, models.ErrAccountNotFound)
	}
	acc := s.accounts[id]
	return &acc, nil
}

// GetLimitSetting returns the committed limit setting of an account.
func (s *Store) GetLimitSetting(_ context.Context, accountID int64) (*models.AccountLimitSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	setting, ok := s.settings[accountID]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", accountID, models.ErrLimitSettingNotFound)
	}
	return &setting, nil
}

// ListTransactions returns committed records of an account, newest first.
func (s *Store) ListTransactions(_ context.Context, accountID int64, offset, limit int) ([]models.Transaction, error) {
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("offset=%d limit=%d: %w", offset, limit, models.ErrInvalidPage)
	}
	s.mu.Lock()
	recs := make([]record, 0)
	for key, rec := range s.transactions {
		if key.accountID == accountID {
			recs = append(recs, rec)
		}
	}
	s.mu.Unlock()

	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].tx.CreatedAt.Equal(recs[j].tx.CreatedAt) {
			return recs[i].tx.CreatedAt.After(recs[j].tx.CreatedAt)
		}
		return recs[i].seq > recs[j].seq
	})

	if offset >= len(recs) {
		return []models.Transaction{}, nil
	}
	end := len(recs)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	out := make([]models.Transaction, 0, end-offset)
	for _, rec := range recs[offset:end] {
		out = append(out, rec.tx)
	}
	return out, nil
}

// CountTransactions counts committed records of an account up to max.
func (s *Store) CountTransactions(_ context.Context, accountID int64, max int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for key := range s.transactions {
		if key.accountID != accountID {
			continue
		}
		count++
		if max > 0 && count >= max {
			break
		}
	}
	return count, nil
}

// joinRowLock returns the lock channel for name, creating it on first use,
// and registers the caller until leaveRowLock.
func (s *Store) joinRowLock(name string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.rowLocks[name]
	if !ok {
		l = &rowLock{ch: make(chan struct{}, 1)}
		s.rowLocks[name] = l
	}
	l.refs++
	return l.ch
}

// leaveRowLock drops the caller's registration. The lock is forgotten once
// nobody holds or waits on it.
func (s *Store) leaveRowLock(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.rowLocks[name]
	if !ok {
		return
	}
	l.refs--
	if l.refs <= 0 {
		delete(s.rowLocks, name)
	}
}

