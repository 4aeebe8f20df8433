package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements storage.Ledger on PostgreSQL.
type Store struct {
	Pool        *pgxpool.Pool
	LockTimeout time.Duration
	Logger      *slog.Logger
}

// New creates a new Store. Every unit bounds its lock waits by lockTimeout.
func New(pool *pgxpool.Pool, lockTimeout time.Duration, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{Pool: pool, LockTimeout: lockTimeout, Logger: logger}
}

// Make sure we conform to the interface
var _ storage.Ledger = (*Store)(nil)

// Connect opens a connection pool and checks it with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// InTx runs fn inside a READ COMMITTED transaction with a bounded lock_timeout.
func (s *Store) InTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	pgTx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", mapError(err))
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := pgTx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.Logger.Log(ctx, slog.LevelDebug, "rollback failed", "error", rbErr)
			}
		}
	}()

	if s.LockTimeout > 0 {
		// SET does not accept bind parameters.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.LockTimeout.Milliseconds())
		if _, err := pgTx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to set lock timeout: %w", mapError(err))
		}
	}

	if err := fn(&unit{tx: pgTx}); err != nil {
		return err
	}

	if err := pgTx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", mapError(err))
	}
	committed = true
	return nil
}

// mapError translates PostgreSQL error codes into storage sentinels,
// keeping the original error in the chain.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		if pgErr.ConstraintName == transactionsRequestKey {
			return fmt.Errorf("%w: %w", storage.ErrDuplicateRequest, err)
		}
	case "23503":
		return fmt.Errorf("%w: %w", models.ErrAccountNotFound, err)
	case "55P03", "40P01":
		// lock_not_available, deadlock_detected
		return fmt.Errorf("%w: %w", storage.ErrLockTimeout, err)
	}
	return err
}
