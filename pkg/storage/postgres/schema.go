package postgres

import (
	"context"
	"fmt"
)

const transactionsRequestKey = "transactions_account_request_key"

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id          BIGSERIAL PRIMARY KEY,
    account_no  TEXT        NOT NULL UNIQUE,
    balance     BIGINT      NOT NULL CHECK (balance >= 0),
    status      TEXT        NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS account_limit_settings (
    account_id           BIGINT      PRIMARY KEY REFERENCES accounts (id),
    daily_withdraw_limit BIGINT      NOT NULL CHECK (daily_withdraw_limit > 0),
    daily_transfer_limit BIGINT      NOT NULL CHECK (daily_transfer_limit > 0),
    created_at           TIMESTAMPTZ NOT NULL,
    updated_at           TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS account_daily_limit_usages (
    account_id    BIGINT      NOT NULL REFERENCES accounts (id),
    limit_date    TEXT        NOT NULL,
    withdraw_used BIGINT      NOT NULL DEFAULT 0 CHECK (withdraw_used >= 0),
    transfer_used BIGINT      NOT NULL DEFAULT 0 CHECK (transfer_used >= 0),
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (account_id, limit_date)
);

CREATE TABLE IF NOT EXISTS transactions (
    id                        TEXT        PRIMARY KEY,
    account_id                BIGINT      NOT NULL REFERENCES accounts (id),
    request_id                TEXT        NOT NULL,
    type                      TEXT        NOT NULL,
    status                    TEXT        NOT NULL,
    amount                    BIGINT      NOT NULL,
    fee                       BIGINT      NOT NULL DEFAULT 0,
    fee_policy_type           TEXT,
    fee_rate                  NUMERIC(10, 4),
    fee_applied_at            TIMESTAMPTZ,
    counterparty_account_no   TEXT,
    balance_after_transaction BIGINT      NOT NULL DEFAULT 0,
    created_at                TIMESTAMPTZ NOT NULL,
    CONSTRAINT ` + transactionsRequestKey + ` UNIQUE (account_id, request_id)
);

CREATE INDEX IF NOT EXISTS transactions_account_created_idx
    ON transactions (account_id, created_at DESC);
`

// Migrate creates the ledger tables if they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
