package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied on start-up. Every statement is idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS products (
    id          TEXT PRIMARY KEY,
    sku         TEXT        NOT NULL,
    name        TEXT        NOT NULL,
    description TEXT        NOT NULL DEFAULT '',
    price       BIGINT      NOT NULL CHECK (price >= 0),
    quantity    BIGINT      NOT NULL CHECK (quantity >= 0),
    category    TEXT        NOT NULL DEFAULT '',
    version     INTEGER     NOT NULL DEFAULT 1,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL,
    CONSTRAINT products_sku_key UNIQUE (sku)
);

-- databases created before quantity was widened
ALTER TABLE products ALTER COLUMN quantity TYPE BIGINT;

CREATE TABLE IF NOT EXISTS orders (
    id             TEXT PRIMARY KEY,
    customer_email TEXT        NOT NULL,
    -- item lines with product name and price snapshotted at placement
    items          JSONB       NOT NULL DEFAULT '[]',
    total_amount   BIGINT      NOT NULL,
    status         TEXT        NOT NULL DEFAULT 'placed',
    created_at     TIMESTAMPTZ NOT NULL,
    cancelled_at   TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS wallets (
    id          TEXT PRIMARY KEY,
    owner_email TEXT        NOT NULL,
    balance     BIGINT      NOT NULL DEFAULT 0 CHECK (balance >= 0),
    version     INTEGER     NOT NULL DEFAULT 1,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_wallets_owner_email ON wallets(owner_email, created_at);

-- append-only: the service never updates or deletes rows here
CREATE TABLE IF NOT EXISTS wallet_transactions (
    seq         BIGSERIAL,
    id          TEXT PRIMARY KEY,
    wallet_id   TEXT        NOT NULL REFERENCES wallets(id),
    type        TEXT        NOT NULL CHECK (type IN ('deposit', 'withdraw')),
    amount      BIGINT      NOT NULL CHECK (amount > 0),
    reference   TEXT        NOT NULL DEFAULT '',
    description TEXT        NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_wallet_transactions_wallet_id ON wallet_transactions(wallet_id, created_at);
`

// Migrate applies the schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
