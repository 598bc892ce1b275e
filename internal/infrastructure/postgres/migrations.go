package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// migrations son las sentencias DDL del esquema del ledger, idempotentes para
// poder ejecutarse en cada arranque. La tabla products pertenece al sistema
// de catálogo; se crea aquí solo para que un despliegue local funcione sin
// pasos previos, y el ledger jamás escribe en ella.
var migrations = []struct {
	name string
	sql  string
}{
	{
		name: "create_stock_events",
		sql: `
CREATE TABLE IF NOT EXISTS stock_events (
    position    BIGSERIAL PRIMARY KEY,
    id          UUID NOT NULL UNIQUE,
    product_id  TEXT NOT NULL,
    kind        TEXT NOT NULL CHECK (kind IN ('IN', 'OUT', 'ADJUSTMENT')),
    quantity    BIGINT NOT NULL,
    occurred_at TIMESTAMPTZ NOT NULL,
    reference   TEXT NOT NULL DEFAULT '',
    notes       TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    created_by  TEXT
);

CREATE INDEX IF NOT EXISTS idx_stock_events_product ON stock_events (product_id, position);
`,
	},
	{
		name: "create_balances",
		sql: `
CREATE TABLE IF NOT EXISTS balances (
    product_id    TEXT PRIMARY KEY,
    current_stock BIGINT NOT NULL DEFAULT 0 CHECK (current_stock >= 0),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`,
	},
	{
		name: "create_products",
		sql: `
CREATE TABLE IF NOT EXISTS products (
    product_id    TEXT PRIMARY KEY,
    sku           TEXT NOT NULL DEFAULT '',
    name          TEXT NOT NULL DEFAULT '',
    reorder_point BIGINT NOT NULL DEFAULT 0,
    unit_price    NUMERIC(14,4) NOT NULL DEFAULT 0,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`,
	},
}

// Migrate aplica el esquema del ledger sobre el pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, m := range migrations {
		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("migración %s: %w", m.name, err)
		}
	}
	return nil
}
