package postgres

import (
	"context"
	"fmt"
)

// schema crea las tablas si no existen. Los consecutivos viven en JSONB para no migrar al agregar documentos.
const schema = `
CREATE TABLE IF NOT EXISTS subscription_packages (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	price          NUMERIC(14,2) NOT NULL DEFAULT 0,
	duration_years INT NOT NULL,
	features       TEXT[] NOT NULL DEFAULT '{}',
	allowed_views  TEXT[] NOT NULL DEFAULT '{}',
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS businesses (
	id                      TEXT PRIMARY KEY,
	name                    TEXT NOT NULL,
	is_active               BOOLEAN NOT NULL DEFAULT TRUE,
	package_id              TEXT NOT NULL DEFAULT '',
	subscription_end        TIMESTAMPTZ NOT NULL,
	fiscal_year             INT NOT NULL,
	seeds                   JSONB NOT NULL DEFAULT '{}'::jsonb,
	future_package_id       TEXT NOT NULL DEFAULT '',
	future_subscription_end TIMESTAMPTZ,
	created_at              TIMESTAMPTZ NOT NULL,
	updated_at              TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
	id          TEXT PRIMARY KEY,
	business_id TEXT NOT NULL,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS groups_business_name_uq ON groups (business_id, lower(name));

CREATE TABLE IF NOT EXISTS group_privileges (
	group_id     TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
	privilege_id TEXT NOT NULL,
	business_id  TEXT NOT NULL,
	PRIMARY KEY (group_id, privilege_id)
);

CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	business_id   TEXT NOT NULL,
	username      TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL,
	group_id      TEXT,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS users_business_username_uq ON users (business_id, lower(username));

CREATE TABLE IF NOT EXISTS app_settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// EnsureSchema aplica el esquema (idempotente).
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("aplicar esquema: %w", err)
	}
	return nil
}
