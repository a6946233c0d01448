package postgresql

import (
	"context"
	"database/sql"
)

// Schema for the worker's two tables. catalog_entries mirrors on-chain asset
// state keyed by the composite object id; transaction_records is the
// append-only submission audit trail keyed by job id.
const schema = `
CREATE TABLE IF NOT EXISTS catalog_entries (
	object_id        TEXT PRIMARY KEY,
	network          TEXT NOT NULL,
	contract_address TEXT NOT NULL,
	name             TEXT NOT NULL,
	owner            TEXT NOT NULL DEFAULT '',
	price            TEXT NOT NULL DEFAULT '0',
	status           TEXT NOT NULL,
	job_id           TEXT NOT NULL DEFAULT '',
	content_hash     TEXT NOT NULL DEFAULT '',
	tx_hash          TEXT NOT NULL DEFAULT '',
	version          TEXT NOT NULL DEFAULT '',
	document         JSONB,
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS catalog_entries_network_status_idx
	ON catalog_entries (network, status);

CREATE TABLE IF NOT EXISTS transaction_records (
	job_id     TEXT PRIMARY KEY,
	tx_hash    TEXT NOT NULL DEFAULT '',
	operation  TEXT NOT NULL,
	price      TEXT NOT NULL DEFAULT '0',
	sender     TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema creates the worker tables if they do not exist yet.
func EnsureSchema(ctx context.Context, conn *sql.Conn) error {
	_, err := conn.ExecContext(ctx, schema)
	return err
}
