package postgresql

import (
	"context"
	"database/sql"

	"github.com/zkmarket/mintworkersrv/internal/catalog"
)

func (m *marketCatalogDb) AppendTransactionRecord(ctx context.Context, rec *catalog.TransactionRecord) error {
	if rec.JobId == "" {
		return catalog.ErrInvalidEntry.Msg("job id cannot be empty")
	}
	// Keyed by job id; a retried append is a no-op, not an error.
	query := `
		INSERT INTO transaction_records (job_id, tx_hash, operation, price, sender, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (job_id) DO NOTHING;
	`
	ts := rec.Timestamp
	if ts.IsZero() {
		query = `
			INSERT INTO transaction_records (job_id, tx_hash, operation, price, sender, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (job_id) DO NOTHING;
		`
		_, err := m.conn().ExecContext(ctx, query,
			rec.JobId, rec.TxHash, rec.Operation, rec.Price, rec.Sender, rec.Status)
		if err != nil {
			return storeError(err)
		}
		return nil
	}
	_, err := m.conn().ExecContext(ctx, query,
		rec.JobId, rec.TxHash, rec.Operation, rec.Price, rec.Sender, rec.Status, ts)
	if err != nil {
		return storeError(err)
	}
	return nil
}

func (m *marketCatalogDb) GetTransactionRecord(ctx context.Context, jobId string) (*catalog.TransactionRecord, error) {
	if jobId == "" {
		return nil, catalog.ErrInvalidEntry.Msg("job id cannot be empty")
	}
	query := `
		SELECT job_id, tx_hash, operation, price, sender, status, created_at
		FROM transaction_records
		WHERE job_id = $1;
	`
	row := m.conn().QueryRowContext(ctx, query, jobId)

	var rec catalog.TransactionRecord
	err := row.Scan(&rec.JobId, &rec.TxHash, &rec.Operation, &rec.Price,
		&rec.Sender, &rec.Status, &rec.Timestamp)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, catalog.ErrNotFound.Msg("transaction record not found: " + jobId)
		}
		return nil, catalog.ErrWriteFailure.Err(err)
	}
	return &rec, nil
}
