package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jackc/pgtype"
	"github.com/zkmarket/mintworkersrv/internal/catalog"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

func documentJSONB(doc map[string]any) (pgtype.JSONB, error) {
	j := pgtype.JSONB{}
	if doc == nil {
		j.Status = pgtype.Null
		return j, nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return j, err
	}
	j.Bytes = b
	j.Status = pgtype.Present
	return j, nil
}

func (m *marketCatalogDb) CreateEntry(ctx context.Context, entry *catalog.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	doc, err := documentJSONB(entry.Document)
	if err != nil {
		return catalog.ErrInvalidEntry.Err(err)
	}

	if entry.Status.IsIntent() {
		// Intent writes are uniqueness-guarded: a repeated mint attempt for
		// the same object id must be rejected, not overwritten.
		query := `
			INSERT INTO catalog_entries
				(object_id, network, contract_address, name, owner, price, status,
				 job_id, content_hash, tx_hash, version, document)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (object_id) DO NOTHING;
		`
		result, err := m.conn().ExecContext(ctx, query,
			entry.ObjectId, entry.Network, entry.ContractAddress, entry.Name,
			entry.Owner, entry.Price, entry.Status, entry.JobId,
			entry.ContentHash, entry.TxHash, entry.Version, doc)
		if err != nil {
			return storeError(err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return catalog.ErrWriteFailure.Err(err)
		}
		if rowsAffected == 0 {
			return catalog.ErrConflict.Msg("catalog entry already exists: " + entry.ObjectId.String())
		}
		return nil
	}

	// Pending, applied and replaced writes supersede whatever is stored; the
	// reconciler relies on this to overwrite stale optimistic state.
	query := `
		INSERT INTO catalog_entries
			(object_id, network, contract_address, name, owner, price, status,
			 job_id, content_hash, tx_hash, version, document, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
		ON CONFLICT (object_id) DO UPDATE SET
			owner = EXCLUDED.owner,
			price = EXCLUDED.price,
			status = EXCLUDED.status,
			job_id = EXCLUDED.job_id,
			content_hash = EXCLUDED.content_hash,
			tx_hash = EXCLUDED.tx_hash,
			version = EXCLUDED.version,
			document = EXCLUDED.document,
			updated_at = now();
	`
	_, err = m.conn().ExecContext(ctx, query,
		entry.ObjectId, entry.Network, entry.ContractAddress, entry.Name,
		entry.Owner, entry.Price, entry.Status, entry.JobId,
		entry.ContentHash, entry.TxHash, entry.Version, doc)
	if err != nil {
		return storeError(err)
	}
	return nil
}

func (m *marketCatalogDb) GetEntry(ctx context.Context, id types.ObjectId) (*catalog.Entry, error) {
	if id.IsNil() {
		return nil, catalog.ErrInvalidEntry.Msg("object id cannot be empty")
	}
	query := `
		SELECT object_id, network, contract_address, name, owner, price, status,
		       job_id, content_hash, tx_hash, version, document, updated_at
		FROM catalog_entries
		WHERE object_id = $1;
	`
	row := m.conn().QueryRowContext(ctx, query, id)

	var entry catalog.Entry
	var doc pgtype.JSONB
	err := row.Scan(&entry.ObjectId, &entry.Network, &entry.ContractAddress,
		&entry.Name, &entry.Owner, &entry.Price, &entry.Status, &entry.JobId,
		&entry.ContentHash, &entry.TxHash, &entry.Version, &doc, &entry.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, catalog.ErrNotFound.Msg("catalog entry not found: " + id.String())
		}
		return nil, catalog.ErrWriteFailure.Err(err)
	}
	if doc.Status == pgtype.Present && len(doc.Bytes) > 0 {
		if err := json.Unmarshal(doc.Bytes, &entry.Document); err != nil {
			return nil, catalog.ErrWriteFailure.Err(err)
		}
	}
	return &entry, nil
}

// UpdateEntryFields is a read-modify-write without transactional isolation.
// Concurrent updates to the same entry are last-write-wins; the ledger already
// serializes transactions against a single asset.
func (m *marketCatalogDb) UpdateEntryFields(ctx context.Context, id types.ObjectId, mutate catalog.Mutation) (*catalog.Entry, error) {
	entry, err := m.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mutate(entry); err != nil {
		return nil, err
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	doc, err := documentJSONB(entry.Document)
	if err != nil {
		return nil, catalog.ErrInvalidEntry.Err(err)
	}
	query := `
		UPDATE catalog_entries SET
			owner = $2, price = $3, status = $4, job_id = $5, content_hash = $6,
			tx_hash = $7, version = $8, document = $9, updated_at = now()
		WHERE object_id = $1;
	`
	result, err := m.conn().ExecContext(ctx, query,
		entry.ObjectId, entry.Owner, entry.Price, entry.Status, entry.JobId,
		entry.ContentHash, entry.TxHash, entry.Version, doc)
	if err != nil {
		return nil, storeError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, catalog.ErrWriteFailure.Err(err)
	}
	if rowsAffected == 0 {
		return nil, catalog.ErrNotFound.Msg("catalog entry not found: " + id.String())
	}
	return entry, nil
}
