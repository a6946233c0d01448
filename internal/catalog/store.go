package catalog

import (
	"context"

	"github.com/zkmarket/mintworkersrv/pkg/types"
)

// Mutation is applied inside a read-modify-write cycle on one entry. There is
// no transactional isolation between concurrent mutations of the same entry;
// last write wins, which the ledger's own serialization of per-asset
// transactions makes acceptable.
type Mutation func(*Entry) error

// Store is the catalog persistence interface. All methods are remote I/O and
// report failures to the caller; nothing is swallowed here.
type Store interface {
	// CreateEntry writes an entry. For intent statuses (created, failed) it
	// fails with ErrConflict when the object id is already present, guarding
	// duplicate mint attempts. For pending/applied/replaced it overwrites
	// unconditionally.
	CreateEntry(ctx context.Context, entry *Entry) error

	// GetEntry returns the entry or ErrNotFound.
	GetEntry(ctx context.Context, id types.ObjectId) (*Entry, error)

	// UpdateEntryFields applies mutate to the stored entry and writes it
	// back. Fails with ErrNotFound if the entry is absent.
	UpdateEntryFields(ctx context.Context, id types.ObjectId, mutate Mutation) (*Entry, error)

	// AppendTransactionRecord appends the audit row. Idempotent on JobId: a
	// retry with the same job id does not duplicate the row and is not an
	// error.
	AppendTransactionRecord(ctx context.Context, rec *TransactionRecord) error

	// GetTransactionRecord returns the audit row for a job id or ErrNotFound.
	GetTransactionRecord(ctx context.Context, jobId string) (*TransactionRecord, error)

	Close(ctx context.Context)
}
