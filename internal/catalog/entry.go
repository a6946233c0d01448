package catalog

import (
	"time"

	"github.com/zkmarket/mintworkersrv/internal/validation"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

// Entry is the catalog's view of one asset: one row per
// (network, contract, name) triple, keyed by the composite ObjectId.
type Entry struct {
	ObjectId        types.ObjectId    `json:"objectId" db:"object_id"`
	Network         types.Network     `json:"network" db:"network" validate:"required,networkValidator"`
	ContractAddress string            `json:"contractAddress" db:"contract_address" validate:"required,base58Validator"`
	Name            string            `json:"name" db:"name" validate:"required,assetNameValidator"`
	Owner           string            `json:"owner" db:"owner"`
	Price           string            `json:"price" db:"price" validate:"omitempty,priceValidator"`
	Status          types.EntryStatus `json:"status" db:"status"`
	JobId           string            `json:"jobId" db:"job_id"`
	ContentHash     string            `json:"contentHash" db:"content_hash"`
	TxHash          string            `json:"txHash,omitempty" db:"tx_hash"`
	Version         string            `json:"version,omitempty" db:"version"`

	// Document carries the descriptive fields merged from the off-chain
	// metadata payload. Core columns above always win over document keys.
	Document map[string]any `json:"document,omitempty" db:"document"`

	UpdatedAt time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

func (e *Entry) Validate() error {
	if !e.Network.IsValid() {
		return ErrInvalidNetwork.Msg(string(e.Network))
	}
	if !e.Status.IsValid() {
		return ErrInvalidEntry.Msg("unknown status " + string(e.Status))
	}
	if err := validation.V().Struct(e); err != nil {
		return ErrInvalidEntry.Err(err)
	}
	if e.ObjectId.IsNil() {
		e.ObjectId = types.ObjectIdFor(e.Network, e.ContractAddress, e.Name)
	} else if e.ObjectId != types.ObjectIdFor(e.Network, e.ContractAddress, e.Name) {
		return ErrInvalidEntry.Msg("objectId does not match network, contract and name")
	}
	return nil
}

// TransactionRecord is the append-only audit row written once per submission
// attempt. JobId doubles as the row key, which makes retried appends no-ops.
type TransactionRecord struct {
	JobId     string              `json:"jobId" db:"job_id"`
	TxHash    string              `json:"txHash,omitempty" db:"tx_hash"`
	Operation types.OperationKind `json:"operation" db:"operation"`
	Price     string              `json:"price" db:"price"`
	Sender    string              `json:"sender" db:"sender"`
	Status    string              `json:"status" db:"status"`
	Timestamp time.Time           `json:"timestamp" db:"created_at"`
}
