package submitter

import (
	"context"
	"encoding/json"

	"github.com/zkmarket/mintworkersrv/internal/ledger"
	"github.com/zkmarket/mintworkersrv/internal/reservation"
	"github.com/zkmarket/mintworkersrv/internal/validation"
	"github.com/zkmarket/mintworkersrv/pkg/api"
)

// defaultMintFee is the fee the unsigned skeleton carries, in nanomina. The
// wallet may raise it before signing.
const defaultMintFee uint64 = 100_000_000

// preparePayload is the first element of a prepare job's transactions: the
// asset name being claimed, the requester's key, and the hash of the metadata
// payload already uploaded to the content store.
type preparePayload struct {
	Name        string         `json:"name" validate:"required,assetNameValidator"`
	PublicKey   ledger.Address `json:"publicKey" validate:"required,base58Validator"`
	ContentHash string         `json:"contentHash" validate:"required"`
}

// prepare reserves the asset name with the signing service and hands back an
// unsigned mint transaction for the client wallet to sign. Nothing here
// touches the catalog or the ledger's write path, so any failure simply
// surfaces to the caller.
func (c *Controller) prepare(ctx context.Context, job *Job) (*Result, error) {
	if len(job.Transactions) == 0 {
		return nil, ErrEmptyJob
	}
	var p preparePayload
	if err := json.Unmarshal([]byte(job.Transactions[0]), &p); err != nil {
		return nil, ErrInvalidPayload.Err(err)
	}
	if err := validation.V().Struct(p); err != nil {
		return nil, ErrInvalidPayload.Err(err)
	}

	token, err := c.reservations.Reserve(ctx, &reservation.Request{
		Name:      p.Name,
		PublicKey: p.PublicKey,
		Network:   job.Network,
		Contract:  job.ContractAddress,
	})
	if err != nil {
		return nil, err
	}
	if err := token.Validate(); err != nil {
		return nil, err
	}

	nameField, err := ledger.EncodeString(p.Name)
	if err != nil {
		return nil, ErrInvalidPayload.Err(err)
	}
	params := &ledger.MintParams{
		Name:        nameField,
		Price:       ledger.Field(token.Price),
		ContentHash: p.ContentHash,
	}
	paramFields, err := params.ToFields()
	if err != nil {
		return nil, ErrInvalidPayload.Err(err)
	}
	blob, err := ledger.SerializeFields(paramFields)
	if err != nil {
		return nil, ErrInvalidPayload.Err(err)
	}

	acct, err := c.connector.FetchAccount(ctx, job.Network, p.PublicKey)
	if err != nil {
		return nil, err
	}

	skel := &ledger.Skeleton{
		FeePayer: ledger.TransactionParams{
			Sender: p.PublicKey,
			Fee:    defaultMintFee,
			Nonce:  acct.Nonce,
			Memo:   "mint " + p.Name,
		},
		AccountUpdates: []ledger.AccountUpdateSkeleton{
			{Label: "mint.contract", PublicKey: job.ContractAddress},
			{Label: "mint.proof", PublicKey: job.ContractAddress, CallDepth: 1},
			{Label: "mint.token", PublicKey: job.ContractAddress, CallDepth: 1},
			{Label: "mint.payment", PublicKey: p.PublicKey, CallDepth: 1},
		},
	}
	serialized, err := skel.Serialize()
	if err != nil {
		return nil, err
	}
	txJSON, err := json.Marshal(ledger.NewTransaction(skel))
	if err != nil {
		return nil, ErrSubmitterError.Err(err)
	}

	bundle := &api.PrepareBundle{
		Transaction:           txJSON,
		SerializedTransaction: serialized,
		OperationParams:       blob,
		Fee:                   defaultMintFee,
		Memo:                  skel.FeePayer.Memo,
		Reservation: &api.ReservationGrant{
			Name:      token.Name,
			Signature: token.Signature,
			Price:     token.Price,
			Expiry:    token.Expiry,
		},
	}

	return &Result{
		JobId:  job.JobId,
		State:  "PREPARED",
		Bundle: bundle,
	}, nil
}
