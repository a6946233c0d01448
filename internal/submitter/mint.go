package submitter

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/zkmarket/mintworkersrv/internal/assembler"
	"github.com/zkmarket/mintworkersrv/internal/catalog"
	"github.com/zkmarket/mintworkersrv/internal/events"
	"github.com/zkmarket/mintworkersrv/internal/ledger"
	"github.com/zkmarket/mintworkersrv/internal/metadata"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

// mint records the intent entry before anything touches the ledger, then
// assembles, proves and submits. Once the intent row exists, every failure
// path must leave the entry in the failed status; the deferred guard covers
// error returns and panics alike.
func (c *Controller) mint(ctx context.Context, job *Job) (res *Result, err error) {
	p, err := parsePayload(job)
	if err != nil {
		return nil, err
	}
	blob, err := p.paramsBlob(types.OperationMint)
	if err != nil {
		return nil, err
	}
	fields, err := ledger.DeserializeFields(blob)
	if err != nil {
		return nil, ErrInvalidPayload.Err(err)
	}
	params, err := ledger.MintParamsFromFields(fields)
	if err != nil {
		return nil, ErrInvalidPayload.Err(err)
	}
	name, err := params.Name.DecodeString()
	if err != nil {
		return nil, ErrInvalidPayload.Err(err)
	}
	txp, err := ledger.TransactionParamsOf(p.SerializedTransaction)
	if err != nil {
		return nil, ErrInvalidPayload.Err(err)
	}

	id := types.ObjectIdFor(job.Network, job.ContractAddress.String(), name)
	entry := &catalog.Entry{
		ObjectId:        id,
		Network:         job.Network,
		ContractAddress: job.ContractAddress.String(),
		Name:            name,
		Owner:           txp.Sender.String(),
		Price:           params.Price.DecimalOrZero(),
		Status:          types.StatusCreated,
		JobId:           job.JobId,
		ContentHash:     params.ContentHash,
	}
	// The descriptive document is merged opportunistically at intent time;
	// reconciliation re-fetches it against on-chain truth later.
	if doc, derr := c.metadata.Assemble(ctx, params.ContentHash, name); derr != nil {
		log.Ctx(ctx).Warn().Err(derr).
			Str("hash", params.ContentHash).
			Msg("metadata unavailable at intent time")
	} else {
		metadata.Merge(entry, doc)
	}
	if err := entry.Validate(); err != nil {
		return nil, ErrInvalidPayload.Err(err)
	}
	if err := c.store.CreateEntry(ctx, entry); err != nil {
		if errors.Is(err, catalog.ErrConflict) {
			return nil, ErrSubmitterError.New("asset name already taken").SetStatusCode(http.StatusConflict).Msg(name)
		}
		return nil, err
	}

	log.Ctx(ctx).Debug().Str("objectId", id.String()).Str("state", string(stateIntentRecorded)).Msg("mint intent recorded")

	var submittedHash string
	defer func() {
		if r := recover(); r != nil {
			c.markFailed(ctx, id, submittedHash)
			panic(r)
		}
		if err != nil {
			c.markFailed(ctx, id, submittedHash)
		}
	}()

	tx, err := c.assembler.Assemble(ctx, &assembler.Request{
		Operation:             types.OperationMint,
		Network:               job.Network,
		Contract:              job.ContractAddress,
		SerializedTransaction: p.SerializedTransaction,
		SignedData:            p.SignedData,
		ParamsBlob:            blob,
	})
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Debug().Str("objectId", id.String()).Str("state", string(stateAssembled)).Msg("mint transaction assembled")

	result, err := c.connector.Submit(ctx, job.Network, tx)
	if result != nil {
		submittedHash = result.Hash
	}
	c.recordSubmission(ctx, job, txp.Sender, params.Price.DecimalOrZero(), result, err)
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Debug().Str("objectId", id.String()).Str("state", string(stateSubmitted)).Msg("mint transaction submitted")
	if !result.Accepted() {
		log.Ctx(ctx).Info().Str("objectId", id.String()).Str("state", string(stateRejected)).Str("reason", result.Reason).Msg("ledger rejected mint")
		return nil, ErrSubmissionRejected.Msg(result.Reason)
	}

	c.updateEntry(ctx, types.OperationMint, id, func(e *catalog.Entry) error {
		if !e.Status.CanTransitionTo(types.StatusPending) {
			return catalog.ErrInvalidTransition.Msg(string(e.Status) + " -> " + string(types.StatusPending))
		}
		e.Status = types.StatusPending
		e.TxHash = result.Hash
		return nil
	})

	c.publish(ctx, &events.OperationEvent{
		TxHash:       result.Hash,
		JobId:        job.JobId,
		Operation:    types.OperationMint,
		Network:      job.Network,
		Name:         name,
		Price:        params.Price.DecimalOrZero(),
		Counterparty: txp.Sender.String(),
		Timestamp:    c.now(),
	})

	return &Result{
		JobId:  job.JobId,
		TxHash: result.Hash,
		State:  string(statePending),
	}, nil
}
