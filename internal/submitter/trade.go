package submitter

import (
	"context"

	"github.com/zkmarket/mintworkersrv/internal/assembler"
	"github.com/zkmarket/mintworkersrv/internal/catalog"
	"github.com/zkmarket/mintworkersrv/internal/events"
	"github.com/zkmarket/mintworkersrv/internal/ledger"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

// Sell and buy act on assets that already exist on chain, so there is no
// intent write: a failure before acceptance leaves the catalog exactly as it
// was. Only an accepted submission mutates the entry.

func (c *Controller) sell(ctx context.Context, job *Job) (*Result, error) {
	params, txp, blob, p, err := c.parseTradeJob(job, types.OperationSell)
	if err != nil {
		return nil, err
	}
	name, err := params.Name.DecodeString()
	if err != nil {
		return nil, ErrInvalidPayload.Err(err)
	}

	result, err := c.submitTrade(ctx, job, types.OperationSell, p, blob, txp, params.Price)
	if err != nil {
		return nil, err
	}

	id := types.ObjectIdFor(job.Network, job.ContractAddress.String(), name)
	c.updateEntry(ctx, types.OperationSell, id, func(e *catalog.Entry) error {
		e.Price = params.Price.DecimalOrZero()
		e.TxHash = result.Hash
		e.JobId = job.JobId
		return nil
	})

	c.publish(ctx, &events.OperationEvent{
		TxHash:       result.Hash,
		JobId:        job.JobId,
		Operation:    types.OperationSell,
		Network:      job.Network,
		Name:         name,
		Price:        params.Price.DecimalOrZero(),
		Counterparty: txp.Sender.String(),
		Timestamp:    c.now(),
	})

	return &Result{JobId: job.JobId, TxHash: result.Hash, State: string(statePending)}, nil
}

// buy transfers ownership to the transaction's fee payer and delists the
// asset: the recorded price resets to zero until the new owner lists it again.
func (c *Controller) buy(ctx context.Context, job *Job) (*Result, error) {
	params, txp, blob, p, err := c.parseTradeJob(job, types.OperationBuy)
	if err != nil {
		return nil, err
	}
	name, err := params.Name.DecodeString()
	if err != nil {
		return nil, ErrInvalidPayload.Err(err)
	}

	result, err := c.submitTrade(ctx, job, types.OperationBuy, p, blob, txp, params.Price)
	if err != nil {
		return nil, err
	}

	id := types.ObjectIdFor(job.Network, job.ContractAddress.String(), name)
	c.updateEntry(ctx, types.OperationBuy, id, func(e *catalog.Entry) error {
		e.Owner = txp.Sender.String()
		e.Price = "0"
		e.TxHash = result.Hash
		e.JobId = job.JobId
		return nil
	})

	c.publish(ctx, &events.OperationEvent{
		TxHash:       result.Hash,
		JobId:        job.JobId,
		Operation:    types.OperationBuy,
		Network:      job.Network,
		Name:         name,
		Price:        params.Price.DecimalOrZero(),
		Counterparty: txp.Sender.String(),
		Timestamp:    c.now(),
	})

	return &Result{JobId: job.JobId, TxHash: result.Hash, State: string(statePending)}, nil
}

// tradeParams is the common shape of sell and buy parameter blobs.
type tradeParams struct {
	Name  ledger.Field
	Price ledger.Field
}

func (c *Controller) parseTradeJob(job *Job, op types.OperationKind) (*tradeParams, *ledger.TransactionParams, string, *payload, error) {
	p, err := parsePayload(job)
	if err != nil {
		return nil, nil, "", nil, err
	}
	blob, err := p.paramsBlob(op)
	if err != nil {
		return nil, nil, "", nil, err
	}
	fields, err := ledger.DeserializeFields(blob)
	if err != nil {
		return nil, nil, "", nil, ErrInvalidPayload.Err(err)
	}
	var params *tradeParams
	if op == types.OperationSell {
		sp, perr := ledger.SellParamsFromFields(fields)
		if perr != nil {
			return nil, nil, "", nil, ErrInvalidPayload.Err(perr)
		}
		params = &tradeParams{Name: sp.Name, Price: sp.Price}
	} else {
		bp, perr := ledger.BuyParamsFromFields(fields)
		if perr != nil {
			return nil, nil, "", nil, ErrInvalidPayload.Err(perr)
		}
		params = &tradeParams{Name: bp.Name, Price: bp.Price}
	}
	txp, err := ledger.TransactionParamsOf(p.SerializedTransaction)
	if err != nil {
		return nil, nil, "", nil, ErrInvalidPayload.Err(err)
	}
	return params, txp, blob, p, nil
}

// submitTrade runs assembly and submission for sell/buy and writes the audit
// row. A rejection or error returns without having touched the catalog entry.
func (c *Controller) submitTrade(ctx context.Context, job *Job, op types.OperationKind, p *payload, blob string, txp *ledger.TransactionParams, price ledger.Field) (*ledger.SubmitResult, error) {
	tx, err := c.assembler.Assemble(ctx, &assembler.Request{
		Operation:             op,
		Network:               job.Network,
		Contract:              job.ContractAddress,
		SerializedTransaction: p.SerializedTransaction,
		SignedData:            p.SignedData,
		ParamsBlob:            blob,
	})
	if err != nil {
		return nil, err
	}

	result, err := c.connector.Submit(ctx, job.Network, tx)
	c.recordSubmission(ctx, job, txp.Sender, price.DecimalOrZero(), result, err)
	if err != nil {
		return nil, err
	}
	if !result.Accepted() {
		return nil, ErrSubmissionRejected.Msg(result.Reason)
	}
	return result, nil
}
