package apis

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/mugiliam/common/httpx"
	"github.com/zkmarket/mintworkersrv/internal/finality"
	"github.com/zkmarket/mintworkersrv/internal/ledger"
	"github.com/zkmarket/mintworkersrv/internal/validation"
	"github.com/zkmarket/mintworkersrv/pkg/api"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

// Resolve the fate of a submitted transaction and reconcile the catalog.
// Still-pending transactions answer 202 so callers poll again later.
func resolveTransaction(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	if r.Body == nil {
		return nil, httpx.ErrInvalidRequest()
	}
	req, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, httpx.ErrUnableToReadRequest()
	}

	var resolveReq api.ResolveTransactionReq
	if err := json.Unmarshal(req, &resolveReq); err != nil {
		return nil, httpx.ErrInvalidRequest()
	}
	if err := validation.V().Struct(resolveReq); err != nil {
		return nil, httpx.ErrInvalidRequest()
	}

	ref := &finality.TransactionRef{
		Network:     types.Network(resolveReq.Network),
		Contract:    ledger.Address(resolveReq.ContractAddress),
		Name:        resolveReq.Name,
		JobId:       resolveReq.JobId,
		TxHash:      resolveReq.TxHash,
		SubmittedAt: resolveReq.SubmittedAt,
	}
	outcome, err := reconciler(ctx).Run(ctx, ref)
	if outcome == finality.OutcomePending {
		return &httpx.Response{
			StatusCode: http.StatusAccepted,
			Response: &api.ResolveTransactionRsp{
				TxHash:  ref.TxHash,
				Outcome: string(outcome),
			},
		}, nil
	}
	if err != nil {
		return nil, ToHttpxError(err)
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: &api.ResolveTransactionRsp{
			TxHash:  ref.TxHash,
			Outcome: string(outcome),
		},
	}, nil
}
