package apis

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mugiliam/common/httpx"
	"github.com/zkmarket/mintworkersrv/internal/common"
	"github.com/zkmarket/mintworkersrv/internal/ledger"
	"github.com/zkmarket/mintworkersrv/internal/submitter"
	"github.com/zkmarket/mintworkersrv/internal/validation"
	"github.com/zkmarket/mintworkersrv/pkg/api"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

// Submit one operation job
func submitJob(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	if r.Body == nil {
		return nil, httpx.ErrInvalidRequest()
	}
	req, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, httpx.ErrUnableToReadRequest()
	}

	var jobReq api.SubmitJobReq
	if err := json.Unmarshal(req, &jobReq); err != nil {
		return nil, httpx.ErrInvalidRequest()
	}
	if err := validation.V().Struct(jobReq); err != nil {
		// A network outside the allow-list gets its descriptive refusal rather
		// than the generic invalid-request answer.
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Tag() == "networkValidator" {
					return nil, ToHttpxError(submitter.ErrInvalidNetwork.Msg(jobReq.Network))
				}
			}
		}
		return nil, httpx.ErrInvalidRequest()
	}

	jobId := jobReq.JobId
	if jobId == "" {
		jobId = common.JobIdFromContext(ctx)
	}

	job := &submitter.Job{
		JobId:           jobId,
		Operation:       types.ParseOperationKind(jobReq.Operation),
		Network:         types.Network(jobReq.Network),
		ContractAddress: ledger.Address(jobReq.ContractAddress),
		Transactions:    jobReq.Transactions,
	}
	res, err := controller(ctx).Run(ctx, job)
	if err != nil {
		return nil, ToHttpxError(err)
	}

	status := http.StatusAccepted
	if res.Bundle != nil {
		status = http.StatusOK
	}
	return &httpx.Response{
		StatusCode: status,
		Response: &api.SubmitJobRsp{
			JobId:  res.JobId,
			TxHash: res.TxHash,
			State:  res.State,
			Bundle: res.Bundle,
		},
	}, nil
}
