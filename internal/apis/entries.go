package apis

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mugiliam/common/httpx"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

func getEntry(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	objectId := chi.URLParam(r, "objectId")
	if objectId == "" {
		return nil, httpx.ErrInvalidRequest()
	}
	entry, err := store(ctx).GetEntry(ctx, types.ObjectId(objectId))
	if err != nil {
		return nil, ToHttpxError(err)
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   entry,
	}, nil
}

func getTransactionRecord(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	jobId := chi.URLParam(r, "jobId")
	if jobId == "" {
		return nil, httpx.ErrInvalidRequest()
	}
	rec, err := store(ctx).GetTransactionRecord(ctx, jobId)
	if err != nil {
		return nil, ToHttpxError(err)
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rec,
	}, nil
}
