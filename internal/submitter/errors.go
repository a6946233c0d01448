package submitter

import (
	"net/http"

	"github.com/mugiliam/common/apperrors"
)

var (
	ErrSubmitterError   apperrors.Error = apperrors.New("error processing operation")
	ErrInvalidNetwork   apperrors.Error = ErrSubmitterError.New("network not in allow-list").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
	ErrUnknownOperation apperrors.Error = ErrSubmitterError.New("unknown operation").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
	ErrEmptyJob         apperrors.Error = ErrSubmitterError.New("no transactions to send").SetStatusCode(http.StatusBadRequest)
	ErrInvalidPayload   apperrors.Error = ErrSubmitterError.New("invalid job payload").SetExpandError(true).SetStatusCode(http.StatusBadRequest)

	// ErrSubmissionRejected carries the ledger's refusal, including any reason
	// codes the node supplied.
	ErrSubmissionRejected apperrors.Error = ErrSubmitterError.New("ledger rejected the transaction").SetExpandError(true).SetStatusCode(http.StatusUnprocessableEntity)
)
