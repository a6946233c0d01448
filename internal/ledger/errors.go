package ledger

import (
	"net/http"

	"github.com/mugiliam/common/apperrors"
)

var (
	ErrLedgerError     apperrors.Error = apperrors.New("error talking to ledger")
	ErrInvalidAddress  apperrors.Error = ErrLedgerError.New("invalid ledger address").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
	ErrInvalidEncoding apperrors.Error = ErrLedgerError.New("invalid field encoding").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
	ErrInvalidSkeleton apperrors.Error = ErrLedgerError.New("invalid transaction skeleton").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
	ErrInvalidEnvelope apperrors.Error = ErrLedgerError.New("invalid signed-data envelope").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
	ErrAccountNotFound apperrors.Error = ErrLedgerError.New("account not found").SetStatusCode(http.StatusNotFound)
	ErrSubmission      apperrors.Error = ErrLedgerError.New("transaction submission failed").SetStatusCode(http.StatusBadGateway)
)
