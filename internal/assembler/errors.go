package assembler

import (
	"net/http"

	"github.com/mugiliam/common/apperrors"
)

var (
	ErrAssemblyError   apperrors.Error = apperrors.New("error assembling transaction")
	ErrInvalidParams   apperrors.Error = ErrAssemblyError.New("invalid operation parameters").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
	ErrInvalidLayout   apperrors.Error = ErrAssemblyError.New("skeleton does not match operation layout").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
	ErrMissingFragment apperrors.Error = ErrAssemblyError.New("missing signature fragment").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
	ErrProofFailed     apperrors.Error = ErrAssemblyError.New("proof generation failed").SetStatusCode(http.StatusBadGateway)

	// ErrEnvironmentInconsistency means the compiled circuit artifacts do not
	// match the contract version this worker was built for. Not retryable:
	// the process must be restarted with a clean cache, because a stale
	// artifact would silently prove against the wrong contract.
	ErrEnvironmentInconsistency apperrors.Error = apperrors.New("verification key mismatch, process restart required").SetStatusCode(http.StatusInternalServerError)
)
