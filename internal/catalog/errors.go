package catalog

import (
	"net/http"

	"github.com/mugiliam/common/apperrors"
)

var (
	ErrCatalogError      apperrors.Error = apperrors.New("error in processing catalog")
	ErrConflict          apperrors.Error = ErrCatalogError.New("entry already exists").SetStatusCode(http.StatusConflict)
	ErrNotFound          apperrors.Error = ErrCatalogError.New("entry not found").SetStatusCode(http.StatusNotFound)
	ErrInvalidEntry      apperrors.Error = ErrCatalogError.New("invalid entry").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
	ErrInvalidNetwork    apperrors.Error = ErrCatalogError.New("network not in allow-list").SetExpandError(true).SetStatusCode(http.StatusBadRequest)
	ErrInvalidTransition apperrors.Error = ErrCatalogError.New("illegal status transition").SetStatusCode(http.StatusConflict)

	// ErrWriteFailure marks store I/O failures. Callers log these and decide
	// whether they abort the surrounding operation; they never overwrite the
	// primary operation result.
	ErrWriteFailure apperrors.Error = ErrCatalogError.New("catalog write failed").SetStatusCode(http.StatusInternalServerError)
)
