package finality

import (
	"net/http"

	"github.com/mugiliam/common/apperrors"
)

var (
	ErrFinalityError apperrors.Error = apperrors.New("error resolving finality")

	// ErrUnresolved means the transaction is neither confirmed nor past the
	// resolution window. The catalog stays pending; callers retry later.
	ErrUnresolved apperrors.Error = ErrFinalityError.New("finality not yet determined").SetStatusCode(http.StatusAccepted)

	ErrExplorer apperrors.Error = ErrFinalityError.New("explorer query failed").SetStatusCode(http.StatusBadGateway)
)
