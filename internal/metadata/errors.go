package metadata

import (
	"net/http"

	"github.com/mugiliam/common/apperrors"
)

var (
	ErrMetadataError   apperrors.Error = apperrors.New("error processing metadata")
	ErrUnavailable     apperrors.Error = ErrMetadataError.New("content unavailable").SetStatusCode(http.StatusBadGateway)
	ErrInvalidHash     apperrors.Error = ErrMetadataError.New("invalid content hash").SetStatusCode(http.StatusBadRequest)
	ErrInvalidDocument apperrors.Error = ErrMetadataError.New("invalid metadata document").SetExpandError(true)
)
