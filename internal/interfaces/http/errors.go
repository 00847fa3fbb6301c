package httpinterface

import (
	"errors"
	"net/http"

	"github.com/barter-network/barterd/internal/core/application"
	"github.com/barter-network/barterd/internal/core/domain"
	nftregistry "github.com/barter-network/barterd/internal/infrastructure/nft"
)

// statusForError maps protocol errors to HTTP status codes. Every error
// is surfaced synchronously to the caller, the engine never leaves a
// partial mutation behind a failed request.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTradeNotFound),
		errors.Is(err, domain.ErrUnknownAsset):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrNotHolder),
		errors.Is(err, domain.ErrNotApproved):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrTradeExpired):
		return http.StatusGone
	case errors.Is(err, domain.ErrInsufficientFeePaid),
		errors.Is(err, domain.ErrFeeMismatch):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrAssetReserved),
		errors.Is(err, domain.ErrTradeNotActive),
		errors.Is(err, domain.ErrTradeNotAccepted),
		errors.Is(err, domain.ErrTradeNotCancellable),
		errors.Is(err, nftregistry.ErrAssetAlreadyMinted):
		return http.StatusConflict
	case errors.Is(err, application.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}
