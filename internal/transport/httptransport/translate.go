package httptransport

import (
	"context"
	"errors"
	"net/http"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/pkg/retry"
	"github.com/NastyaGoryachaya/crypto-market-service/internal/ports/errcode"
)

func FromServiceError(err error) errcode.Code {
	switch {
	case errors.Is(err, domain.ErrAssetNotFound):
		return errcode.NotFoundAsset
	case errors.Is(err, domain.ErrInvalidInterval):
		return errcode.InvalidInterval
	case errors.Is(err, domain.ErrInvalidRange):
		return errcode.InvalidRange
	case errors.Is(err, domain.ErrEmptyQuery):
		return errcode.EmptyQuery
	case errors.Is(err, domain.ErrMissingID):
		return errcode.BadRequest
	case errors.Is(err, domain.ErrFavoritesDisabled):
		return errcode.StorageDisabled
	case errors.Is(err, retry.ErrExhausted):
		return errcode.Upstream
	case errors.Is(err, context.DeadlineExceeded):
		return errcode.Timeout
	default:
		return errcode.Internal
	}
}

// StatusFor - HTTP статус для кода ошибки
func StatusFor(code errcode.Code) int {
	switch code {
	case errcode.NotFoundAsset:
		return http.StatusNotFound
	case errcode.InvalidInterval, errcode.InvalidRange, errcode.EmptyQuery, errcode.BadRequest:
		return http.StatusBadRequest
	case errcode.StorageDisabled, errcode.Upstream:
		return http.StatusServiceUnavailable
	case errcode.Timeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
