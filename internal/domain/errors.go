package domain

import "errors"

var (
	ErrAssetNotFound     = errors.New("asset not found")
	ErrInvalidInterval   = errors.New("invalid interval")
	ErrInvalidRange      = errors.New("invalid range")
	ErrEmptyQuery        = errors.New("empty query")
	ErrLeaderboardShape  = errors.New("unexpected leaderboard layout")
	ErrMalformedKline    = errors.New("malformed kline row")
	ErrFavoritesDisabled = errors.New("favorites storage is not configured")
	ErrMissingID         = errors.New("asset has no id")
)
