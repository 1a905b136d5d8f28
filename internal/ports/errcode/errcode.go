package errcode

type Code string

const (
	NotFoundAsset   Code = "NOT_FOUND_ASSET"
	InvalidInterval Code = "INVALID_INTERVAL"
	InvalidRange    Code = "INVALID_RANGE"
	EmptyQuery      Code = "EMPTY_QUERY"
	StorageDisabled Code = "STORAGE_DISABLED"
	Upstream        Code = "UPSTREAM_UNAVAILABLE"
	Timeout         Code = "TIMEOUT"

	BadRequest Code = "BAD_REQUEST"
	Internal   Code = "INTERNAL_ERROR"
)
