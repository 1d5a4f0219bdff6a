package i18n

// Error message translation keys.
const (
	ErrKeyInvalidRequest     = "error.invalid_request"
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyInternalError      = "error.internal_error"
	ErrKeyUnauthorized       = "error.unauthorized"
	ErrKeyInvalidCredentials = "error.invalid_credentials"
	ErrKeyUserExists         = "error.user_exists"
	ErrKeyAPIKeyRequired     = "error.api_key_required"
	ErrKeyInvalidAPIKey      = "error.invalid_api_key"
	ErrKeyForbidden          = "error.forbidden"
	ErrKeyNotFound           = "error.not_found"
	ErrKeyRateLimitExceeded  = "error.rate_limit_exceeded"
	ErrKeyConflict           = "error.conflict"
	ErrKeyInvalidToken       = "error.invalid_token"
	ErrKeyTokenRequired      = "error.token_required"
	ErrKeyRefreshRequired    = "error.refresh_token_required"
	ErrKeyTimeout            = "error.timeout"
)

// Lookup error keys.
const (
	ErrKeyInvalidVehicleType  = "error.fipe.invalid_vehicle_type"
	ErrKeyInvalidCode         = "error.fipe.invalid_code"
	ErrKeyInvalidTable        = "error.fipe.invalid_table"
	ErrKeyInvalidBrand        = "error.fipe.invalid_brand"
	ErrKeyQueryTooShort       = "error.fipe.query_too_short"
	ErrKeyUpstreamUnavailable = "error.fipe.upstream_unavailable"
)

// Favorites, history and upload error keys.
const (
	ErrKeyFavoriteExists     = "error.favorite.exists"
	ErrKeyFavoriteNotFound   = "error.favorite.not_found"
	ErrKeyFavoriteLimit      = "error.favorite.limit"
	ErrKeyCompareTooFew      = "error.favorite.compare_too_few"
	ErrKeyCompareTooMany     = "error.favorite.compare_too_many"
	ErrKeyHistoryNotFound    = "error.history.not_found"
	ErrKeyInvalidHistoryType = "error.history.invalid_type"
	ErrKeyFileNotFound       = "error.upload.not_found"
	ErrKeyFileForbidden      = "error.upload.forbidden"
	ErrKeyFileType           = "error.upload.type"
	ErrKeyFileTooLarge       = "error.upload.too_large"
	ErrKeyTooManyFiles       = "error.upload.too_many_files"
	ErrKeyNoFile             = "error.upload.no_file"
)

// Success message translation keys. Keys ending in a count take one %d argument.
const (
	SuccessKeyTablesFound     = "success.fipe.tables_found"
	SuccessKeyBrandsFound     = "success.fipe.brands_found"
	SuccessKeyModelsFound     = "success.fipe.models_found"
	SuccessKeyPriceFound      = "success.fipe.price_found"
	SuccessKeySearchCompleted = "success.fipe.search_completed"
	SuccessKeyCacheCleared    = "success.fipe.cache_cleared"

	SuccessKeyLogin     = "success.auth.login"
	SuccessKeyRegister  = "success.auth.register"
	SuccessKeyRefreshed = "success.auth.refreshed"
	SuccessKeyLogout    = "success.auth.logout"

	SuccessKeyFavoriteAdded   = "success.favorite.added"
	SuccessKeyFavoriteUpdated = "success.favorite.updated"
	SuccessKeyFavoriteRemoved = "success.favorite.removed"
	SuccessKeyComparison      = "success.favorite.comparison"

	SuccessKeyHistoryAdded   = "success.history.added"
	SuccessKeyHistoryRemoved = "success.history.removed"
	SuccessKeyHistoryCleared = "success.history.cleared"

	SuccessKeyFileUploaded  = "success.upload.file"
	SuccessKeyFilesUploaded = "success.upload.files"
	SuccessKeyFileDeleted   = "success.upload.deleted"
)
