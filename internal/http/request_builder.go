package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fipe-service/internal/domain/dto"
	"github.com/guttosm/fipe-service/internal/fipe"
	"github.com/guttosm/fipe-service/internal/i18n"
	"github.com/guttosm/fipe-service/internal/middleware"
	"github.com/guttosm/fipe-service/internal/service"
)

// exposeDetailsKey marks requests whose error responses may carry diagnostics.
const exposeDetailsKey = "expose_error_details"

var successResponsePool = sync.Pool{
	New: func() any { return &dto.SuccessResponse{} },
}

func getSuccessResponse() *dto.SuccessResponse {
	if resp, ok := successResponsePool.Get().(*dto.SuccessResponse); ok {
		return resp
	}
	return &dto.SuccessResponse{}
}

func putSuccessResponse(resp *dto.SuccessResponse) {
	*resp = dto.SuccessResponse{}
	successResponsePool.Put(resp)
}

// ExposeErrorDetails returns a middleware deciding whether error envelopes
// carry the diagnostic string. Production deployments hide it.
func ExposeErrorDetails(expose bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(exposeDetailsKey, expose)
		c.Next()
	}
}

// ResponseBuilder writes the success and failure envelopes.
type ResponseBuilder struct {
	c       *gin.Context
	cached  *bool
	message string
	meta    any
}

// NewResponseBuilder creates a new response builder for the given context.
func NewResponseBuilder(c *gin.Context) *ResponseBuilder {
	return &ResponseBuilder{c: c}
}

// Cached sets the cache-hit flag of a lookup response.
func (b *ResponseBuilder) Cached(cached bool) *ResponseBuilder {
	b.cached = &cached
	return b
}

// Message sets a localized message. args are formatted into it.
func (b *ResponseBuilder) Message(key string, args ...any) *ResponseBuilder {
	locale := i18n.GetLocale(b.c)
	if len(args) > 0 {
		b.message = i18n.GetTranslator().Translatef(key, locale, args...)
	} else {
		b.message = i18n.GetTranslator().Translate(key, locale)
	}
	return b
}

// Meta attaches pagination, totals or diagnostics.
func (b *ResponseBuilder) Meta(meta any) *ResponseBuilder {
	b.meta = meta
	return b
}

// Success sends a successful response with the given data.
func (b *ResponseBuilder) Success(statusCode int, data any) {
	resp := getSuccessResponse()
	resp.Success = true
	resp.Data = data
	resp.Cached = b.cached
	resp.Message = b.message
	resp.Meta = b.meta
	resp.RequestID = middleware.GetRequestID(b.c)
	resp.Timestamp = time.Now().UTC()

	b.c.JSON(statusCode, resp)
	putSuccessResponse(resp)
}

// SuccessOK sends a 200 OK response with the given data.
func (b *ResponseBuilder) SuccessOK(data any) {
	b.Success(http.StatusOK, data)
}

// SuccessCreated sends a 201 Created response with the given data.
func (b *ResponseBuilder) SuccessCreated(data any) {
	b.Success(http.StatusCreated, data)
}

// Error sends the failure envelope with the given status and message key.
// err is attached to the gin context for logging and, outside production,
// reported in details.
func (b *ResponseBuilder) Error(statusCode int, messageKey string, err error) {
	b.error(statusCode, dto.ErrCodeFromStatus(statusCode), messageKey, err)
}

// Fail maps a domain error to its status and message and sends it.
func (b *ResponseBuilder) Fail(err error) {
	status, code, key := classifyError(err)
	b.error(status, code, key, err)
}

func (b *ResponseBuilder) error(statusCode int, code, messageKey string, err error) {
	locale := i18n.GetLocale(b.c)
	resp := dto.NewError(code, i18n.GetTranslator().Translate(messageKey, locale)).
		WithRequestID(middleware.GetRequestID(b.c))

	if err != nil {
		if statusCode >= http.StatusInternalServerError {
			_ = b.c.Error(err)
		}
		resp.Details = errorDetails(err, b.c.GetBool(exposeDetailsKey))
	}

	b.c.AbortWithStatusJSON(statusCode, resp)
}

// errorDetails reports the offending field of a validation failure, and the
// raw error only when expose is set.
func errorDetails(err error, expose bool) map[string]string {
	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		return map[string]string{"field": verr.Field, "error": verr.Error()}
	}
	if !expose {
		return nil
	}
	return map[string]string{"error": err.Error()}
}

// classifyError returns the status, error code and message key for err.
func classifyError(err error) (status int, code, key string) {
	var verr *dto.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequest

	case errors.Is(err, fipe.ErrInvalidVehicleType):
		return http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidVehicleType
	case errors.Is(err, fipe.ErrInvalidCode):
		return http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidCode
	case errors.Is(err, fipe.ErrInvalidBrandCode):
		return http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidBrand
	case errors.Is(err, fipe.ErrInvalidReferenceTable):
		return http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidTable
	case errors.Is(err, fipe.ErrQueryTooShort):
		return http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyQueryTooShort
	case fipe.IsClientError(err):
		return http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequest
	case errors.Is(err, fipe.ErrUpstreamUnavailable):
		return http.StatusInternalServerError, dto.ErrCodeUpstream, i18n.ErrKeyUpstreamUnavailable

	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyInvalidCredentials
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrTokenBlacklisted):
		return http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyInvalidToken
	case errors.Is(err, service.ErrUserExists):
		return http.StatusConflict, dto.ErrCodeConflict, i18n.ErrKeyUserExists

	case errors.Is(err, service.ErrFavoriteExists):
		return http.StatusConflict, dto.ErrCodeConflict, i18n.ErrKeyFavoriteExists
	case errors.Is(err, service.ErrFavoriteLimit):
		return http.StatusConflict, dto.ErrCodeConflict, i18n.ErrKeyFavoriteLimit
	case errors.Is(err, service.ErrFavoriteNotFound):
		return http.StatusNotFound, dto.ErrCodeNotFound, i18n.ErrKeyFavoriteNotFound
	case errors.Is(err, service.ErrCompareTooFew):
		return http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyCompareTooFew
	case errors.Is(err, service.ErrCompareTooMany):
		return http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyCompareTooMany

	case errors.Is(err, service.ErrHistoryItemNotFound):
		return http.StatusNotFound, dto.ErrCodeNotFound, i18n.ErrKeyHistoryNotFound

	case errors.Is(err, service.ErrFileNotFound):
		return http.StatusNotFound, dto.ErrCodeNotFound, i18n.ErrKeyFileNotFound
	case errors.Is(err, service.ErrFileForbidden):
		return http.StatusForbidden, dto.ErrCodeForbidden, i18n.ErrKeyFileForbidden
	case errors.Is(err, service.ErrFileType):
		return http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyFileType
	case errors.Is(err, service.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, dto.ErrCodeTooLarge, i18n.ErrKeyFileTooLarge
	case errors.Is(err, service.ErrTooManyFiles):
		return http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyTooManyFiles
	case errors.Is(err, service.ErrNoFile):
		return http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyNoFile

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, dto.ErrCodeTimeout, i18n.ErrKeyTimeout
	default:
		return http.StatusInternalServerError, dto.ErrCodeInternal, i18n.ErrKeyInternalError
	}
}

// Validator is implemented by request DTOs that check themselves.
type Validator interface {
	Validate() error
}

// BuildRequest binds the JSON body into a new T.
func BuildRequest[T any](c *gin.Context) (*T, error) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// BuildRequestAndValidate binds the JSON body and validates it when T implements Validator.
func BuildRequestAndValidate[T any](c *gin.Context) (*T, error) {
	req, err := BuildRequest[T](c)
	if err != nil {
		return nil, err
	}
	if v, ok := any(req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// bindFailure reports a body that could not be decoded or validated.
func bindFailure(b *ResponseBuilder, err error) {
	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		b.Fail(err)
		return
	}
	b.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
}
