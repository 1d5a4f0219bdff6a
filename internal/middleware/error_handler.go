package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fipe-service/internal/domain/dto"
	"github.com/guttosm/fipe-service/internal/i18n"
	"github.com/guttosm/fipe-service/internal/logger"
)

// ErrorHandler returns a middleware that handles gin context errors.
// Errors attached by handlers that did not write a response become a 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		log := logger.Logger()
		log.Error().
			Str("request_id", GetRequestID(c)).
			Str("error", err.Error()).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("Request error")

		if !c.Writer.Written() {
			abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, i18n.ErrKeyInternalError)
		}
	}
}

// abortWithError writes the failure envelope with a localized message.
func abortWithError(c *gin.Context, status int, code, messageKey string) {
	locale := i18n.GetLocale(c)
	errorResp := dto.NewError(code, i18n.GetTranslator().Translate(messageKey, locale)).
		WithRequestID(GetRequestID(c))
	c.AbortWithStatusJSON(status, errorResp)
}
