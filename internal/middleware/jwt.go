package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fipe-service/internal/domain/dto"
	"github.com/guttosm/fipe-service/internal/fipe"
	"github.com/guttosm/fipe-service/internal/i18n"
	"github.com/guttosm/fipe-service/internal/service"
)

// TokenValidator validates bearer tokens. service.AuthService satisfies it.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*dto.Claims, error)
}

var _ TokenValidator = service.AuthService(nil)

// JWTAuth returns a middleware that rejects requests without a valid bearer token.
func JWTAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, present := BearerToken(c)
		if !present {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyTokenRequired)
			return
		}
		if tokenString == "" {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyInvalidToken)
			return
		}

		claims, err := validator.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyInvalidToken)
			return
		}

		authenticate(c, claims)
		c.Next()
	}
}

// OptionalJWT identifies the user when a valid bearer token is present and
// lets anonymous requests through otherwise.
func OptionalJWT(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, present := BearerToken(c)
		if present && tokenString != "" {
			if claims, err := validator.ValidateToken(c.Request.Context(), tokenString); err == nil {
				authenticate(c, claims)
			}
		}
		c.Next()
	}
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
// present is false when no Authorization header was sent; a malformed header
// yields present with an empty token.
func BearerToken(c *gin.Context) (token string, present bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", true
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

func authenticate(c *gin.Context, claims *dto.Claims) {
	setClaims(c, claims)
	ctx := fipe.WithRequester(c.Request.Context(), fipe.Requester{
		UserID:    claims.UserID.Hex(),
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	c.Request = c.Request.WithContext(ctx)
}
