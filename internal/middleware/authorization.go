package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fipe-service/internal/domain/dto"
	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/i18n"
)

// RequireRole returns a middleware that lets through users holding any of roles.
// Admins hold every role. It must run after JWTAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, i18n.ErrKeyUnauthorized)
			return
		}

		if !hasAnyRole(claims.Role, roles) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, i18n.ErrKeyForbidden)
			return
		}

		c.Next()
	}
}

func hasAnyRole(userRole string, required []string) bool {
	if len(required) == 0 || userRole == model.RoleAdmin {
		return true
	}
	for _, r := range required {
		if r == userRole {
			return true
		}
	}
	return false
}
