package middleware

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/fipe-service/internal/domain/dto"
)

// Keys under which JWTAuth stores the authenticated user in the gin context.
const (
	UserIDKey     = "user_id"
	UserEmailKey  = "user_email"
	UserNameKey   = "user_name"
	UserRoleKey   = "user_role"
	UserClaimsKey = "user_claims"
)

// GetClaims returns the claims of the authenticated user, if any.
func GetClaims(c *gin.Context) (*dto.Claims, bool) {
	v, exists := c.Get(UserClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*dto.Claims)
	return claims, ok && claims != nil
}

// GetUserID returns the ID of the authenticated user, if any.
func GetUserID(c *gin.Context) (primitive.ObjectID, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok && !id.IsZero()
}

func setClaims(c *gin.Context, claims *dto.Claims) {
	c.Set(UserIDKey, claims.UserID)
	c.Set(UserEmailKey, claims.Email)
	c.Set(UserNameKey, claims.Name)
	c.Set(UserRoleKey, claims.Role)
	c.Set(UserClaimsKey, claims)
}

func userFields(c *gin.Context) (userID, email string) {
	if id, ok := GetUserID(c); ok {
		userID = id.Hex()
	}
	email = c.GetString(UserEmailKey)
	return userID, email
}
