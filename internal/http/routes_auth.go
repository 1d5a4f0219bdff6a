package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/fipe-service/internal/middleware"
	"github.com/guttosm/fipe-service/internal/service"
)

// AuthRoutes handles authentication route registration.
type AuthRoutes struct {
	handler     *AuthHandler
	authService service.AuthService
}

// NewAuthRoutes creates a new AuthRoutes instance.
func NewAuthRoutes(authService service.AuthService) *AuthRoutes {
	return &AuthRoutes{
		handler:     NewAuthHandler(authService),
		authService: authService,
	}
}

// RegisterPublicRoutes registers public authentication routes.
// These routes don't require authentication.
func (r *AuthRoutes) RegisterPublicRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", r.handler.Register)
		auth.POST("/login", r.handler.Login)
		auth.POST("/refresh", r.handler.RefreshToken)
	}
}

// RegisterProtectedRoutes registers the authentication routes that need a bearer token.
func (r *AuthRoutes) RegisterProtectedRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	auth := rg.Group("/auth")
	{
		auth.GET("/verify", r.handler.Verify)
		auth.POST("/logout", r.handler.Logout)
	}
}

// ProtectedGroup returns a router group with JWT auth applied and, when
// limiter is set, per-user rate limiting.
func (r *AuthRoutes) ProtectedGroup(rg *gin.RouterGroup, limiter *middleware.RateLimiter) *gin.RouterGroup {
	protected := rg.Group("")
	protected.Use(middleware.JWTAuth(r.authService))
	if limiter != nil {
		protected.Use(limiter.UserRateLimit())
	}
	return protected
}
