package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/fipe-service/internal/metrics"
	"github.com/guttosm/fipe-service/internal/middleware"
	"github.com/guttosm/fipe-service/internal/service"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit           int
	RateWindow          time.Duration
	RequestTimeout      time.Duration
	APIKeys             map[string]bool
	CORSOrigins         []string
	SwaggerUser         string
	SwaggerPass         string
	ExposeErrorDetails  bool
	PersistRequestLogs  bool
	IdempotencyCapacity int
	UploadMaxSize       int64
	UploadMaxFiles      int

	Lookups         LookupService
	AuthService     service.AuthService
	FavoriteService service.FavoriteService
	HistoryService  service.HistoryService
	UploadService   service.UploadService
	LoggingService  service.LoggingService
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:           100,
		RateWindow:          time.Minute,
		RequestTimeout:      30 * time.Second,
		ExposeErrorDetails:  true,
		IdempotencyCapacity: 10000,
		UploadMaxSize:       5 << 20,
		UploadMaxFiles:      5,
	}
}

// NewRouter creates and configures the Gin router of the FIPE service.
// The returned function stops the background workers of the middleware and
// must be called on shutdown.
func NewRouter(healthHandler *HealthHandler, cfg RouterConfig) (*gin.Engine, func()) {
	router := gin.New()
	router.MaxMultipartMemory = cfg.UploadMaxSize

	var stops []func()
	stop := func() {
		for _, fn := range stops {
			fn()
		}
	}

	// Configure global middleware
	if limiter := configureGlobalMiddleware(router, &cfg); limiter != nil {
		stops = append(stops, limiter.Stop)
	}

	// Register infrastructure routes (health, metrics, swagger)
	registerInfrastructureRoutes(router, healthHandler, &cfg)

	api := router.Group("/api")
	api.Use(middleware.Timeout(cfg.RequestTimeout))

	if cfg.Lookups != nil {
		lookups := api.Group("")
		if cfg.AuthService != nil {
			lookups.Use(middleware.OptionalJWT(cfg.AuthService))
		}
		NewFipeRoutes(NewHandler(cfg.Lookups)).RegisterPublicRoutes(lookups)
	}

	if cfg.AuthService != nil {
		stops = append(stops, registerAuthenticatedRoutes(api, &cfg)...)
	}

	return router, stop
}

// configureGlobalMiddleware sets up middleware applied to all routes and
// returns the IP rate limiter, if any.
func configureGlobalMiddleware(router *gin.Engine, cfg *RouterConfig) *middleware.RateLimiter {
	router.Use(middleware.CORS(cfg.CORSOrigins))

	// Core middleware stack
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(cfg.PersistRequestLogs),
		middleware.ErrorHandler(),
		ExposeErrorDetails(cfg.ExposeErrorDetails),
	)

	// Global rate limiting
	if cfg.RateLimit <= 0 {
		return nil
	}
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	router.Use(limiter.RateLimit())
	return limiter
}

// registerInfrastructureRoutes registers health, metrics, and documentation routes.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	if healthHandler != nil {
		healthHandler.Register(router)
	}
	router.GET("/metrics", middleware.APIKeyAuth(cfg.APIKeys), gin.WrapH(promhttp.Handler()))

	// Swagger with optional basic auth
	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	} else {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// registerAuthenticatedRoutes registers the account routes and everything
// that needs a user. It returns the stop functions of the workers it started.
func registerAuthenticatedRoutes(api *gin.RouterGroup, cfg *RouterConfig) []func() {
	var stops []func()

	authRoutes := NewAuthRoutes(cfg.AuthService)
	authRoutes.RegisterPublicRoutes(api)

	var userLimiter *middleware.RateLimiter
	if cfg.RateLimit > 0 {
		userLimiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		stops = append(stops, userLimiter.Stop)
	}
	protected := authRoutes.ProtectedGroup(api, userLimiter)

	if cfg.IdempotencyCapacity > 0 {
		idem := middleware.NewIdempotencyCache(cfg.IdempotencyCapacity)
		stops = append(stops, idem.Stop)
		protected.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Cache: idem,
			TTL:   middleware.IdempotencyKeyTTL,
		}))
	}

	groups := []ProtectedRouteGroup{authRoutes}
	if cfg.Lookups != nil {
		groups = append(groups, NewFipeRoutes(NewHandler(cfg.Lookups)))
	}
	if cfg.FavoriteService != nil {
		groups = append(groups, NewFavoritesRoutes(cfg.FavoriteService))
	}
	if cfg.HistoryService != nil {
		groups = append(groups, NewHistoryRoutes(cfg.HistoryService))
	}
	if cfg.UploadService != nil {
		uploads := NewUploadRoutes(cfg.UploadService, cfg.UploadMaxSize, cfg.UploadMaxFiles)
		uploads.RegisterPublicRoutes(api)
		groups = append(groups, uploads)
	}
	if cfg.LoggingService != nil {
		groups = append(groups, NewAdminRoutes(cfg.LoggingService))
	}

	for _, g := range groups {
		g.RegisterProtectedRoutes(protected, cfg)
	}
	return stops
}
