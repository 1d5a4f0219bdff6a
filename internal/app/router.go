package app

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/fipe-service/config"
	"github.com/guttosm/fipe-service/internal/http"
)

// NewRouterConfig maps the application configuration and services onto the router.
func NewRouterConfig(cfg config.Config, services *ServiceComponents, storage *StorageComponents) http.RouterConfig {
	routerCfg := http.DefaultRouterConfig()
	routerCfg.RateLimit = cfg.Server.RateLimit
	routerCfg.RateWindow = cfg.Server.RateWindow
	routerCfg.RequestTimeout = cfg.Server.RequestTimeout
	routerCfg.APIKeys = cfg.Auth.APIKeys
	routerCfg.CORSOrigins = cfg.Server.CORSOrigins
	routerCfg.SwaggerUser = cfg.Server.SwaggerUser
	routerCfg.SwaggerPass = cfg.Server.SwaggerPass
	routerCfg.ExposeErrorDetails = !cfg.Server.IsProduction()
	routerCfg.PersistRequestLogs = storage.Persistent
	routerCfg.UploadMaxSize = cfg.Upload.MaxSize
	routerCfg.UploadMaxFiles = cfg.Upload.MaxFiles

	routerCfg.Lookups = services.Lookups
	routerCfg.AuthService = services.Auth
	routerCfg.FavoriteService = services.Favorites
	routerCfg.HistoryService = services.History
	routerCfg.UploadService = services.Uploads
	routerCfg.LoggingService = services.Logging
	return routerCfg
}

// NewHealthHandler registers every dependency check and circuit breaker.
func NewHealthHandler(services *ServiceComponents, storage *StorageComponents) *http.HealthHandler {
	health := http.NewHealthHandler()
	for name, checker := range storage.Checkers {
		health.RegisterChecker(name, checker)
	}
	for name, cb := range storage.Breakers {
		health.RegisterCircuitBreaker(name, cb)
	}
	health.RegisterCircuitBreaker("fipe_upstream", services.UpstreamBreaker)
	return health
}

// InitializeRouter builds the gin engine. The returned func stops the
// router's background workers.
func InitializeRouter(cfg config.Config, services *ServiceComponents, storage *StorageComponents) (*gin.Engine, func()) {
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return http.NewRouter(NewHealthHandler(services, storage), NewRouterConfig(cfg, services, storage))
}
