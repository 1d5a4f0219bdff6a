package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/middleware"
)

// FipeRoutes handles registration of the lookup routes under /fipe.
type FipeRoutes struct {
	handler *Handler
}

// NewFipeRoutes creates a new FipeRoutes instance.
func NewFipeRoutes(handler *Handler) *FipeRoutes {
	return &FipeRoutes{handler: handler}
}

// RegisterPublicRoutes registers the lookup routes. They accept anonymous callers.
func (r *FipeRoutes) RegisterPublicRoutes(rg *gin.RouterGroup) {
	fipe := rg.Group("/fipe")
	{
		fipe.GET("/tabelas", r.handler.ListTables)
		fipe.GET("/marcas/:tipo", r.handler.ListBrands)
		fipe.GET("/veiculos/:tipo/:marca", r.handler.ListModels)
		fipe.GET("/preco/:codigoFipe", r.handler.GetPrice)
		fipe.GET("/search", r.handler.Search)
	}
}

// RegisterProtectedRoutes registers the cache administration routes, restricted to admins.
func (r *FipeRoutes) RegisterProtectedRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	fipe := rg.Group("/fipe", middleware.RequireRole(model.RoleAdmin))
	{
		fipe.GET("/stats", r.handler.CacheStats)
		fipe.DELETE("/cache", r.handler.ClearCache)
	}
}
