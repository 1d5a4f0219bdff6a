package http

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/middleware"
	"github.com/guttosm/fipe-service/internal/service"
)

// FavoritesRoutes handles registration of the /favorites routes.
type FavoritesRoutes struct {
	handler *FavoritesHandler
}

// NewFavoritesRoutes creates a new FavoritesRoutes instance.
func NewFavoritesRoutes(favorites service.FavoriteService) *FavoritesRoutes {
	return &FavoritesRoutes{handler: NewFavoritesHandler(favorites)}
}

// RegisterProtectedRoutes registers the favorites routes.
func (r *FavoritesRoutes) RegisterProtectedRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	favorites := rg.Group("/favorites")
	{
		favorites.GET("", r.handler.List)
		favorites.POST("", r.handler.Add)
		favorites.GET("/search", r.handler.Search)
		favorites.GET("/stats", r.handler.Stats)
		favorites.POST("/compare", r.handler.Compare)
		favorites.PUT("/:id", r.handler.Update)
		favorites.DELETE("/:id", r.handler.Remove)
	}
}

// HistoryRoutes handles registration of the /history routes.
type HistoryRoutes struct {
	handler *HistoryHandler
}

// NewHistoryRoutes creates a new HistoryRoutes instance.
func NewHistoryRoutes(history service.HistoryService) *HistoryRoutes {
	return &HistoryRoutes{handler: NewHistoryHandler(history)}
}

// RegisterProtectedRoutes registers the history routes.
func (r *HistoryRoutes) RegisterProtectedRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	history := rg.Group("/history")
	{
		history.GET("", r.handler.List)
		history.POST("", r.handler.Add)
		history.DELETE("", r.handler.Clear)
		history.GET("/stats", r.handler.Stats)
		history.GET("/recent", r.handler.Recent)
		history.GET("/export", r.handler.Export)
		history.DELETE("/:id", r.handler.Delete)
	}
}

// UploadRoutes handles registration of the /upload routes.
type UploadRoutes struct {
	handler *UploadHandler
}

// NewUploadRoutes creates a new UploadRoutes instance.
func NewUploadRoutes(uploads service.UploadService, maxSize int64, maxFiles int) *UploadRoutes {
	return &UploadRoutes{handler: NewUploadHandler(uploads, maxSize, maxFiles)}
}

// RegisterPublicRoutes registers the inline file route, reachable by URL alone.
func (r *UploadRoutes) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/upload/files/:filename", r.handler.Serve)
}

// RegisterProtectedRoutes registers the upload routes needing an owner.
func (r *UploadRoutes) RegisterProtectedRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	upload := rg.Group("/upload")
	{
		upload.POST("/single", r.handler.Single)
		upload.POST("/multiple", r.handler.Multiple)
		upload.GET("/my-files", r.handler.MyFiles)
		upload.GET("/download/:filename", r.handler.Download)
		upload.DELETE("/:id", r.handler.Delete)
	}
}

// AdminRoutes handles registration of the /admin routes.
type AdminRoutes struct {
	handler *AdminHandler
}

// NewAdminRoutes creates a new AdminRoutes instance.
func NewAdminRoutes(logs service.LoggingService) *AdminRoutes {
	return &AdminRoutes{handler: NewAdminHandler(logs)}
}

// RegisterProtectedRoutes registers the admin routes, restricted to admins.
func (r *AdminRoutes) RegisterProtectedRoutes(rg *gin.RouterGroup, _ *RouterConfig) {
	admin := rg.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/logs", r.handler.Logs)
}
