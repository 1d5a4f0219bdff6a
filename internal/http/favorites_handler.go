package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/fipe-service/internal/domain/dto"
	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/i18n"
	"github.com/guttosm/fipe-service/internal/middleware"
	"github.com/guttosm/fipe-service/internal/service"
)

// FavoritesHandler provides HTTP handlers for the favorites routes.
type FavoritesHandler struct {
	favorites service.FavoriteService
}

// NewFavoritesHandler creates a new favorites handler.
func NewFavoritesHandler(favorites service.FavoriteService) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites}
}

// currentUser returns the authenticated user id, answering 401 when absent.
func currentUser(c *gin.Context, b *ResponseBuilder) (primitive.ObjectID, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		b.Error(http.StatusUnauthorized, i18n.ErrKeyUnauthorized, nil)
	}
	return id, ok
}

// pathObjectID parses the :id parameter, answering 400 when malformed.
func pathObjectID(c *gin.Context, b *ResponseBuilder) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		b.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return primitive.NilObjectID, false
	}
	return id, true
}

// List handles GET /api/favorites.
//
// @Summary      List favorites
// @Tags         Favorites
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SuccessResponse{data=[]model.Favorite}
// @Failure      401 {object} dto.ErrorResponse
// @Router       /api/favorites [get]
func (h *FavoritesHandler) List(c *gin.Context) {
	builder := NewResponseBuilder(c)
	userID, ok := currentUser(c, builder)
	if !ok {
		return
	}

	favorites, err := h.favorites.List(c.Request.Context(), userID)
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.Meta(gin.H{"total": len(favorites)}).SuccessOK(favorites)
}

// Add handles POST /api/favorites.
//
// @Summary      Add a favorite
// @Tags         Favorites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key header string false "Replays the first response for repeated keys"
// @Param        request body dto.CreateFavoriteRequest true "Vehicle"
// @Success      201 {object} dto.SuccessResponse{data=model.Favorite}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse "Already a favorite or limit reached"
// @Router       /api/favorites [post]
func (h *FavoritesHandler) Add(c *gin.Context) {
	builder := NewResponseBuilder(c)
	userID, ok := currentUser(c, builder)
	if !ok {
		return
	}

	req, err := BuildRequestAndValidate[dto.CreateFavoriteRequest](c)
	if err != nil {
		bindFailure(builder, err)
		return
	}

	favorite, err := h.favorites.Add(c.Request.Context(), userID, *req)
	if err != nil {
		builder.Fail(err)
		return
	}

	middleware.AuditLog(c, model.ActionFavoriteAdd, "Favorite added", map[string]any{
		"favorite_id": favorite.ID.Hex(),
		"codigo_fipe": favorite.CodigoFipe,
	})

	builder.Message(i18n.SuccessKeyFavoriteAdded).SuccessCreated(favorite)
}

// Update handles PUT /api/favorites/:id.
//
// @Summary      Update favorite notes and tags
// @Tags         Favorites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Favorite id"
// @Param        request body dto.UpdateFavoriteRequest true "Notes and tags"
// @Success      200 {object} dto.SuccessResponse{data=model.Favorite}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/favorites/{id} [put]
func (h *FavoritesHandler) Update(c *gin.Context) {
	builder := NewResponseBuilder(c)
	userID, ok := currentUser(c, builder)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, builder)
	if !ok {
		return
	}

	req, err := BuildRequestAndValidate[dto.UpdateFavoriteRequest](c)
	if err != nil {
		bindFailure(builder, err)
		return
	}

	favorite, err := h.favorites.Update(c.Request.Context(), userID, id, *req)
	if err != nil {
		builder.Fail(err)
		return
	}

	middleware.AuditLog(c, model.ActionFavoriteUpdate, "Favorite updated", map[string]any{
		"favorite_id": id.Hex(),
	})

	builder.Message(i18n.SuccessKeyFavoriteUpdated).SuccessOK(favorite)
}

// Remove handles DELETE /api/favorites/:id.
//
// @Summary      Remove a favorite
// @Tags         Favorites
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Favorite id"
// @Success      200 {object} dto.SuccessResponse{data=model.Favorite}
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/favorites/{id} [delete]
func (h *FavoritesHandler) Remove(c *gin.Context) {
	builder := NewResponseBuilder(c)
	userID, ok := currentUser(c, builder)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, builder)
	if !ok {
		return
	}

	favorite, err := h.favorites.Remove(c.Request.Context(), userID, id)
	if err != nil {
		builder.Fail(err)
		return
	}

	middleware.AuditLog(c, model.ActionFavoriteRemove, "Favorite removed", map[string]any{
		"favorite_id": id.Hex(),
		"codigo_fipe": favorite.CodigoFipe,
	})

	builder.Message(i18n.SuccessKeyFavoriteRemoved).SuccessOK(favorite)
}

// Search handles GET /api/favorites/search.
//
// @Summary      Search favorites
// @Description  q matches brand, model, tags and notes ignoring case and accents
// @Tags         Favorites
// @Produce      json
// @Security     BearerAuth
// @Param        q query string false "Free text"
// @Param        marca query string false "Brand"
// @Param        tipo query string false "Vehicle type"
// @Success      200 {object} dto.SuccessResponse{data=[]model.Favorite}
// @Router       /api/favorites/search [get]
func (h *FavoritesHandler) Search(c *gin.Context) {
	builder := NewResponseBuilder(c)
	userID, ok := currentUser(c, builder)
	if !ok {
		return
	}

	var q dto.FavoriteSearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	favorites, err := h.favorites.Search(c.Request.Context(), userID, q)
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.Meta(gin.H{"total": len(favorites), "filtros": q}).SuccessOK(favorites)
}

// Stats handles GET /api/favorites/stats.
//
// @Summary      Favorite statistics
// @Tags         Favorites
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SuccessResponse{data=dto.FavoriteStats}
// @Router       /api/favorites/stats [get]
func (h *FavoritesHandler) Stats(c *gin.Context) {
	builder := NewResponseBuilder(c)
	userID, ok := currentUser(c, builder)
	if !ok {
		return
	}

	stats, err := h.favorites.Stats(c.Request.Context(), userID)
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.SuccessOK(stats)
}

// Compare handles POST /api/favorites/compare.
//
// @Summary      Compare favorites
// @Tags         Favorites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CompareFavoritesRequest true "Favorite ids"
// @Success      200 {object} dto.SuccessResponse{data=dto.FavoriteComparison}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse "Some favorite was not found"
// @Router       /api/favorites/compare [post]
func (h *FavoritesHandler) Compare(c *gin.Context) {
	builder := NewResponseBuilder(c)
	userID, ok := currentUser(c, builder)
	if !ok {
		return
	}

	req, err := BuildRequestAndValidate[dto.CompareFavoritesRequest](c)
	if err != nil {
		bindFailure(builder, err)
		return
	}

	comparison, err := h.favorites.Compare(c.Request.Context(), userID, req.ObjectIDs())
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.Message(i18n.SuccessKeyComparison, len(comparison.Veiculos)).SuccessOK(comparison)
}
