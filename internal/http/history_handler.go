package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fipe-service/internal/domain/dto"
	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/i18n"
	"github.com/guttosm/fipe-service/internal/middleware"
	"github.com/guttosm/fipe-service/internal/service"
)

// HistoryHandler provides HTTP handlers for the lookup history routes.
type HistoryHandler struct {
	history service.HistoryService
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(history service.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List handles GET /api/history.
//
// @Summary      List history
// @Description  Newest first, paginated
// @Tags         History
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page, from 1"
// @Param        limit query int false "Items per page"
// @Param        tipo query string false "History type"
// @Param        marca query string false "Brand"
// @Success      200 {object} dto.SuccessResponse{data=[]model.HistoryItem,meta=dto.Pagination}
// @Router       /api/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	builder := NewResponseBuilder(c)
	userID, ok := currentUser(c, builder)
	if !ok {
		return
	}

	var q dto.HistoryListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	items, page, err := h.history.List(c.Request.Context(), userID, q)
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.Meta(page).SuccessOK(items)
}

// Add handles POST /api/history.
//
// @Summary      Record a lookup manually
// @Tags         History
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateHistoryRequest true "History item"
// @Success      201 {object} dto.SuccessResponse{data=model.HistoryItem}
// @Failure      400 {object} dto.ErrorResponse
// @Router       /api/history [post]
func (h *HistoryHandler) Add(c *gin.Context) {
	builder := NewResponseBuilder(c)
	userID, ok := currentUser(c, builder)
	if !ok {
		return
	}

	req, err := BuildRequestAndValidate[dto.CreateHistoryRequest](c)
	if err != nil {
		bindFailure(builder, err)
		return
	}

	item := req.ToModel(userID, c.Request.UserAgent())
	if err := h.history.Add(c.Request.Context(), item); err != nil {
		builder.Fail(err)
		return
	}

	builder.Message(i18n.SuccessKeyHistoryAdded).SuccessCreated(item)
}

// Delete handles DELETE /api/history/:id.
//
// @Summary      Remove a history item
// @Tags         History
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "History item id"
// @Success      200 {object} dto.SuccessResponse
// @Failure      404 {object} dto.ErrorResponse
// @Router       /api/history/{id} [delete]
func (h *HistoryHandler) Delete(c *gin.Context) {
	builder := NewResponseBuilder(c)
	userID, ok := currentUser(c, builder)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, builder)
	if !ok {
		return
	}

	if err := h.history.Delete(c.Request.Context(), userID, id); err != nil {
		builder.Fail(err)
		return
	}

	builder.Message(i18n.SuccessKeyHistoryRemoved).Success(http.StatusOK, nil)
}

// Clear handles DELETE /api/history.
//
// @Summary      Clear history
// @Description  Removes every item, or only those of the given type
// @Tags         History
// @Produce      json
// @Security     BearerAuth
// @Param        tipo query string false "History type"
// @Success      200 {object} dto.SuccessResponse{data=dto.ClearHistoryResponse}
// @Failure      400 {object} dto.ErrorResponse "Unknown history type"
// @Router       /api/history [delete]
func (h *HistoryHandler) Clear(c *gin.Context) {
	builder := NewResponseBuilder(c)
	userID, ok := currentUser(c, builder)
	if !ok {
		return
	}

	tipo := c.Query("tipo")
	if tipo != "" && !dto.ValidHistoryType(tipo) {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidHistoryType, fmt.Errorf("unknown history type %q", tipo))
		return
	}

	removed, err := h.history.Clear(c.Request.Context(), userID, tipo)
	if err != nil {
		builder.Fail(err)
		return
	}

	middleware.AuditLog(c, model.ActionHistoryClear, "History cleared", map[string]any{
		"tipo":    tipo,
		"removed": removed,
	})

	builder.Message(i18n.SuccessKeyHistoryCleared, removed).
		SuccessOK(dto.ClearHistoryResponse{RemovedCount: removed})
}

// Stats handles GET /api/history/stats.
//
// @Summary      History statistics
// @Tags         History
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.SuccessResponse{data=dto.HistoryStats}
// @Router       /api/history/stats [get]
func (h *HistoryHandler) Stats(c *gin.Context) {
	builder := NewResponseBuilder(c)
	userID, ok := currentUser(c, builder)
	if !ok {
		return
	}

	stats, err := h.history.Stats(c.Request.Context(), userID)
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.SuccessOK(stats)
}

// Recent handles GET /api/history/recent.
//
// @Summary      Recent lookups and suggestions
// @Tags         History
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of lookups" default(10)
// @Success      200 {object} dto.SuccessResponse{data=dto.RecentHistory}
// @Router       /api/history/recent [get]
func (h *HistoryHandler) Recent(c *gin.Context) {
	builder := NewResponseBuilder(c)
	userID, ok := currentUser(c, builder)
	if !ok {
		return
	}

	recent, err := h.history.Recent(c.Request.Context(), userID, dto.ParsePositiveInt(c.Query("limit"), 0))
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.SuccessOK(recent)
}

// Export handles GET /api/history/export.
//
// @Summary      Export history
// @Description  Downloads the whole history as a JSON attachment
// @Tags         History
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.HistoryExport
// @Router       /api/history/export [get]
func (h *HistoryHandler) Export(c *gin.Context) {
	builder := NewResponseBuilder(c)
	userID, ok := currentUser(c, builder)
	if !ok {
		return
	}

	usuario := userID.Hex()
	if claims, ok := middleware.GetClaims(c); ok && claims.Email != "" {
		usuario = claims.Email
	}

	export, err := h.history.Export(c.Request.Context(), userID, usuario)
	if err != nil {
		builder.Fail(err)
		return
	}

	filename := fmt.Sprintf("historico-fipe-%s.json", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, export)
}
