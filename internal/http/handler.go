package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/fipe"
	"github.com/guttosm/fipe-service/internal/i18n"
	"github.com/guttosm/fipe-service/internal/middleware"
	"github.com/guttosm/fipe-service/internal/service/cache"
)

// LookupService is the lookup pipeline served under /api/fipe. *fipe.Service implements it.
type LookupService interface {
	Tables(ctx context.Context) (fipe.Result[[]fipe.ReferenceTable], error)
	Brands(ctx context.Context, vehicleType fipe.VehicleType, tableID string) (fipe.Result[[]fipe.EnrichedBrand], error)
	Models(ctx context.Context, vehicleType fipe.VehicleType, brandCode, tableID string) (fipe.Result[[]fipe.EnrichedModel], error)
	Price(ctx context.Context, fipeCode, tableID string) (fipe.Result[fipe.EnrichedPrice], error)
	Search(ctx context.Context, query string, vehicleType fipe.VehicleType) (fipe.SearchResponse, error)
	CacheStats() cache.Stats
	ClearCache()
}

var _ LookupService = (*fipe.Service)(nil)

// tableParam is the query parameter selecting a reference table.
const tableParam = "tabela_referencia"

// Handler provides HTTP handlers for the FIPE lookup routes.
type Handler struct {
	lookups LookupService
}

// NewHandler creates a new Handler instance.
func NewHandler(lookups LookupService) *Handler {
	return &Handler{lookups: lookups}
}

// ListTables handles GET /api/fipe/tabelas.
//
// @Summary      List reference tables
// @Description  Returns the monthly reference tables of the FIPE price index, newest first.
// @Tags         FIPE
// @Produce      json
// @Param        Authorization header string false "Bearer token, records the lookup in the user's history"
// @Success      200 {object} dto.SuccessResponse{data=[]fipe.ReferenceTable}
// @Failure      500 {object} dto.ErrorResponse "Pricing service unavailable"
// @Router       /api/fipe/tabelas [get]
func (h *Handler) ListTables(c *gin.Context) {
	builder := NewResponseBuilder(c)

	res, err := h.lookups.Tables(c.Request.Context())
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.Cached(res.Cached).
		Message(i18n.SuccessKeyTablesFound, len(res.Data)).
		Meta(gin.H{"total": len(res.Data)}).
		SuccessOK(res.Data)
}

// ListBrands handles GET /api/fipe/marcas/:tipo.
//
// @Summary      List brands
// @Description  Returns the brands of a vehicle type. tipo accepts carros, motos, caminhoes or car, motorcycle, truck.
// @Tags         FIPE
// @Produce      json
// @Param        tipo path string true "Vehicle type" Enums(carros, motos, caminhoes)
// @Param        tabela_referencia query int false "Reference table code"
// @Success      200 {object} dto.SuccessResponse{data=[]fipe.EnrichedBrand}
// @Failure      400 {object} dto.ErrorResponse "Invalid vehicle type or table"
// @Failure      500 {object} dto.ErrorResponse "Pricing service unavailable"
// @Router       /api/fipe/marcas/{tipo} [get]
func (h *Handler) ListBrands(c *gin.Context) {
	builder := NewResponseBuilder(c)

	vehicleType, err := fipe.ParseVehicleType(c.Param("tipo"))
	if err != nil {
		builder.Fail(err)
		return
	}

	res, err := h.lookups.Brands(c.Request.Context(), vehicleType, c.Query(tableParam))
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.Cached(res.Cached).
		Message(i18n.SuccessKeyBrandsFound, len(res.Data)).
		Meta(gin.H{"total": len(res.Data), "tipo": vehicleType}).
		SuccessOK(res.Data)
}

// ListModels handles GET /api/fipe/veiculos/:tipo/:marca.
//
// @Summary      List models of a brand
// @Tags         FIPE
// @Produce      json
// @Param        tipo path string true "Vehicle type" Enums(carros, motos, caminhoes)
// @Param        marca path string true "Brand code"
// @Param        tabela_referencia query int false "Reference table code"
// @Success      200 {object} dto.SuccessResponse{data=[]fipe.EnrichedModel}
// @Failure      400 {object} dto.ErrorResponse "Invalid vehicle type, brand or table"
// @Failure      500 {object} dto.ErrorResponse "Pricing service unavailable"
// @Router       /api/fipe/veiculos/{tipo}/{marca} [get]
func (h *Handler) ListModels(c *gin.Context) {
	builder := NewResponseBuilder(c)

	vehicleType, err := fipe.ParseVehicleType(c.Param("tipo"))
	if err != nil {
		builder.Fail(err)
		return
	}

	res, err := h.lookups.Models(c.Request.Context(), vehicleType, c.Param("marca"), c.Query(tableParam))
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.Cached(res.Cached).
		Message(i18n.SuccessKeyModelsFound, len(res.Data)).
		Meta(gin.H{"total": len(res.Data), "tipo": vehicleType, "marca": c.Param("marca")}).
		SuccessOK(res.Data)
}

// GetPrice handles GET /api/fipe/preco/:codigoFipe.
//
// @Summary      Vehicle price
// @Description  Returns the enriched price record of a FIPE code. Codes shorter than 6 characters are rejected without calling the pricing service.
// @Tags         FIPE
// @Produce      json
// @Param        codigoFipe path string true "FIPE code" example(001004-9)
// @Param        tabela_referencia query int false "Reference table code"
// @Param        Authorization header string false "Bearer token, records the lookup in the user's history"
// @Success      200 {object} dto.SuccessResponse{data=fipe.EnrichedPrice}
// @Failure      400 {object} dto.ErrorResponse "Invalid FIPE code or table"
// @Failure      500 {object} dto.ErrorResponse "Pricing service unavailable"
// @Router       /api/fipe/preco/{codigoFipe} [get]
func (h *Handler) GetPrice(c *gin.Context) {
	builder := NewResponseBuilder(c)

	res, err := h.lookups.Price(c.Request.Context(), c.Param("codigoFipe"), c.Query(tableParam))
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.Cached(res.Cached).
		Message(i18n.SuccessKeyPriceFound).
		SuccessOK(res.Data)
}

// Search handles GET /api/fipe/search.
//
// @Summary      Search models
// @Description  Finds models whose name contains q, ignoring case and accents, across the brands of one or all vehicle types. Failing brands are skipped and counted in meta.
// @Tags         FIPE
// @Produce      json
// @Param        q query string true "At least 3 characters" example(palio)
// @Param        tipo query string false "Vehicle type" Enums(carros, motos, caminhoes)
// @Success      200 {object} dto.SuccessResponse{data=[]fipe.SearchResult}
// @Failure      400 {object} dto.ErrorResponse "Query too short or invalid vehicle type"
// @Failure      500 {object} dto.ErrorResponse "Pricing service unavailable"
// @Router       /api/fipe/search [get]
func (h *Handler) Search(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var vehicleType fipe.VehicleType
	if raw := c.Query("tipo"); raw != "" {
		t, err := fipe.ParseVehicleType(raw)
		if err != nil {
			builder.Fail(err)
			return
		}
		vehicleType = t
	}

	res, err := h.lookups.Search(c.Request.Context(), c.Query("q"), vehicleType)
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.Message(i18n.SuccessKeySearchCompleted, res.Total).
		Meta(gin.H{
			"query":     res.Query,
			"tipo":      res.Tipo,
			"total":     res.Total,
			"returned":  len(res.Results),
			"truncated": res.Truncated,
			"skipped": gin.H{
				"tipos":  res.SkippedTypes,
				"marcas": res.SkippedBrands,
			},
		}).
		SuccessOK(res.Results)
}

// CacheStats handles GET /api/fipe/stats.
//
// @Summary      Lookup cache statistics
// @Tags         FIPE
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=cache.Stats}
// @Failure      401 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/fipe/stats [get]
func (h *Handler) CacheStats(c *gin.Context) {
	stats := h.lookups.CacheStats()
	NewResponseBuilder(c).
		Meta(gin.H{"hit_rate": stats.HitRate()}).
		SuccessOK(stats)
}

// ClearCache handles DELETE /api/fipe/cache.
//
// @Summary      Flush the lookup cache
// @Tags         FIPE
// @Produce      json
// @Success      200 {object} dto.SuccessResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/fipe/cache [delete]
func (h *Handler) ClearCache(c *gin.Context) {
	h.lookups.ClearCache()
	middleware.AuditLog(c, model.ActionCacheClear, "Lookup cache cleared", nil)
	NewResponseBuilder(c).
		Message(i18n.SuccessKeyCacheCleared).
		Success(http.StatusOK, nil)
}
