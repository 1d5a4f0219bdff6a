package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fipe-service/internal/domain/dto"
	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/i18n"
	"github.com/guttosm/fipe-service/internal/service"
)

const (
	defaultLogPageSize = 50
	maxLogPageSize     = 500
)

// AdminHandler provides HTTP handlers for the admin routes.
type AdminHandler struct {
	logs service.LoggingService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(logs service.LoggingService) *AdminHandler {
	return &AdminHandler{logs: logs}
}

type logsQuery struct {
	dto.PageQuery
	Level      string `form:"level"`
	UserID     string `form:"user_id"`
	ActionType string `form:"action"`
	RequestID  string `form:"request_id"`
	Since      string `form:"since"`
	Until      string `form:"until"`
}

func parseTimeParam(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("%s must be an RFC3339 timestamp: %w", name, err)
	}
	return &t, nil
}

// Logs handles GET /api/admin/logs.
//
// @Summary      Query request and audit logs
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Param        level query string false "Log level" Enums(info, warn, error)
// @Param        user_id query string false "User id"
// @Param        action query string false "Audit action"
// @Param        request_id query string false "Request id"
// @Param        since query string false "RFC3339 lower bound"
// @Param        until query string false "RFC3339 upper bound"
// @Param        page query int false "Page, from 1"
// @Param        limit query int false "Items per page"
// @Success      200 {object} dto.SuccessResponse{data=[]model.LogEntry,meta=dto.Pagination}
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Router       /api/admin/logs [get]
func (h *AdminHandler) Logs(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var q logsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}
	q.Normalize(defaultLogPageSize, maxLogPageSize)

	since, err := parseTimeParam("since", q.Since)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}
	until, err := parseTimeParam("until", q.Until)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, err)
		return
	}

	filter := model.LogQuery{
		RequestID:  q.RequestID,
		Level:      q.Level,
		UserID:     q.UserID,
		ActionType: q.ActionType,
		Since:      since,
		Until:      until,
	}

	ctx := c.Request.Context()
	total, err := h.logs.CountLogs(ctx, filter)
	if err != nil {
		builder.Fail(err)
		return
	}

	filter.Limit = q.Limit
	filter.Skip = q.Offset()
	entries, err := h.logs.QueryLogs(ctx, filter)
	if err != nil {
		builder.Fail(err)
		return
	}

	builder.Meta(dto.NewPagination(q.Page, q.Limit, int(total))).SuccessOK(entries)
}
