package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/logger"
)

// AuditLog records a user action such as a login or a favorite mutation.
// The entry is always written to the console log and, when an async logger
// is installed, persisted through its worker pool.
func AuditLog(c *gin.Context, actionType, message string, fields map[string]any) {
	entry := newAuditEntry(c, "info", actionType, message, fields)
	log := logger.Component("audit")
	log.Info().
		Str("request_id", entry.RequestID).
		Str("action_type", actionType).
		Str("user_id", entry.UserID).
		Msg(message)
	persist(entry)
}

// AuditLogError records a failed user action.
func AuditLogError(c *gin.Context, actionType, message string, err error, fields map[string]any) {
	entry := newAuditEntry(c, "error", actionType, message, fields)
	if err != nil {
		entry.Error = err.Error()
	}
	log := logger.Component("audit")
	log.Warn().
		Err(err).
		Str("request_id", entry.RequestID).
		Str("action_type", actionType).
		Str("user_id", entry.UserID).
		Msg(message)
	persist(entry)
}

func newAuditEntry(c *gin.Context, level, actionType, message string, fields map[string]any) *model.LogEntry {
	entry := &model.LogEntry{
		Timestamp:  time.Now().UTC(),
		Level:      level,
		Message:    message,
		RequestID:  GetRequestID(c),
		Method:     c.Request.Method,
		Path:       c.Request.URL.Path,
		IP:         c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		ActionType: actionType,
	}
	entry.UserID, entry.UserEmail = userFields(c)
	if len(fields) > 0 {
		entry.WithFields(fields)
	}
	return entry
}

func persist(entry *model.LogEntry) {
	if al := GetAsyncLogger(); al != nil {
		al.Log(entry)
	}
}
