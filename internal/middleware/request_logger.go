package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/logger"
)

// probePaths are hit by orchestrators and scrapers every few seconds.
// They log at debug and are never persisted.
var probePaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
	"/metrics": {},
}

// RequestLogger logs every request with zerolog. When persistEntries is set
// and an async logger is installed, the entry is also queued for the logs repository.
func RequestLogger(persistEntries bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		path := c.Request.URL.Path
		_, probe := probePaths[path]

		level := levelFor(status)
		if probe && status < 500 {
			level = zerolog.DebugLevel
		}

		log := logger.Logger()
		event := log.WithLevel(level).
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status_code", status).
			Int64("duration_ms", latency.Milliseconds()).
			Str("ip", c.ClientIP())
		if route := c.FullPath(); route != "" && route != path {
			event = event.Str("route", route)
		}
		if c.Writer.Header().Get(IdempotencyReplayedHeader) != "" {
			event = event.Bool("replayed", true)
		}
		event.Str("user_agent", c.Request.UserAgent()).Msg("HTTP request")

		if !persistEntries || probe {
			return
		}
		userID, email := userFields(c)
		entry := &model.LogEntry{
			Timestamp:  start.UTC(),
			Level:      levelFor(status).String(),
			Message:    "HTTP request",
			RequestID:  GetRequestID(c),
			Method:     c.Request.Method,
			Path:       path,
			StatusCode: status,
			Duration:   latency.Milliseconds(),
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			UserID:     userID,
			UserEmail:  email,
		}
		if len(c.Errors) > 0 {
			entry.Error = c.Errors.String()
		}
		persist(entry)
	}
}

func levelFor(status int) zerolog.Level {
	switch {
	case status >= 500:
		return zerolog.ErrorLevel
	case status >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
