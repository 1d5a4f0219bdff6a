package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit action types.
const (
	ActionLogin          = "login"
	ActionLogout         = "logout"
	ActionRegister       = "register"
	ActionFavoriteAdd    = "favorite_add"
	ActionFavoriteUpdate = "favorite_update"
	ActionFavoriteRemove = "favorite_remove"
	ActionHistoryClear   = "history_clear"
	ActionFileUpload     = "file_upload"
	ActionFileDelete     = "file_delete"
	ActionCacheClear     = "cache_clear"
)

// LogEntry is a persisted request log or audit record. Context specific
// values go into Fields.
type LogEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
	Level      string             `bson:"level" json:"level"`
	Message    string             `bson:"message" json:"message"`
	RequestID  string             `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Method     string             `bson:"method,omitempty" json:"method,omitempty"`
	Path       string             `bson:"path,omitempty" json:"path,omitempty"`
	StatusCode int                `bson:"status_code,omitempty" json:"status_code,omitempty"`
	Duration   int64              `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	IP         string             `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent  string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Error      string             `bson:"error,omitempty" json:"error,omitempty"`
	UserID     string             `bson:"user_id,omitempty" json:"user_id,omitempty"`
	UserEmail  string             `bson:"user_email,omitempty" json:"user_email,omitempty"`
	ActionType string             `bson:"action_type,omitempty" json:"action_type,omitempty"`
	Fields     map[string]any     `bson:"fields,omitempty" json:"fields,omitempty"`
}

// WithField sets a single context field.
func (e *LogEntry) WithField(key string, value any) *LogEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value
	return e
}

// WithFields merges fields into the entry.
func (e *LogEntry) WithFields(fields map[string]any) *LogEntry {
	for k, v := range fields {
		e.WithField(k, v)
	}
	return e
}

// LogQuery filters stored log entries. Zero values match everything.
type LogQuery struct {
	RequestID  string
	Level      string
	UserID     string
	ActionType string
	Since      *time.Time
	Until      *time.Time
	Limit      int
	Skip       int
}
