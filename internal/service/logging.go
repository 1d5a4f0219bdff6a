package service

import (
	"context"
	"time"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/repository"
)

// LoggingService persists request logs and audit records.
type LoggingService interface {
	// CreateLog stores a single log entry.
	CreateLog(ctx context.Context, entry *model.LogEntry) error
	// CreateLogs stores multiple log entries in bulk.
	CreateLogs(ctx context.Context, entries []*model.LogEntry) error
	// QueryLogs retrieves log entries, newest first.
	QueryLogs(ctx context.Context, q model.LogQuery) ([]*model.LogEntry, error)
	// CountLogs returns the number of matching log entries.
	CountLogs(ctx context.Context, q model.LogQuery) (int64, error)
}

// maxLogQueryLimit bounds a single log query.
const maxLogQueryLimit = 1000

// LoggingServiceImpl implements the LoggingService interface.
type LoggingServiceImpl struct {
	repo repository.LogsRepositoryInterface
}

// NewLoggingService creates a new logging service implementation.
func NewLoggingService(repo repository.LogsRepositoryInterface) LoggingService {
	return &LoggingServiceImpl{repo: repo}
}

// CreateLog stores a single log entry.
func (s *LoggingServiceImpl) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	if entry == nil {
		return nil
	}
	stamp(entry)
	return s.repo.Create(ctx, entry)
}

// CreateLogs stores multiple log entries in bulk, skipping nil entries.
func (s *LoggingServiceImpl) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	batch := make([]*model.LogEntry, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			stamp(e)
			batch = append(batch, e)
		}
	}
	if len(batch) == 0 {
		return nil
	}
	return s.repo.CreateMany(ctx, batch)
}

// QueryLogs retrieves log entries, newest first. The limit is capped.
func (s *LoggingServiceImpl) QueryLogs(ctx context.Context, q model.LogQuery) ([]*model.LogEntry, error) {
	if q.Limit <= 0 || q.Limit > maxLogQueryLimit {
		q.Limit = maxLogQueryLimit
	}
	if q.Skip < 0 {
		q.Skip = 0
	}
	return s.repo.Query(ctx, q)
}

// CountLogs returns the number of matching log entries.
func (s *LoggingServiceImpl) CountLogs(ctx context.Context, q model.LogQuery) (int64, error) {
	return s.repo.Count(ctx, q)
}

func stamp(entry *model.LogEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
}
