//go:build !integration

package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/mocks"
	"github.com/guttosm/fipe-service/internal/repository"
	"github.com/guttosm/fipe-service/internal/service"
)

func newMemoryLogging() (service.LoggingService, *repository.MemoryLogsRepository) {
	repo := repository.NewMemoryLogsRepository(100)
	return service.NewLoggingService(repo), repo
}

func TestNewAsyncLogger_NilService(t *testing.T) {
	assert.Nil(t, NewAsyncLogger(nil, DefaultAsyncLoggerConfig()))
}

func TestAsyncLogger_WritesAndDrainsOnStop(t *testing.T) {
	logging, repo := newMemoryLogging()
	al := NewAsyncLogger(logging, AsyncLoggerConfig{BufferSize: 50, NumWorkers: 2, WriteTimeout: time.Second})
	require.NotNil(t, al)

	for i := 0; i < 20; i++ {
		assert.True(t, al.Log(&model.LogEntry{Level: "info", Message: "HTTP request"}))
	}
	al.Stop()

	stats := al.Stats()
	assert.Equal(t, int64(20), stats.Enqueued)
	assert.Equal(t, int64(20), stats.Written)
	assert.Zero(t, stats.Dropped)
	assert.Zero(t, stats.Errors)

	count, err := repo.Count(context.Background(), model.LogQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(20), count)
}

func TestAsyncLogger_CountsWriteErrors(t *testing.T) {
	logging := new(mocks.MockLoggingService)
	logging.On("CreateLog", mock.Anything, mock.Anything).Return(errors.New("mongo down"))

	al := NewAsyncLogger(logging, AsyncLoggerConfig{BufferSize: 10, NumWorkers: 1, WriteTimeout: time.Second})
	al.Log(&model.LogEntry{Message: "a"})
	al.Log(&model.LogEntry{Message: "b"})
	al.Stop()

	stats := al.Stats()
	assert.Equal(t, int64(2), stats.Errors)
	assert.Zero(t, stats.Written)
}

func TestAsyncLogger_DropsWhenFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	logging := new(mocks.MockLoggingService)
	logging.On("CreateLog", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case started <- struct{}{}:
			default:
			}
			<-release
		}).
		Return(nil)

	al := NewAsyncLogger(logging, AsyncLoggerConfig{BufferSize: 1, NumWorkers: 1, WriteTimeout: time.Second})

	require.True(t, al.Log(&model.LogEntry{Message: "in flight"}))
	<-started
	require.True(t, al.Log(&model.LogEntry{Message: "buffered"}))
	assert.False(t, al.Log(&model.LogEntry{Message: "dropped"}))

	close(release)
	al.Stop()

	stats := al.Stats()
	assert.Equal(t, int64(2), stats.Written)
	assert.Equal(t, int64(1), stats.Dropped)
}

func TestAsyncLogger_StopIsIdempotentAndRejectsLateEntries(t *testing.T) {
	logging, _ := newMemoryLogging()
	al := NewAsyncLogger(logging, AsyncLoggerConfig{})

	al.Stop()
	assert.NotPanics(t, al.Stop)
	assert.False(t, al.Log(&model.LogEntry{Message: "late"}))
	assert.Equal(t, int64(1), al.Stats().Dropped)
}

func TestGlobalAsyncLogger(t *testing.T) {
	logging, repo := newMemoryLogging()

	InitAsyncLogger(logging, DefaultAsyncLoggerConfig())
	first := GetAsyncLogger()
	require.NotNil(t, first)

	InitAsyncLogger(logging, DefaultAsyncLoggerConfig())
	assert.NotSame(t, first, GetAsyncLogger())
	assert.False(t, first.Log(&model.LogEntry{}), "replaced logger must be stopped")

	GetAsyncLogger().Log(&model.LogEntry{Message: "kept"})
	StopAsyncLogger()
	assert.Nil(t, GetAsyncLogger())
	assert.NotPanics(t, StopAsyncLogger)

	count, err := repo.Count(context.Background(), model.LogQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
