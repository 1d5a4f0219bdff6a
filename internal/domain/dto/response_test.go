package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorResponse_WithRequestID(t *testing.T) {
	err := NewError(ErrCodeInternal, "falha").WithRequestID("req-1")

	assert.False(t, err.Success)
	assert.Equal(t, ErrCodeInternal, err.Error)
	assert.Equal(t, "falha", err.Message)
	assert.Equal(t, "req-1", err.RequestID)
	assert.False(t, err.Timestamp.IsZero())
}

func TestErrCodeFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusBadRequest, ErrCodeInvalidRequest},
		{http.StatusUnauthorized, ErrCodeUnauthorized},
		{http.StatusForbidden, ErrCodeForbidden},
		{http.StatusNotFound, ErrCodeNotFound},
		{http.StatusConflict, ErrCodeConflict},
		{http.StatusRequestEntityTooLarge, ErrCodeTooLarge},
		{http.StatusTooManyRequests, ErrCodeRateLimit},
		{http.StatusRequestTimeout, ErrCodeTimeout},
		{http.StatusGatewayTimeout, ErrCodeTimeout},
		{http.StatusBadGateway, ErrCodeUpstream},
		{http.StatusServiceUnavailable, ErrCodeUpstream},
		{http.StatusInternalServerError, ErrCodeInternal},
		{http.StatusTeapot, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, ErrCodeFromStatus(tt.status))
		})
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name               string
		page, limit, total int
		wantPages          int
	}{
		{name: "exact pages", page: 1, limit: 20, total: 40, wantPages: 2},
		{name: "partial last page", page: 2, limit: 20, total: 41, wantPages: 3},
		{name: "empty", page: 1, limit: 20, total: 0, wantPages: 0},
		{name: "zero limit", page: 1, limit: 0, total: 5, wantPages: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.page, p.CurrentPage)
			assert.Equal(t, tt.total, p.TotalItems)
			assert.Equal(t, tt.limit, p.ItemsPerPage)
		})
	}
}
