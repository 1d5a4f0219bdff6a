//go:build !integration

package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/guttosm/fipe-service/config"
	"github.com/guttosm/fipe-service/internal/mocks"
)

func TestEnsureAdmin(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.AuthConfig
		setupMock func(*mocks.MockAuthService)
	}{
		{
			name: "seeds configured admin",
			cfg:  config.AuthConfig{AdminName: "Admin", AdminEmail: "admin@example.com", AdminPassword: "Admin123"},
			setupMock: func(m *mocks.MockAuthService) {
				m.On("EnsureAdmin", mock.Anything, "Admin", "admin@example.com", "Admin123").Return(nil).Once()
			},
		},
		{
			name: "store failure does not abort startup",
			cfg:  config.AuthConfig{AdminName: "Admin", AdminEmail: "admin@example.com", AdminPassword: "Admin123"},
			setupMock: func(m *mocks.MockAuthService) {
				m.On("EnsureAdmin", mock.Anything, "Admin", "admin@example.com", "Admin123").
					Return(errors.New("connection refused")).Once()
			},
		},
		{
			name:      "missing password skips seeding",
			cfg:       config.AuthConfig{AdminEmail: "admin@example.com"},
			setupMock: func(*mocks.MockAuthService) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(mocks.MockAuthService)
			tt.setupMock(auth)

			assert.NotPanics(t, func() {
				ensureAdmin(context.Background(), auth, tt.cfg)
			})
			auth.AssertExpectations(t)
		})
	}
}
