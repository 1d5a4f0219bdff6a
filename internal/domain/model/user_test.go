package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_Roles(t *testing.T) {
	tests := []struct {
		name      string
		user      *User
		role      string
		wantHas   bool
		wantAdmin bool
	}{
		{name: "nil user", user: nil, role: RoleUser, wantHas: false, wantAdmin: false},
		{name: "user has user role", user: &User{Role: RoleUser}, role: RoleUser, wantHas: true},
		{name: "user lacks admin role", user: &User{Role: RoleUser}, role: RoleAdmin, wantHas: false},
		{name: "admin has user role", user: &User{Role: RoleAdmin}, role: RoleUser, wantHas: true, wantAdmin: true},
		{name: "admin has admin role", user: &User{Role: RoleAdmin}, role: RoleAdmin, wantHas: true, wantAdmin: true},
		{name: "empty role", user: &User{}, role: RoleUser, wantHas: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantHas, tt.user.HasRole(tt.role))
			assert.Equal(t, tt.wantAdmin, tt.user.IsAdmin())
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "joao@example.com", NormalizeEmail("  Joao@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestToken_Expired(t *testing.T) {
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

	assert.False(t, (&Token{ExpiresAt: now.Add(time.Second)}).Expired(now))
	assert.True(t, (&Token{ExpiresAt: now}).Expired(now))
	assert.True(t, (&Token{ExpiresAt: now.Add(-time.Hour)}).Expired(now))
}
