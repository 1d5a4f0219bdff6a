//go:build integration

package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/fipe-service/internal/testutil"
)

func TestInitializeApp_WithMongoDB(t *testing.T) {
	upstream := newUpstream(t)
	cfg := testConfig(t, upstream.URL)
	cfg.Database.Enabled = true
	cfg.Database.URI = testutil.GetSharedContainerURI()
	cfg.Database.DatabaseName = testutil.SanitizeDBName(t.Name())
	cfg.Database.CircuitBreakerFailureThreshold = 5
	cfg.Database.CircuitBreakerSuccessThreshold = 1
	cfg.Database.LogsTTL = 30 * 24 * time.Hour

	application, err := InitializeApp(cfg)
	require.NoError(t, err)
	defer application.Close()
	assert.True(t, application.storage.Persistent)

	router := application.Router

	w := serve(router, http.MethodGet, "/readyz", "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"mongodb":"ok"`)
	assert.Contains(t, w.Body.String(), `"mongodb_favorites_circuit":"closed"`)

	w = serve(router, http.MethodPost, "/api/auth/register",
		`{"name":"Maria","email":"maria@example.com","password":"Senha123"}`, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token := login(t, router, "maria@example.com", "Senha123")

	w = serve(router, http.MethodPost, "/api/favorites",
		`{"codigoFipe":"001004-9","marca":"Fiat","modelo":"Palio 1.0","anoModelo":2014,"valor":"R$ 26.000,00","tipo":"carros"}`, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = serve(router, http.MethodGet, "/api/fipe/preco/001004-9", "", token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	user, err := application.storage.Users.FindByEmail(context.Background(), "maria@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)

	count, err := application.storage.Favorites.CountByUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
