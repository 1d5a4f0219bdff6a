//go:build integration

package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/repository"
	"github.com/guttosm/fipe-service/internal/service"
)

func TestIntegration_FavoritesAndHistoryOnMongo(t *testing.T) {
	db := setupMongo(t)

	favorites := service.NewFavoriteService(repository.NewFavoriteRepository(db), service.FavoriteConfig{
		MaxFavorites:   10,
		MaxComparisons: 3,
	})
	history := service.NewHistoryService(repository.NewHistoryRepository(db), service.HistoryConfig{
		MaxItems:    100,
		PageSize:    20,
		MaxPageSize: 100,
	})
	router := newTestRouter(t, RouterConfig{
		AuthService:     newAuthMock(),
		FavoriteService: favorites,
		HistoryService:  history,
	})

	first := addFavorite(t, router, userToken, favoriteBody("001004-9", "Fiat", "Palio 1.0", 2014, "R$ 26.000,00"))
	addFavorite(t, router, userToken, favoriteBody("005340-6", "VW", "Gol 1.6", 2020, "R$ 40.000,00"))

	w := request{method: http.MethodPost, path: "/api/favorites", body: favoriteBody("001004-9", "Fiat", "Palio 1.0", 2014, "R$ 26.000,00"), token: userToken}.do(t, router)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = request{method: http.MethodGet, path: "/api/favorites", token: otherToken}.do(t, router)
	require.Equal(t, http.StatusOK, w.Code)
	var others []model.Favorite
	decodeSuccess(t, w, &others)
	assert.Empty(t, others)

	w = request{method: http.MethodDelete, path: "/api/favorites/" + first.ID.Hex(), token: userToken}.do(t, router)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = request{method: http.MethodGet, path: "/api/favorites", token: userToken}.do(t, router)
	var mine []model.Favorite
	decodeSuccess(t, w, &mine)
	require.Len(t, mine, 1)
	assert.Equal(t, "005340-6", mine[0].CodigoFipe)

	addHistory(t, router, `{"tipo":"consulta_preco","codigoFipe":"001004-9","marca":"Fiat","modelo":"Palio"}`)
	addHistory(t, router, `{"tipo":"consulta_preco","codigoFipe":"005340-6","marca":"VW","modelo":"Gol"}`)

	w = request{method: http.MethodGet, path: "/api/history?limit=1", token: userToken}.do(t, router)
	require.Equal(t, http.StatusOK, w.Code)
	var items []model.HistoryItem
	env := decodeSuccess(t, w, &items)
	require.Len(t, items, 1)
	assert.Contains(t, string(env.Meta), `"totalItems":2`)
}
