package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/fipe-service/internal/domain/dto"
	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/mocks"
	"github.com/guttosm/fipe-service/internal/repository"
	"github.com/guttosm/fipe-service/internal/service"
)

func newHistoryService() *service.HistoryServiceImpl {
	return service.NewHistoryService(repository.NewMemoryHistoryRepository(), service.HistoryConfig{
		MaxItems:    100,
		PageSize:    20,
		MaxPageSize: 100,
	})
}

func historyRouter(t *testing.T) http.Handler {
	t.Helper()
	return newTestRouter(t, RouterConfig{AuthService: newAuthMock(), HistoryService: newHistoryService()})
}

func addHistory(t *testing.T, router http.Handler, body string) model.HistoryItem {
	t.Helper()
	w := request{method: http.MethodPost, path: "/api/history", body: body, token: userToken}.do(t, router)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var item model.HistoryItem
	decodeSuccess(t, w, &item)
	return item
}

func TestHistoryHandler_ListAndPaginate(t *testing.T) {
	router := historyRouter(t)
	addHistory(t, router, `{"tipo":"consulta_preco","codigoFipe":"001004-9","marca":"Fiat","modelo":"Palio"}`)
	addHistory(t, router, `{"tipo":"busca_marca","marca":"VW"}`)
	last := addHistory(t, router, `{"tipo":"consulta_preco","codigoFipe":"005340-6","marca":"VW","modelo":"Gol"}`)

	w := request{method: http.MethodGet, path: "/api/history?limit=2", token: userToken}.do(t, router)
	require.Equal(t, http.StatusOK, w.Code)
	var items []model.HistoryItem
	env := decodeSuccess(t, w, &items)
	require.Len(t, items, 2)
	assert.Equal(t, last.ID, items[0].ID)

	var page dto.Pagination
	require.NoError(t, json.Unmarshal(env.Meta, &page))
	assert.Equal(t, dto.Pagination{CurrentPage: 1, TotalPages: 2, TotalItems: 3, ItemsPerPage: 2}, page)

	w = request{method: http.MethodGet, path: "/api/history?tipo=busca_marca", token: userToken}.do(t, router)
	decodeSuccess(t, w, &items)
	assert.Len(t, items, 1)

	w = request{method: http.MethodGet, path: "/api/history", token: otherToken}.do(t, router)
	decodeSuccess(t, w, &items)
	assert.Empty(t, items)

	w = request{method: http.MethodPost, path: "/api/history", body: `{"tipo":"desconhecido"}`, token: userToken}.do(t, router)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryHandler_DeleteAndClear(t *testing.T) {
	router := historyRouter(t)
	first := addHistory(t, router, `{"tipo":"consulta_preco","codigoFipe":"001004-9"}`)
	addHistory(t, router, `{"tipo":"consulta_preco","codigoFipe":"005340-6"}`)
	addHistory(t, router, `{"tipo":"busca_marca","marca":"Fiat"}`)

	w := request{method: http.MethodDelete, path: "/api/history/" + first.ID.Hex(), token: otherToken}.do(t, router)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request{method: http.MethodDelete, path: "/api/history/" + first.ID.Hex(), token: userToken}.do(t, router)
	require.Equal(t, http.StatusOK, w.Code)

	w = request{method: http.MethodDelete, path: "/api/history?tipo=nope", token: userToken}.do(t, router)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request{method: http.MethodDelete, path: "/api/history?tipo=busca_marca", token: userToken}.do(t, router)
	require.Equal(t, http.StatusOK, w.Code)
	var cleared dto.ClearHistoryResponse
	env := decodeSuccess(t, w, &cleared)
	assert.Equal(t, int64(1), cleared.RemovedCount)
	assert.Equal(t, "1 itens removidos do histórico", env.Message)

	w = request{method: http.MethodDelete, path: "/api/history", token: userToken}.do(t, router)
	decodeSuccess(t, w, &cleared)
	assert.Equal(t, int64(1), cleared.RemovedCount)
}

func TestHistoryHandler_StatsRecentExport(t *testing.T) {
	router := historyRouter(t)
	addHistory(t, router, `{"tipo":"consulta_preco","marca":"Fiat","modelo":"Palio"}`)
	addHistory(t, router, `{"tipo":"consulta_preco","marca":"Fiat","modelo":"Uno"}`)
	addHistory(t, router, `{"tipo":"busca_marca","marca":"VW"}`)

	w := request{method: http.MethodGet, path: "/api/history/stats", token: userToken}.do(t, router)
	require.Equal(t, http.StatusOK, w.Code)
	var stats dto.HistoryStats
	decodeSuccess(t, w, &stats)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ConsultasPorTipo["consulta_preco"])
	require.NotEmpty(t, stats.MarcasMaisConsultadas)
	assert.Equal(t, dto.BrandCount{Marca: "Fiat", Count: 2}, stats.MarcasMaisConsultadas[0])

	w = request{method: http.MethodGet, path: "/api/history/recent?limit=2", token: userToken}.do(t, router)
	require.Equal(t, http.StatusOK, w.Code)
	var recent dto.RecentHistory
	decodeSuccess(t, w, &recent)
	assert.Len(t, recent.Consultas, 2)

	w = request{method: http.MethodGet, path: "/api/history/export", token: userToken}.do(t, router)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), "attachment; filename=\"historico-fipe-"))
	var export dto.HistoryExport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &export))
	assert.Equal(t, "user@example.com", export.Usuario)
	assert.Equal(t, 3, export.TotalConsultas)
}

func TestHistory_RecordsAuthenticatedLookups(t *testing.T) {
	upstream := new(mocks.MockUpstreamClient)
	upstream.On("FetchPrice", mock.Anything, "001004-9", "").Return(palio, nil)
	lookups := newLookupService(t, upstream)

	history := newHistoryService()
	recorder := service.NewHistoryRecorder(history, service.DefaultHistoryRecorderConfig())
	lookups.Subscribe(recorder.Record)

	router := newTestRouter(t, RouterConfig{
		Lookups:        lookups,
		AuthService:    newAuthMock(),
		HistoryService: history,
	})

	require.Equal(t, http.StatusOK, request{method: http.MethodGet, path: "/api/fipe/preco/001004-9", token: userToken}.do(t, router).Code)
	require.Equal(t, http.StatusOK, request{method: http.MethodGet, path: "/api/fipe/preco/001004-9"}.do(t, router).Code)
	recorder.Stop()

	w := request{method: http.MethodGet, path: "/api/history", token: userToken}.do(t, router)
	var items []model.HistoryItem
	decodeSuccess(t, w, &items)
	require.Len(t, items, 1)
	assert.Equal(t, model.HistoryPriceLookup, items[0].Tipo)
	assert.Equal(t, "001004-9", items[0].CodigoFipe)
	assert.Equal(t, "Fiat", items[0].Marca)
}
