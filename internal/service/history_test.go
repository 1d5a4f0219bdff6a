//go:build !integration

package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/fipe-service/internal/domain/dto"
	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/mocks"
	"github.com/guttosm/fipe-service/internal/repository"
	"github.com/guttosm/fipe-service/internal/service"
)

// seedHistory adds items one minute apart, the last one being the newest.
func seedHistory(t *testing.T, svc service.HistoryService, userID primitive.ObjectID, items ...model.HistoryItem) {
	t.Helper()
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := range items {
		it := items[i]
		it.UserID = userID
		if it.ConsultadoEm.IsZero() {
			it.ConsultadoEm = base.Add(time.Duration(i) * time.Minute)
		}
		require.NoError(t, svc.Add(context.Background(), &it))
	}
}

func TestHistoryService_List(t *testing.T) {
	svc := service.NewHistoryService(repository.NewMemoryHistoryRepository(), service.HistoryConfig{PageSize: 2, MaxPageSize: 3})
	userID := primitive.NewObjectID()
	seedHistory(t, svc, userID,
		model.HistoryItem{Tipo: model.HistoryPriceLookup, Marca: "Fiat", Modelo: "Palio"},
		model.HistoryItem{Tipo: model.HistoryBrandLookup},
		model.HistoryItem{Tipo: model.HistoryPriceLookup, Marca: "VW - VolksWagen", Modelo: "Gol"},
		model.HistoryItem{Tipo: model.HistoryModelLookup, Marca: "Fiat"},
		model.HistoryItem{Tipo: model.HistoryPriceLookup, Marca: "Fiat", Modelo: "Uno"},
	)

	tests := []struct {
		name          string
		query         dto.HistoryListQuery
		expectedCount int
		expectedPage  dto.Pagination
		firstModelo   string
	}{
		{
			name:          "default page size",
			query:         dto.HistoryListQuery{},
			expectedCount: 2,
			expectedPage:  dto.Pagination{CurrentPage: 1, TotalPages: 3, TotalItems: 5, ItemsPerPage: 2},
			firstModelo:   "Uno",
		},
		{
			name:          "last page",
			query:         dto.HistoryListQuery{PageQuery: dto.PageQuery{Page: 3, Limit: 2}},
			expectedCount: 1,
			expectedPage:  dto.Pagination{CurrentPage: 3, TotalPages: 3, TotalItems: 5, ItemsPerPage: 2},
			firstModelo:   "Palio",
		},
		{
			name:          "limit clamped",
			query:         dto.HistoryListQuery{PageQuery: dto.PageQuery{Limit: 50}},
			expectedCount: 3,
			expectedPage:  dto.Pagination{CurrentPage: 1, TotalPages: 2, TotalItems: 5, ItemsPerPage: 3},
			firstModelo:   "Uno",
		},
		{
			name:          "filter by tipo",
			query:         dto.HistoryListQuery{Tipo: model.HistoryPriceLookup, PageQuery: dto.PageQuery{Limit: 3}},
			expectedCount: 3,
			expectedPage:  dto.Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: 3, ItemsPerPage: 3},
			firstModelo:   "Uno",
		},
		{
			name:          "filter by marca is case insensitive",
			query:         dto.HistoryListQuery{Marca: "volks"},
			expectedCount: 1,
			expectedPage:  dto.Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: 1, ItemsPerPage: 2},
			firstModelo:   "Gol",
		},
		{
			name:          "page past the end",
			query:         dto.HistoryListQuery{PageQuery: dto.PageQuery{Page: 9}},
			expectedCount: 0,
			expectedPage:  dto.Pagination{CurrentPage: 9, TotalPages: 3, TotalItems: 5, ItemsPerPage: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, page, err := svc.List(context.Background(), userID, tt.query)
			require.NoError(t, err)
			assert.Len(t, items, tt.expectedCount)
			assert.Equal(t, tt.expectedPage, page)
			if tt.firstModelo != "" {
				assert.Equal(t, tt.firstModelo, items[0].Modelo)
			}
		})
	}
}

func TestHistoryService_Add_TrimsOldest(t *testing.T) {
	svc := service.NewHistoryService(repository.NewMemoryHistoryRepository(), service.HistoryConfig{MaxItems: 3})
	userID := primitive.NewObjectID()

	var items []model.HistoryItem
	for i := 0; i < 5; i++ {
		items = append(items, model.HistoryItem{Tipo: model.HistoryGeneral, Modelo: fmt.Sprintf("m%d", i)})
	}
	seedHistory(t, svc, userID, items...)

	stats, err := svc.Stats(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, "m4", stats.UltimaConsulta.Modelo)
	assert.Equal(t, "m2", stats.PrimeiraConsulta.Modelo)
}

func TestHistoryService_Add(t *testing.T) {
	t.Run("defaults timestamp and details", func(t *testing.T) {
		svc := service.NewHistoryService(repository.NewMemoryHistoryRepository(), service.HistoryConfig{})
		item := &model.HistoryItem{UserID: primitive.NewObjectID(), Tipo: model.HistoryGeneral}

		require.NoError(t, svc.Add(context.Background(), item))
		assert.False(t, item.ConsultadoEm.IsZero())
		assert.NotNil(t, item.Detalhes)
		assert.False(t, item.ID.IsZero())
	})

	t.Run("create error", func(t *testing.T) {
		repo := new(mocks.MockHistoryRepositoryInterface)
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("database error"))
		svc := service.NewHistoryService(repo, service.HistoryConfig{})

		err := svc.Add(context.Background(), &model.HistoryItem{UserID: primitive.NewObjectID()})
		require.Error(t, err)
		repo.AssertNotCalled(t, "TrimOldest", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("trim error is not fatal", func(t *testing.T) {
		repo := new(mocks.MockHistoryRepositoryInterface)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		repo.On("TrimOldest", mock.Anything, mock.Anything, 1000).Return(int64(0), errors.New("database error"))
		svc := service.NewHistoryService(repo, service.HistoryConfig{})

		assert.NoError(t, svc.Add(context.Background(), &model.HistoryItem{UserID: primitive.NewObjectID()}))
		repo.AssertExpectations(t)
	})
}

func TestHistoryService_DeleteAndClear(t *testing.T) {
	svc := service.NewHistoryService(repository.NewMemoryHistoryRepository(), service.HistoryConfig{})
	userID := primitive.NewObjectID()
	ctx := context.Background()
	seedHistory(t, svc, userID,
		model.HistoryItem{Tipo: model.HistoryPriceLookup},
		model.HistoryItem{Tipo: model.HistoryPriceLookup},
		model.HistoryItem{Tipo: model.HistoryBrandLookup},
		model.HistoryItem{Tipo: model.HistoryGeneral},
	)

	items, _, err := svc.List(ctx, userID, dto.HistoryListQuery{})
	require.NoError(t, err)
	require.NotEmpty(t, items)

	require.NoError(t, svc.Delete(ctx, userID, items[0].ID))
	assert.ErrorIs(t, svc.Delete(ctx, userID, items[0].ID), service.ErrHistoryItemNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, primitive.NewObjectID(), items[1].ID), service.ErrHistoryItemNotFound)

	removed, err := svc.Clear(ctx, userID, model.HistoryPriceLookup)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	removed, err = svc.Clear(ctx, userID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestHistoryService_Stats(t *testing.T) {
	svc := service.NewHistoryService(repository.NewMemoryHistoryRepository(), service.HistoryConfig{})
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		stats, err := svc.Stats(ctx, primitive.NewObjectID())
		require.NoError(t, err)
		assert.Equal(t, 0, stats.Total)
		assert.Nil(t, stats.UltimaConsulta)
		assert.NotNil(t, stats.MarcasMaisConsultadas)
		assert.Empty(t, stats.MarcasMaisConsultadas)
	})

	t.Run("aggregates", func(t *testing.T) {
		userID := primitive.NewObjectID()
		day1 := time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC)
		day2 := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
		seedHistory(t, svc, userID,
			model.HistoryItem{Tipo: model.HistoryPriceLookup, Marca: "Fiat", ConsultadoEm: day1},
			model.HistoryItem{Tipo: model.HistoryPriceLookup, Marca: "VW", ConsultadoEm: day1.Add(time.Minute)},
			model.HistoryItem{Tipo: model.HistoryModelLookup, Marca: "Fiat", ConsultadoEm: day2},
			model.HistoryItem{Tipo: model.HistoryBrandLookup, ConsultadoEm: day2.Add(time.Minute)},
		)

		stats, err := svc.Stats(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.Total)
		assert.Equal(t, model.HistoryBrandLookup, stats.UltimaConsulta.Tipo)
		assert.Equal(t, "Fiat", stats.PrimeiraConsulta.Marca)
		assert.Equal(t, map[string]int{"2024-03-10": 2, "2024-03-11": 2}, stats.ConsultasPorDia)
		assert.Equal(t, map[string]int{"Fiat": 2, "VW": 1}, stats.ConsultasPorMarca)
		assert.Equal(t, []dto.BrandCount{{Marca: "Fiat", Count: 2}, {Marca: "VW", Count: 1}}, stats.MarcasMaisConsultadas)
		assert.Equal(t, dto.TypeCount{Tipo: model.HistoryPriceLookup, Count: 2}, stats.TiposMaisConsultados[0])
		assert.Len(t, stats.TiposMaisConsultados, 3)
	})

	t.Run("top brands capped at ten", func(t *testing.T) {
		userID := primitive.NewObjectID()
		var items []model.HistoryItem
		for i := 0; i < 12; i++ {
			items = append(items, model.HistoryItem{Tipo: model.HistoryPriceLookup, Marca: fmt.Sprintf("Marca %02d", i)})
		}
		seedHistory(t, svc, userID, items...)

		stats, err := svc.Stats(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, stats.MarcasMaisConsultadas, 10)
		assert.Len(t, stats.ConsultasPorMarca, 12)
	})
}

func TestHistoryService_Recent(t *testing.T) {
	svc := service.NewHistoryService(repository.NewMemoryHistoryRepository(), service.HistoryConfig{})
	userID := primitive.NewObjectID()

	var items []model.HistoryItem
	for i := 0; i < 12; i++ {
		items = append(items, model.HistoryItem{
			Tipo:   model.HistoryPriceLookup,
			Marca:  fmt.Sprintf("Marca %d", i%7),
			Modelo: fmt.Sprintf("Modelo %d", i%2),
		})
	}
	items = append(items, model.HistoryItem{Tipo: model.HistoryGeneral})
	seedHistory(t, svc, userID, items...)

	recent, err := svc.Recent(context.Background(), userID, 0)
	require.NoError(t, err)
	assert.Len(t, recent.Consultas, 10)
	assert.Equal(t, model.HistoryGeneral, recent.Consultas[0].Tipo)
	assert.Len(t, recent.Sugestoes.Marcas, 5)
	assert.Equal(t, "Marca 4", recent.Sugestoes.Marcas[0])
	assert.Equal(t, []string{"Modelo 1", "Modelo 0"}, recent.Sugestoes.Modelos)

	recent, err = svc.Recent(context.Background(), userID, 3)
	require.NoError(t, err)
	assert.Len(t, recent.Consultas, 3)
}

func TestHistoryService_Export(t *testing.T) {
	svc := service.NewHistoryService(repository.NewMemoryHistoryRepository(), service.HistoryConfig{})
	userID := primitive.NewObjectID()
	seedHistory(t, svc, userID,
		model.HistoryItem{Tipo: model.HistoryPriceLookup},
		model.HistoryItem{Tipo: model.HistoryBrandLookup},
	)

	export, err := svc.Export(context.Background(), userID, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", export.Usuario)
	assert.Equal(t, 2, export.TotalConsultas)
	assert.Len(t, export.Historico, 2)
	assert.WithinDuration(t, time.Now(), export.ExportadoEm, time.Minute)
}
