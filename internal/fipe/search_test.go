package fipe_test

import (
	"context"
	"errors"
	"testing"

	"github.com/guttosm/fipe-service/internal/fipe"
	"github.com/guttosm/fipe-service/internal/mocks"
	"github.com/guttosm/fipe-service/internal/service/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errBrandDown = &fipe.UpstreamError{Op: fipe.OpModels, Class: fipe.ErrorClassServer, Err: errors.New("502")}

func TestService_Search(t *testing.T) {
	t.Run("skips failing brand", func(t *testing.T) {
		client := new(mocks.MockUpstreamClient)
		client.On("FetchBrands", mock.Anything, fipe.Car, "").Return([]fipe.Brand{
			{Nome: "Fiat", Valor: "21"},
			{Nome: "VW - VolksWagen", Valor: "59"},
			{Nome: "Ford", Valor: "22"},
		}, nil)
		client.On("FetchModels", mock.Anything, fipe.Car, "21", "").Return([]fipe.Model{
			{Modelo: "Palio Weekend 1.6"},
			{Modelo: "Palio 1.0"},
			{Modelo: "Uno Mille"},
		}, nil)
		client.On("FetchModels", mock.Anything, fipe.Car, "59", "").Return(nil, errBrandDown)
		client.On("FetchModels", mock.Anything, fipe.Car, "22", "").Return([]fipe.Model{{Modelo: "Ka 1.0"}}, nil)
		svc := newTestService(t, client, nil)

		res, err := svc.Search(context.Background(), "  palio ", fipe.Car)

		require.NoError(t, err)
		assert.Equal(t, "palio", res.Query)
		assert.Equal(t, "carros", res.Tipo)
		assert.Equal(t, 2, res.Total)
		assert.Equal(t, 1, res.SkippedBrands)
		assert.Equal(t, 0, res.SkippedTypes)
		assert.False(t, res.Truncated)
		require.Len(t, res.Results, 2)
		assert.Equal(t, "Palio 1.0", res.Results[0].Modelo)
		assert.Equal(t, "Palio Weekend 1.6", res.Results[1].Modelo)
		assert.Equal(t, "Fiat", res.Results[0].Marca)
		assert.Equal(t, "21", res.Results[0].CodigoMarca)
		assert.Equal(t, fipe.Car, res.Results[0].TipoVeiculo)
	})

	t.Run("short queries rejected without upstream calls", func(t *testing.T) {
		for _, q := range []string{"", "a", "ab", "  ab  "} {
			client := new(mocks.MockUpstreamClient)
			svc := newTestService(t, client, nil)

			_, err := svc.Search(context.Background(), q, "")

			assert.ErrorIs(t, err, fipe.ErrQueryTooShort, "query %q", q)
			assert.Empty(t, client.Calls)
		}
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		client := new(mocks.MockUpstreamClient)
		svc := newTestService(t, client, nil)

		_, err := svc.Search(context.Background(), "palio", "bikes")

		assert.ErrorIs(t, err, fipe.ErrInvalidVehicleType)
		assert.Empty(t, client.Calls)
	})

	t.Run("matches ignoring case and accents", func(t *testing.T) {
		client := new(mocks.MockUpstreamClient)
		client.On("FetchBrands", mock.Anything, fipe.Truck, "").Return([]fipe.Brand{{Nome: "Agrale", Valor: "102"}}, nil)
		client.On("FetchModels", mock.Anything, fipe.Truck, "102", "").Return([]fipe.Model{
			{Modelo: "CAMINHÃO 8500 TCA"},
			{Modelo: "Marruá AM200"},
		}, nil)
		svc := newTestService(t, client, nil)

		res, err := svc.Search(context.Background(), "caminhao", fipe.Truck)
		require.NoError(t, err)
		require.Len(t, res.Results, 1)
		assert.Equal(t, "CAMINHÃO 8500 TCA", res.Results[0].Modelo)

		res, err = svc.Search(context.Background(), "MARRUA", fipe.Truck)
		require.NoError(t, err)
		require.Len(t, res.Results, 1)
		assert.Equal(t, "Marruá AM200", res.Results[0].Modelo)
	})

	t.Run("all types ordered and failing type skipped", func(t *testing.T) {
		client := new(mocks.MockUpstreamClient)
		client.On("FetchBrands", mock.Anything, fipe.Car, "").Return([]fipe.Brand{
			{Nome: "Honda", Valor: "25"},
			{Nome: "Chevrolet", Valor: "23"},
		}, nil)
		client.On("FetchBrands", mock.Anything, fipe.Motorcycle, "").Return([]fipe.Brand{{Nome: "Honda", Valor: "80"}}, nil)
		client.On("FetchBrands", mock.Anything, fipe.Truck, "").Return(nil, &fipe.UpstreamError{
			Op: fipe.OpBrands, Class: fipe.ErrorClassNetwork, Err: errors.New("reset"),
		})
		client.On("FetchModels", mock.Anything, fipe.Car, "25", "").Return([]fipe.Model{{Modelo: "Civic LXS 1.8"}, {Modelo: "City EX 1.5"}}, nil)
		client.On("FetchModels", mock.Anything, fipe.Car, "23", "").Return([]fipe.Model{{Modelo: "Cobalt LTZ 1.8"}}, nil)
		client.On("FetchModels", mock.Anything, fipe.Motorcycle, "80", "").Return([]fipe.Model{{Modelo: "CB 500X"}}, nil)
		svc := newTestService(t, client, nil)

		res, err := svc.Search(context.Background(), "1.8", "")
		require.NoError(t, err)
		assert.Equal(t, fipe.AllTypesLabel, res.Tipo)
		assert.Equal(t, 1, res.SkippedTypes)
		require.Len(t, res.Results, 2)
		assert.Equal(t, "Chevrolet", res.Results[0].Marca)
		assert.Equal(t, "Honda", res.Results[1].Marca)

		res, err = svc.Search(context.Background(), "500X", "")
		require.NoError(t, err)
		require.Len(t, res.Results, 1)
		assert.Equal(t, fipe.Motorcycle, res.Results[0].TipoVeiculo)

		res, err = svc.Search(context.Background(), " city ex ", "")
		require.NoError(t, err)
		var got []string
		for _, r := range res.Results {
			got = append(got, string(r.TipoVeiculo)+"/"+r.Marca+"/"+r.Modelo)
		}
		assert.Equal(t, []string{"carros/Honda/City EX 1.5"}, got)
	})

	t.Run("every type failing yields an empty result", func(t *testing.T) {
		client := new(mocks.MockUpstreamClient)
		client.On("FetchBrands", mock.Anything, mock.Anything, "").Return(nil, &fipe.UpstreamError{
			Op: fipe.OpBrands, Class: fipe.ErrorClassServer, StatusCode: 503, Err: errors.New("503"),
		})
		svc := newTestService(t, client, nil)

		res, err := svc.Search(context.Background(), "palio", "")

		require.NoError(t, err)
		assert.Empty(t, res.Results)
		assert.Equal(t, 3, res.SkippedTypes)
		client.AssertNotCalled(t, "FetchModels", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("single failing type yields an empty result", func(t *testing.T) {
		client := new(mocks.MockUpstreamClient)
		client.On("FetchBrands", mock.Anything, fipe.Car, "").Return(nil, &fipe.UpstreamError{
			Op: fipe.OpBrands, Class: fipe.ErrorClassServer, StatusCode: 503, Err: errors.New("503"),
		})
		svc := newTestService(t, client, nil)

		res, err := svc.Search(context.Background(), "palio", fipe.Car)

		require.NoError(t, err)
		assert.Empty(t, res.Results)
		assert.Equal(t, 0, res.Total)
		assert.Equal(t, 1, res.SkippedTypes)
	})

	t.Run("caller cancellation is an upstream failure", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		client := new(mocks.MockUpstreamClient)
		client.On("FetchBrands", mock.Anything, fipe.Car, "").Return(nil, context.Canceled).Maybe()
		svc := newTestService(t, client, nil)

		_, err := svc.Search(ctx, "palio", fipe.Car)

		assert.ErrorIs(t, err, fipe.ErrUpstreamUnavailable)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, fipe.IsUpstreamFailure(err))
	})

	t.Run("no matches yields empty results", func(t *testing.T) {
		client := new(mocks.MockUpstreamClient)
		client.On("FetchBrands", mock.Anything, fipe.Car, "").Return([]fipe.Brand{{Nome: "Fiat", Valor: "21"}}, nil)
		client.On("FetchModels", mock.Anything, fipe.Car, "21", "").Return([]fipe.Model{{Modelo: "Uno Mille"}}, nil)
		svc := newTestService(t, client, nil)

		res, err := svc.Search(context.Background(), "zzzz", fipe.Car)

		require.NoError(t, err)
		assert.NotNil(t, res.Results)
		assert.Empty(t, res.Results)
		assert.Equal(t, 0, res.Total)
	})

	t.Run("catalog reused from cache across searches", func(t *testing.T) {
		client := new(mocks.MockUpstreamClient)
		client.On("FetchBrands", mock.Anything, fipe.Car, "").Return([]fipe.Brand{{Nome: "Fiat", Valor: "21"}}, nil).Once()
		client.On("FetchModels", mock.Anything, fipe.Car, "21", "").Return([]fipe.Model{{Modelo: "Palio 1.0"}}, nil).Once()
		svc := newTestService(t, client, nil)

		for i := 0; i < 3; i++ {
			res, err := svc.Search(context.Background(), "palio", fipe.Car)
			require.NoError(t, err)
			assert.Len(t, res.Results, 1)
		}
		client.AssertExpectations(t)
	})
}

func TestService_SearchTruncates(t *testing.T) {
	models := make([]fipe.Model, 0, 5)
	for _, name := range []string{"Gol 1.0", "Gol 1.6", "Gol G5", "Gol G6", "Gol Power"} {
		models = append(models, fipe.Model{Modelo: name})
	}
	client := new(mocks.MockUpstreamClient)
	client.On("FetchBrands", mock.Anything, fipe.Car, "").Return([]fipe.Brand{{Nome: "VW - VolksWagen", Valor: "59"}}, nil)
	client.On("FetchModels", mock.Anything, fipe.Car, "59", "").Return(models, nil)

	c := cache.NewShardedCache(100, 4, cache.WithSweepInterval(0))
	t.Cleanup(c.Stop)
	svc := fipe.NewService(client, c, nil, fipe.Config{MaxSearchResults: 3})

	res, err := svc.Search(context.Background(), "gol", fipe.Car)

	require.NoError(t, err)
	assert.Equal(t, 5, res.Total)
	assert.True(t, res.Truncated)
	require.Len(t, res.Results, 3)
	assert.Equal(t, "Gol 1.0", res.Results[0].Modelo)
	assert.Equal(t, "Gol G5", res.Results[2].Modelo)
}

func TestService_SearchEmitsEvent(t *testing.T) {
	client := new(mocks.MockUpstreamClient)
	client.On("FetchBrands", mock.Anything, fipe.Car, "").Return([]fipe.Brand{{Nome: "Fiat", Valor: "21"}}, nil)
	client.On("FetchModels", mock.Anything, fipe.Car, "21", "").Return([]fipe.Model{{Modelo: "Palio 1.0"}}, nil)
	svc := newTestService(t, client, nil)

	var events []fipe.LookupEvent
	svc.Subscribe(func(_ context.Context, e fipe.LookupEvent) {
		events = append(events, e)
	})

	ctx := fipe.WithRequester(context.Background(), fipe.Requester{UserID: "u-1"})
	_, err := svc.Search(ctx, "palio", fipe.Car)
	require.NoError(t, err)

	require.Len(t, events, 1, "only the search itself emits; its internal lookups do not")
	assert.Equal(t, fipe.OpSearch, events[0].Query.Operation)
	assert.Equal(t, "palio", events[0].Summary.Modelo)
	assert.Equal(t, 1, events[0].Summary.Total)
}
