// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/fipe-service/internal/fipe"
	"github.com/stretchr/testify/mock"
)

type MockUpstreamClient struct {
	mock.Mock
}

func (m *MockUpstreamClient) FetchTables(ctx context.Context) ([]fipe.ReferenceTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fipe.ReferenceTable), args.Error(1)
}

func (m *MockUpstreamClient) FetchBrands(ctx context.Context, vehicleType fipe.VehicleType, tableID string) ([]fipe.Brand, error) {
	args := m.Called(ctx, vehicleType, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fipe.Brand), args.Error(1)
}

func (m *MockUpstreamClient) FetchModels(ctx context.Context, vehicleType fipe.VehicleType, brandCode, tableID string) ([]fipe.Model, error) {
	args := m.Called(ctx, vehicleType, brandCode, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fipe.Model), args.Error(1)
}

func (m *MockUpstreamClient) FetchPrice(ctx context.Context, fipeCode, tableID string) (fipe.PriceRecord, error) {
	args := m.Called(ctx, fipeCode, tableID)
	return args.Get(0).(fipe.PriceRecord), args.Error(1)
}
