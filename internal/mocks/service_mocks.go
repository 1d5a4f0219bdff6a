// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/fipe-service/internal/domain/dto"
	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

var _ service.AuthService = (*MockAuthService)(nil)

func (m *MockAuthService) authResult(args mock.Arguments) (*dto.TokenPair, *model.User, error) {
	var pair *dto.TokenPair
	if v := args.Get(0); v != nil {
		pair = v.(*dto.TokenPair)
	}
	var user *model.User
	if v := args.Get(1); v != nil {
		user = v.(*model.User)
	}
	return pair, user, args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*dto.TokenPair, *model.User, error) {
	return m.authResult(m.Called(ctx, email, password))
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*dto.TokenPair, *model.User, error) {
	return m.authResult(m.Called(ctx, name, email, password))
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenPair, *model.User, error) {
	return m.authResult(m.Called(ctx, refreshToken))
}

func (m *MockAuthService) ValidateToken(ctx context.Context, tokenString string) (*dto.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.Claims), args.Error(1)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, userID primitive.ObjectID) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	args := m.Called(ctx, accessToken, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	args := m.Called(ctx, name, email, password)
	return args.Error(0)
}

// MockLoggingService is a mock implementation of service.LoggingService.
type MockLoggingService struct {
	mock.Mock
}

var _ service.LoggingService = (*MockLoggingService)(nil)

func (m *MockLoggingService) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLoggingService) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLoggingService) QueryLogs(ctx context.Context, q model.LogQuery) ([]*model.LogEntry, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LogEntry), args.Error(1)
}

func (m *MockLoggingService) CountLogs(ctx context.Context, q model.LogQuery) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}

// MockFavoriteService is a mock implementation of service.FavoriteService.
type MockFavoriteService struct {
	mock.Mock
}

var _ service.FavoriteService = (*MockFavoriteService)(nil)

func favoriteResult(args mock.Arguments) (*model.Favorite, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Favorite), args.Error(1)
}

func favoritesResult(args mock.Arguments) ([]*model.Favorite, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Favorite), args.Error(1)
}

func (m *MockFavoriteService) List(ctx context.Context, userID primitive.ObjectID) ([]*model.Favorite, error) {
	return favoritesResult(m.Called(ctx, userID))
}

func (m *MockFavoriteService) Add(ctx context.Context, userID primitive.ObjectID, req dto.CreateFavoriteRequest) (*model.Favorite, error) {
	return favoriteResult(m.Called(ctx, userID, req))
}

func (m *MockFavoriteService) Update(ctx context.Context, userID, id primitive.ObjectID, req dto.UpdateFavoriteRequest) (*model.Favorite, error) {
	return favoriteResult(m.Called(ctx, userID, id, req))
}

func (m *MockFavoriteService) Remove(ctx context.Context, userID, id primitive.ObjectID) (*model.Favorite, error) {
	return favoriteResult(m.Called(ctx, userID, id))
}

func (m *MockFavoriteService) Search(ctx context.Context, userID primitive.ObjectID, q dto.FavoriteSearchQuery) ([]*model.Favorite, error) {
	return favoritesResult(m.Called(ctx, userID, q))
}

func (m *MockFavoriteService) Stats(ctx context.Context, userID primitive.ObjectID) (*dto.FavoriteStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FavoriteStats), args.Error(1)
}

func (m *MockFavoriteService) Compare(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) (*dto.FavoriteComparison, error) {
	args := m.Called(ctx, userID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.FavoriteComparison), args.Error(1)
}

// MockHistoryService is a mock implementation of service.HistoryService.
type MockHistoryService struct {
	mock.Mock
}

var _ service.HistoryService = (*MockHistoryService)(nil)

func (m *MockHistoryService) List(ctx context.Context, userID primitive.ObjectID, q dto.HistoryListQuery) ([]*model.HistoryItem, dto.Pagination, error) {
	args := m.Called(ctx, userID, q)
	var items []*model.HistoryItem
	if v := args.Get(0); v != nil {
		items = v.([]*model.HistoryItem)
	}
	return items, args.Get(1).(dto.Pagination), args.Error(2)
}

func (m *MockHistoryService) Add(ctx context.Context, item *model.HistoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockHistoryService) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockHistoryService) Clear(ctx context.Context, userID primitive.ObjectID, tipo string) (int64, error) {
	args := m.Called(ctx, userID, tipo)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHistoryService) Stats(ctx context.Context, userID primitive.ObjectID) (*dto.HistoryStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.HistoryStats), args.Error(1)
}

func (m *MockHistoryService) Recent(ctx context.Context, userID primitive.ObjectID, limit int) (*dto.RecentHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RecentHistory), args.Error(1)
}

func (m *MockHistoryService) Export(ctx context.Context, userID primitive.ObjectID, usuario string) (*dto.HistoryExport, error) {
	args := m.Called(ctx, userID, usuario)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.HistoryExport), args.Error(1)
}

// MockUploadService is a mock implementation of service.UploadService.
type MockUploadService struct {
	mock.Mock
}

var _ service.UploadService = (*MockUploadService)(nil)

func fileResult(args mock.Arguments) (*model.FileRecord, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileRecord), args.Error(1)
}

func filesResult(args mock.Arguments) ([]*model.FileRecord, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FileRecord), args.Error(1)
}

func (m *MockUploadService) Save(ctx context.Context, owner primitive.ObjectID, in service.UploadInput) (*model.FileRecord, error) {
	return fileResult(m.Called(ctx, owner, in))
}

func (m *MockUploadService) SaveMany(ctx context.Context, owner primitive.ObjectID, in []service.UploadInput) ([]*model.FileRecord, error) {
	return filesResult(m.Called(ctx, owner, in))
}

func (m *MockUploadService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.FileRecord, error) {
	return filesResult(m.Called(ctx, userID))
}

func resolveResult(args mock.Arguments) (*model.FileRecord, string, error) {
	var rec *model.FileRecord
	if v := args.Get(0); v != nil {
		rec = v.(*model.FileRecord)
	}
	return rec, args.String(1), args.Error(2)
}

func (m *MockUploadService) Resolve(ctx context.Context, filename string) (*model.FileRecord, string, error) {
	return resolveResult(m.Called(ctx, filename))
}

func (m *MockUploadService) ResolveFor(ctx context.Context, actor service.Actor, filename string) (*model.FileRecord, string, error) {
	return resolveResult(m.Called(ctx, actor, filename))
}

func (m *MockUploadService) Delete(ctx context.Context, actor service.Actor, id primitive.ObjectID) (*model.FileRecord, error) {
	return fileResult(m.Called(ctx, actor, id))
}
