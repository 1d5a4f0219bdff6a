// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockUserRepositoryInterface struct {
	mock.Mock
}

func (m *MockUserRepositoryInterface) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepositoryInterface) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepositoryInterface) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepositoryInterface) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTokenRepositoryInterface struct {
	mock.Mock
}

func (m *MockTokenRepositoryInterface) Create(ctx context.Context, token *model.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepositoryInterface) FindByToken(ctx context.Context, tokenString string) (*model.Token, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Token), args.Error(1)
}

func (m *MockTokenRepositoryInterface) DeleteByToken(ctx context.Context, tokenString string) error {
	args := m.Called(ctx, tokenString)
	return args.Error(0)
}

func (m *MockTokenRepositoryInterface) DeleteByUserID(ctx context.Context, userID primitive.ObjectID, tokenType string) error {
	args := m.Called(ctx, userID, tokenType)
	return args.Error(0)
}

func (m *MockTokenRepositoryInterface) IsBlacklisted(ctx context.Context, tokenString string) (bool, error) {
	args := m.Called(ctx, tokenString)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenRepositoryInterface) CleanupExpired(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockFavoriteRepositoryInterface struct {
	mock.Mock
}

func (m *MockFavoriteRepositoryInterface) Create(ctx context.Context, fav *model.Favorite) error {
	args := m.Called(ctx, fav)
	return args.Error(0)
}

func (m *MockFavoriteRepositoryInterface) FindByID(ctx context.Context, userID, id primitive.ObjectID) (*model.Favorite, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Favorite), args.Error(1)
}

func (m *MockFavoriteRepositoryInterface) FindByIDs(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) ([]*model.Favorite, error) {
	args := m.Called(ctx, userID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Favorite), args.Error(1)
}

func (m *MockFavoriteRepositoryInterface) FindByCode(ctx context.Context, userID primitive.ObjectID, codigoFipe string) (*model.Favorite, error) {
	args := m.Called(ctx, userID, codigoFipe)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Favorite), args.Error(1)
}

func (m *MockFavoriteRepositoryInterface) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Favorite), args.Error(1)
}

func (m *MockFavoriteRepositoryInterface) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFavoriteRepositoryInterface) Update(ctx context.Context, fav *model.Favorite) error {
	args := m.Called(ctx, fav)
	return args.Error(0)
}

func (m *MockFavoriteRepositoryInterface) Delete(ctx context.Context, userID, id primitive.ObjectID) (*model.Favorite, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Favorite), args.Error(1)
}

type MockHistoryRepositoryInterface struct {
	mock.Mock
}

func (m *MockHistoryRepositoryInterface) Create(ctx context.Context, item *model.HistoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockHistoryRepositoryInterface) List(ctx context.Context, userID primitive.ObjectID, filter model.HistoryFilter) ([]*model.HistoryItem, int64, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.HistoryItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockHistoryRepositoryInterface) ListAll(ctx context.Context, userID primitive.ObjectID) ([]*model.HistoryItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.HistoryItem), args.Error(1)
}

func (m *MockHistoryRepositoryInterface) Delete(ctx context.Context, userID, id primitive.ObjectID) (*model.HistoryItem, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.HistoryItem), args.Error(1)
}

func (m *MockHistoryRepositoryInterface) DeleteAll(ctx context.Context, userID primitive.ObjectID, tipo string) (int64, error) {
	args := m.Called(ctx, userID, tipo)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHistoryRepositoryInterface) TrimOldest(ctx context.Context, userID primitive.ObjectID, keep int) (int64, error) {
	args := m.Called(ctx, userID, keep)
	return args.Get(0).(int64), args.Error(1)
}

type MockFileRepositoryInterface struct {
	mock.Mock
}

func (m *MockFileRepositoryInterface) Create(ctx context.Context, file *model.FileRecord) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockFileRepositoryInterface) FindByID(ctx context.Context, id primitive.ObjectID) (*model.FileRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileRecord), args.Error(1)
}

func (m *MockFileRepositoryInterface) FindByFilename(ctx context.Context, filename string) (*model.FileRecord, error) {
	args := m.Called(ctx, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileRecord), args.Error(1)
}

func (m *MockFileRepositoryInterface) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.FileRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.FileRecord), args.Error(1)
}

func (m *MockFileRepositoryInterface) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLogsRepositoryInterface struct {
	mock.Mock
}

func (m *MockLogsRepositoryInterface) Create(ctx context.Context, entry *model.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLogsRepositoryInterface) CreateMany(ctx context.Context, entries []*model.LogEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLogsRepositoryInterface) Query(ctx context.Context, q model.LogQuery) ([]*model.LogEntry, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.LogEntry), args.Error(1)
}

func (m *MockLogsRepositoryInterface) Count(ctx context.Context, q model.LogQuery) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}
