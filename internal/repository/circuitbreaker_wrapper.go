package repository

import (
	"context"
	"errors"

	"github.com/guttosm/fipe-service/internal/circuitbreaker"
	"github.com/guttosm/fipe-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsStoreFailure reports whether err indicates an unhealthy store. Domain
// outcomes and caller cancellations do not count against a circuit.
func IsStoreFailure(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, context.Canceled):
		return false
	}
	return true
}

// NewStoreBreaker creates a circuit breaker configured for a repository.
func NewStoreBreaker(name string, cfg circuitbreaker.Config) *circuitbreaker.CircuitBreaker {
	cfg.Name = name
	cfg.IsFailure = IsStoreFailure
	return circuitbreaker.New(cfg)
}

func guard[T any](ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var result T
	err := cb.Execute(ctx, func() error {
		var fnErr error
		result, fnErr = fn()
		return fnErr
	})
	return result, err
}

func guard2[A, B any](ctx context.Context, cb *circuitbreaker.CircuitBreaker, fn func() (A, B, error)) (A, B, error) {
	var a A
	var b B
	err := cb.Execute(ctx, func() error {
		var fnErr error
		a, b, fnErr = fn()
		return fnErr
	})
	return a, b, err
}

// UserRepositoryWithCircuitBreaker wraps a user repository with circuit breaker protection.
type UserRepositoryWithCircuitBreaker struct {
	repo UserRepositoryInterface
	cb   *circuitbreaker.CircuitBreaker
}

// NewUserRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewUserRepositoryWithCircuitBreaker(repo UserRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *UserRepositoryWithCircuitBreaker {
	return &UserRepositoryWithCircuitBreaker{repo: repo, cb: cb}
}

func (r *UserRepositoryWithCircuitBreaker) Create(ctx context.Context, user *model.User) error {
	return r.cb.Execute(ctx, func() error { return r.repo.Create(ctx, user) })
}

func (r *UserRepositoryWithCircuitBreaker) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return guard(ctx, r.cb, func() (*model.User, error) { return r.repo.FindByEmail(ctx, email) })
}

func (r *UserRepositoryWithCircuitBreaker) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return guard(ctx, r.cb, func() (*model.User, error) { return r.repo.FindByID(ctx, id) })
}

func (r *UserRepositoryWithCircuitBreaker) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	return r.cb.Execute(ctx, func() error { return r.repo.UpdateLastLogin(ctx, id) })
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *UserRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.cb
}

// TokenRepositoryWithCircuitBreaker wraps a token repository with circuit breaker protection.
type TokenRepositoryWithCircuitBreaker struct {
	repo TokenRepositoryInterface
	cb   *circuitbreaker.CircuitBreaker
}

// NewTokenRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewTokenRepositoryWithCircuitBreaker(repo TokenRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *TokenRepositoryWithCircuitBreaker {
	return &TokenRepositoryWithCircuitBreaker{repo: repo, cb: cb}
}

func (r *TokenRepositoryWithCircuitBreaker) Create(ctx context.Context, token *model.Token) error {
	return r.cb.Execute(ctx, func() error { return r.repo.Create(ctx, token) })
}

func (r *TokenRepositoryWithCircuitBreaker) FindByToken(ctx context.Context, tokenString string) (*model.Token, error) {
	return guard(ctx, r.cb, func() (*model.Token, error) { return r.repo.FindByToken(ctx, tokenString) })
}

func (r *TokenRepositoryWithCircuitBreaker) DeleteByToken(ctx context.Context, tokenString string) error {
	return r.cb.Execute(ctx, func() error { return r.repo.DeleteByToken(ctx, tokenString) })
}

func (r *TokenRepositoryWithCircuitBreaker) DeleteByUserID(ctx context.Context, userID primitive.ObjectID, tokenType string) error {
	return r.cb.Execute(ctx, func() error { return r.repo.DeleteByUserID(ctx, userID, tokenType) })
}

func (r *TokenRepositoryWithCircuitBreaker) IsBlacklisted(ctx context.Context, tokenString string) (bool, error) {
	return guard(ctx, r.cb, func() (bool, error) { return r.repo.IsBlacklisted(ctx, tokenString) })
}

func (r *TokenRepositoryWithCircuitBreaker) CleanupExpired(ctx context.Context) error {
	return r.cb.Execute(ctx, func() error { return r.repo.CleanupExpired(ctx) })
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *TokenRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.cb
}

// FavoriteRepositoryWithCircuitBreaker wraps a favorite repository with circuit breaker protection.
type FavoriteRepositoryWithCircuitBreaker struct {
	repo FavoriteRepositoryInterface
	cb   *circuitbreaker.CircuitBreaker
}

// NewFavoriteRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewFavoriteRepositoryWithCircuitBreaker(repo FavoriteRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *FavoriteRepositoryWithCircuitBreaker {
	return &FavoriteRepositoryWithCircuitBreaker{repo: repo, cb: cb}
}

func (r *FavoriteRepositoryWithCircuitBreaker) Create(ctx context.Context, fav *model.Favorite) error {
	return r.cb.Execute(ctx, func() error { return r.repo.Create(ctx, fav) })
}

func (r *FavoriteRepositoryWithCircuitBreaker) FindByID(ctx context.Context, userID, id primitive.ObjectID) (*model.Favorite, error) {
	return guard(ctx, r.cb, func() (*model.Favorite, error) { return r.repo.FindByID(ctx, userID, id) })
}

func (r *FavoriteRepositoryWithCircuitBreaker) FindByIDs(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) ([]*model.Favorite, error) {
	return guard(ctx, r.cb, func() ([]*model.Favorite, error) { return r.repo.FindByIDs(ctx, userID, ids) })
}

func (r *FavoriteRepositoryWithCircuitBreaker) FindByCode(ctx context.Context, userID primitive.ObjectID, codigoFipe string) (*model.Favorite, error) {
	return guard(ctx, r.cb, func() (*model.Favorite, error) { return r.repo.FindByCode(ctx, userID, codigoFipe) })
}

func (r *FavoriteRepositoryWithCircuitBreaker) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.Favorite, error) {
	return guard(ctx, r.cb, func() ([]*model.Favorite, error) { return r.repo.ListByUser(ctx, userID) })
}

func (r *FavoriteRepositoryWithCircuitBreaker) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return guard(ctx, r.cb, func() (int64, error) { return r.repo.CountByUser(ctx, userID) })
}

func (r *FavoriteRepositoryWithCircuitBreaker) Update(ctx context.Context, fav *model.Favorite) error {
	return r.cb.Execute(ctx, func() error { return r.repo.Update(ctx, fav) })
}

func (r *FavoriteRepositoryWithCircuitBreaker) Delete(ctx context.Context, userID, id primitive.ObjectID) (*model.Favorite, error) {
	return guard(ctx, r.cb, func() (*model.Favorite, error) { return r.repo.Delete(ctx, userID, id) })
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *FavoriteRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.cb
}

// HistoryRepositoryWithCircuitBreaker wraps a history repository with circuit breaker protection.
type HistoryRepositoryWithCircuitBreaker struct {
	repo HistoryRepositoryInterface
	cb   *circuitbreaker.CircuitBreaker
}

// NewHistoryRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewHistoryRepositoryWithCircuitBreaker(repo HistoryRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *HistoryRepositoryWithCircuitBreaker {
	return &HistoryRepositoryWithCircuitBreaker{repo: repo, cb: cb}
}

func (r *HistoryRepositoryWithCircuitBreaker) Create(ctx context.Context, item *model.HistoryItem) error {
	return r.cb.Execute(ctx, func() error { return r.repo.Create(ctx, item) })
}

func (r *HistoryRepositoryWithCircuitBreaker) List(ctx context.Context, userID primitive.ObjectID, filter model.HistoryFilter) ([]*model.HistoryItem, int64, error) {
	return guard2(ctx, r.cb, func() ([]*model.HistoryItem, int64, error) { return r.repo.List(ctx, userID, filter) })
}

func (r *HistoryRepositoryWithCircuitBreaker) ListAll(ctx context.Context, userID primitive.ObjectID) ([]*model.HistoryItem, error) {
	return guard(ctx, r.cb, func() ([]*model.HistoryItem, error) { return r.repo.ListAll(ctx, userID) })
}

func (r *HistoryRepositoryWithCircuitBreaker) Delete(ctx context.Context, userID, id primitive.ObjectID) (*model.HistoryItem, error) {
	return guard(ctx, r.cb, func() (*model.HistoryItem, error) { return r.repo.Delete(ctx, userID, id) })
}

func (r *HistoryRepositoryWithCircuitBreaker) DeleteAll(ctx context.Context, userID primitive.ObjectID, tipo string) (int64, error) {
	return guard(ctx, r.cb, func() (int64, error) { return r.repo.DeleteAll(ctx, userID, tipo) })
}

func (r *HistoryRepositoryWithCircuitBreaker) TrimOldest(ctx context.Context, userID primitive.ObjectID, keep int) (int64, error) {
	return guard(ctx, r.cb, func() (int64, error) { return r.repo.TrimOldest(ctx, userID, keep) })
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *HistoryRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.cb
}

// FileRepositoryWithCircuitBreaker wraps a file repository with circuit breaker protection.
type FileRepositoryWithCircuitBreaker struct {
	repo FileRepositoryInterface
	cb   *circuitbreaker.CircuitBreaker
}

// NewFileRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewFileRepositoryWithCircuitBreaker(repo FileRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *FileRepositoryWithCircuitBreaker {
	return &FileRepositoryWithCircuitBreaker{repo: repo, cb: cb}
}

func (r *FileRepositoryWithCircuitBreaker) Create(ctx context.Context, file *model.FileRecord) error {
	return r.cb.Execute(ctx, func() error { return r.repo.Create(ctx, file) })
}

func (r *FileRepositoryWithCircuitBreaker) FindByID(ctx context.Context, id primitive.ObjectID) (*model.FileRecord, error) {
	return guard(ctx, r.cb, func() (*model.FileRecord, error) { return r.repo.FindByID(ctx, id) })
}

func (r *FileRepositoryWithCircuitBreaker) FindByFilename(ctx context.Context, filename string) (*model.FileRecord, error) {
	return guard(ctx, r.cb, func() (*model.FileRecord, error) { return r.repo.FindByFilename(ctx, filename) })
}

func (r *FileRepositoryWithCircuitBreaker) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.FileRecord, error) {
	return guard(ctx, r.cb, func() ([]*model.FileRecord, error) { return r.repo.ListByUser(ctx, userID) })
}

func (r *FileRepositoryWithCircuitBreaker) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.cb.Execute(ctx, func() error { return r.repo.Delete(ctx, id) })
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *FileRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.cb
}

// LogsRepositoryWithCircuitBreaker wraps a logs repository with circuit breaker protection.
// Writes are dropped silently while the circuit is open.
type LogsRepositoryWithCircuitBreaker struct {
	repo LogsRepositoryInterface
	cb   *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{repo: repo, cb: cb}
}

func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *model.LogEntry) error {
	err := r.cb.Execute(ctx, func() error { return r.repo.Create(ctx, entry) })
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*model.LogEntry) error {
	err := r.cb.Execute(ctx, func() error { return r.repo.CreateMany(ctx, entries) })
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

func (r *LogsRepositoryWithCircuitBreaker) Query(ctx context.Context, q model.LogQuery) ([]*model.LogEntry, error) {
	return guard(ctx, r.cb, func() ([]*model.LogEntry, error) { return r.repo.Query(ctx, q) })
}

func (r *LogsRepositoryWithCircuitBreaker) Count(ctx context.Context, q model.LogQuery) (int64, error) {
	return guard(ctx, r.cb, func() (int64, error) { return r.repo.Count(ctx, q) })
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.cb
}
