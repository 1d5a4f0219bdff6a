package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryUserRepository is an in-process UserRepositoryInterface.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]model.User
}

// NewMemoryUserRepository creates an empty in-memory user store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[primitive.ObjectID]model.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.Email = model.NormalizeEmail(user.Email)
	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	email = model.NormalizeEmail(email)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *MemoryUserRepository) UpdateLastLogin(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	u.LastLogin = &now
	u.UpdatedAt = now
	r.users[id] = u
	return nil
}

// MemoryTokenRepository is an in-process TokenRepositoryInterface.
type MemoryTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]model.Token
}

// NewMemoryTokenRepository creates an empty in-memory token store.
func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{tokens: make(map[string]model.Token)}
}

func (r *MemoryTokenRepository) Create(_ context.Context, token *model.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token.Token]; ok {
		return ErrDuplicate
	}
	token.CreatedAt = time.Now().UTC()
	if token.ID.IsZero() {
		token.ID = primitive.NewObjectID()
	}
	r.tokens[token.Token] = *token
	return nil
}

func (r *MemoryTokenRepository) FindByToken(_ context.Context, tokenString string) (*model.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.tokens[tokenString]; ok {
		return &t, nil
	}
	return nil, nil
}

func (r *MemoryTokenRepository) DeleteByToken(_ context.Context, tokenString string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, tokenString)
	return nil
}

func (r *MemoryTokenRepository) DeleteByUserID(_ context.Context, userID primitive.ObjectID, tokenType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tokens {
		if t.UserID == userID && t.Type == tokenType {
			delete(r.tokens, k)
		}
	}
	return nil
}

func (r *MemoryTokenRepository) IsBlacklisted(_ context.Context, tokenString string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tokens[tokenString]
	return ok && t.Type == model.TokenTypeBlacklist && !t.Expired(time.Now()), nil
}

func (r *MemoryTokenRepository) CleanupExpired(context.Context) error {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tokens {
		if t.Expired(now) {
			delete(r.tokens, k)
		}
	}
	return nil
}

// MemoryFavoriteRepository is an in-process FavoriteRepositoryInterface.
type MemoryFavoriteRepository struct {
	mu   sync.RWMutex
	favs map[primitive.ObjectID]model.Favorite
}

// NewMemoryFavoriteRepository creates an empty in-memory favorite store.
func NewMemoryFavoriteRepository() *MemoryFavoriteRepository {
	return &MemoryFavoriteRepository{favs: make(map[primitive.ObjectID]model.Favorite)}
}

func cloneFavorite(f model.Favorite) *model.Favorite {
	f.Tags = append([]string{}, f.Tags...)
	return &f
}

func (r *MemoryFavoriteRepository) Create(_ context.Context, fav *model.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.favs {
		if f.UserID == fav.UserID && f.CodigoFipe == fav.CodigoFipe {
			return ErrDuplicate
		}
	}
	if fav.ID.IsZero() {
		fav.ID = primitive.NewObjectID()
	}
	if fav.CreatedAt.IsZero() {
		fav.CreatedAt = time.Now().UTC()
	}
	if fav.Tags == nil {
		fav.Tags = []string{}
	}
	r.favs[fav.ID] = *cloneFavorite(*fav)
	return nil
}

func (r *MemoryFavoriteRepository) FindByID(_ context.Context, userID, id primitive.ObjectID) (*model.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.favs[id]; ok && f.UserID == userID {
		return cloneFavorite(f), nil
	}
	return nil, nil
}

func (r *MemoryFavoriteRepository) FindByIDs(_ context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) ([]*model.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Favorite, 0, len(ids))
	for _, id := range ids {
		if f, ok := r.favs[id]; ok && f.UserID == userID {
			out = append(out, cloneFavorite(f))
		}
	}
	return out, nil
}

func (r *MemoryFavoriteRepository) FindByCode(_ context.Context, userID primitive.ObjectID, codigoFipe string) (*model.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.favs {
		if f.UserID == userID && f.CodigoFipe == codigoFipe {
			return cloneFavorite(f), nil
		}
	}
	return nil, nil
}

func (r *MemoryFavoriteRepository) ListByUser(_ context.Context, userID primitive.ObjectID) ([]*model.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Favorite, 0)
	for _, f := range r.favs {
		if f.UserID == userID {
			out = append(out, cloneFavorite(f))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out, nil
}

func (r *MemoryFavoriteRepository) CountByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, f := range r.favs {
		if f.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryFavoriteRepository) Update(_ context.Context, fav *model.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.favs[fav.ID]
	if !ok || stored.UserID != fav.UserID {
		return ErrNotFound
	}
	now := time.Now().UTC()
	fav.UpdatedAt = &now
	stored.Anotacoes = fav.Anotacoes
	stored.Tags = append([]string{}, fav.Tags...)
	stored.UpdatedAt = &now
	r.favs[fav.ID] = stored
	return nil
}

func (r *MemoryFavoriteRepository) Delete(_ context.Context, userID, id primitive.ObjectID) (*model.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.favs[id]
	if !ok || f.UserID != userID {
		return nil, ErrNotFound
	}
	delete(r.favs, id)
	return &f, nil
}

// MemoryHistoryRepository is an in-process HistoryRepositoryInterface.
type MemoryHistoryRepository struct {
	mu    sync.RWMutex
	items map[primitive.ObjectID][]model.HistoryItem
}

// NewMemoryHistoryRepository creates an empty in-memory history store.
func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{items: make(map[primitive.ObjectID][]model.HistoryItem)}
}

func (r *MemoryHistoryRepository) Create(_ context.Context, item *model.HistoryItem) error {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	if item.ConsultadoEm.IsZero() {
		item.ConsultadoEm = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.UserID] = append(r.items[item.UserID], *item)
	return nil
}

// sorted returns a newest first copy of the user's items. Callers hold the lock.
func (r *MemoryHistoryRepository) sorted(userID primitive.ObjectID) []model.HistoryItem {
	items := append([]model.HistoryItem(nil), r.items[userID]...)
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].ConsultadoEm.Equal(items[j].ConsultadoEm) {
			return items[i].ConsultadoEm.After(items[j].ConsultadoEm)
		}
		return items[i].ID.Hex() > items[j].ID.Hex()
	})
	return items
}

func (r *MemoryHistoryRepository) List(_ context.Context, userID primitive.ObjectID, filter model.HistoryFilter) ([]*model.HistoryItem, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	marca := strings.ToLower(filter.Marca)
	matched := make([]*model.HistoryItem, 0)
	for _, it := range r.sorted(userID) {
		if filter.Tipo != "" && it.Tipo != filter.Tipo {
			continue
		}
		if marca != "" && !strings.Contains(strings.ToLower(it.Marca), marca) {
			continue
		}
		matched = append(matched, &it)
	}

	total := int64(len(matched))
	start := min(max(filter.Skip, 0), len(matched))
	end := len(matched)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, end)
	}
	return matched[start:end], total, nil
}

func (r *MemoryHistoryRepository) ListAll(_ context.Context, userID primitive.ObjectID) ([]*model.HistoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.sorted(userID)
	out := make([]*model.HistoryItem, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out, nil
}

func (r *MemoryHistoryRepository) Delete(_ context.Context, userID, id primitive.ObjectID) (*model.HistoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.items[userID]
	for i, it := range items {
		if it.ID == id {
			r.items[userID] = append(items[:i:i], items[i+1:]...)
			return &it, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryHistoryRepository) DeleteAll(_ context.Context, userID primitive.ObjectID, tipo string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.items[userID]
	kept := items[:0:0]
	for _, it := range items {
		if tipo != "" && it.Tipo != tipo {
			kept = append(kept, it)
		}
	}
	r.items[userID] = kept
	return int64(len(items) - len(kept)), nil
}

func (r *MemoryHistoryRepository) TrimOldest(_ context.Context, userID primitive.ObjectID, keep int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := r.sorted(userID)
	if len(items) <= keep {
		return 0, nil
	}
	r.items[userID] = items[:keep]
	return int64(len(items) - keep), nil
}

// MemoryFileRepository is an in-process FileRepositoryInterface.
type MemoryFileRepository struct {
	mu    sync.RWMutex
	files map[primitive.ObjectID]model.FileRecord
}

// NewMemoryFileRepository creates an empty in-memory file metadata store.
func NewMemoryFileRepository() *MemoryFileRepository {
	return &MemoryFileRepository{files: make(map[primitive.ObjectID]model.FileRecord)}
}

func (r *MemoryFileRepository) Create(_ context.Context, file *model.FileRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f.Filename == file.Filename {
			return ErrDuplicate
		}
	}
	if file.ID.IsZero() {
		file.ID = primitive.NewObjectID()
	}
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}
	r.files[file.ID] = *file
	return nil
}

func (r *MemoryFileRepository) FindByID(_ context.Context, id primitive.ObjectID) (*model.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.files[id]; ok {
		return &f, nil
	}
	return nil, nil
}

func (r *MemoryFileRepository) FindByFilename(_ context.Context, filename string) (*model.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.files {
		if f.Filename == filename {
			return &f, nil
		}
	}
	return nil, nil
}

func (r *MemoryFileRepository) ListByUser(_ context.Context, userID primitive.ObjectID) ([]*model.FileRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.FileRecord, 0)
	for _, f := range r.files {
		if f.UserID == userID {
			out = append(out, &f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryFileRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return ErrNotFound
	}
	delete(r.files, id)
	return nil
}

// MemoryLogsRepository keeps the most recent log entries in memory.
type MemoryLogsRepository struct {
	mu      sync.RWMutex
	entries []model.LogEntry
	limit   int
}

// NewMemoryLogsRepository creates a log store retaining at most limit entries.
func NewMemoryLogsRepository(limit int) *MemoryLogsRepository {
	if limit <= 0 {
		limit = 10000
	}
	return &MemoryLogsRepository{limit: limit}
}

func (r *MemoryLogsRepository) Create(ctx context.Context, entry *model.LogEntry) error {
	return r.CreateMany(ctx, []*model.LogEntry{entry})
}

func (r *MemoryLogsRepository) CreateMany(_ context.Context, entries []*model.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		prepareLogEntry(e)
		r.entries = append(r.entries, *e)
	}
	if over := len(r.entries) - r.limit; over > 0 {
		r.entries = append([]model.LogEntry(nil), r.entries[over:]...)
	}
	return nil
}

func (r *MemoryLogsRepository) match(q model.LogQuery) []*model.LogEntry {
	out := make([]*model.LogEntry, 0)
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		switch {
		case q.RequestID != "" && e.RequestID != q.RequestID,
			q.Level != "" && e.Level != q.Level,
			q.UserID != "" && e.UserID != q.UserID,
			q.ActionType != "" && e.ActionType != q.ActionType,
			q.Since != nil && e.Timestamp.Before(*q.Since),
			q.Until != nil && e.Timestamp.After(*q.Until):
			continue
		}
		out = append(out, &e)
	}
	return out
}

func (r *MemoryLogsRepository) Query(_ context.Context, q model.LogQuery) ([]*model.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.match(q)
	start := min(max(q.Skip, 0), len(out))
	end := len(out)
	if q.Limit > 0 {
		end = min(start+q.Limit, end)
	}
	return out[start:end], nil
}

func (r *MemoryLogsRepository) Count(_ context.Context, q model.LogQuery) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.match(q))), nil
}

var (
	_ UserRepositoryInterface     = (*MemoryUserRepository)(nil)
	_ TokenRepositoryInterface    = (*MemoryTokenRepository)(nil)
	_ FavoriteRepositoryInterface = (*MemoryFavoriteRepository)(nil)
	_ HistoryRepositoryInterface  = (*MemoryHistoryRepository)(nil)
	_ FileRepositoryInterface     = (*MemoryFileRepository)(nil)
	_ LogsRepositoryInterface     = (*MemoryLogsRepository)(nil)

	_ UserRepositoryInterface     = (*UserRepository)(nil)
	_ TokenRepositoryInterface    = (*TokenRepository)(nil)
	_ TokenRepositoryInterface    = (*RedisTokenRepository)(nil)
	_ FavoriteRepositoryInterface = (*FavoriteRepository)(nil)
	_ HistoryRepositoryInterface  = (*HistoryRepository)(nil)
	_ FileRepositoryInterface     = (*FileRepository)(nil)
	_ LogsRepositoryInterface     = (*LogsRepository)(nil)
)
