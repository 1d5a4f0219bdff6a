package repository

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The contracts below run against every implementation of an interface: the
// in-memory stores in unit tests and the MongoDB/Redis stores in integration tests.

func testUserRepositoryContract(t *testing.T, repo UserRepositoryInterface) {
	ctx := context.Background()

	user := &model.User{Name: "Ana", Email: "  Ana@Example.com ", Password: "hash", Role: model.RoleUser, Active: true}
	require.NoError(t, repo.Create(ctx, user))
	assert.False(t, user.ID.IsZero())
	assert.Equal(t, "ana@example.com", user.Email)

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, &model.User{Name: "Other", Email: "ANA@example.com"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("find by email ignores case", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "ANA@EXAMPLE.COM")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, "hash", found.Password)
	})

	t.Run("unknown user", func(t *testing.T) {
		found, err := repo.FindByID(ctx, primitive.NewObjectID())
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("last login", func(t *testing.T) {
		require.NoError(t, repo.UpdateLastLogin(ctx, user.ID))
		found, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, found.LastLogin)

		assert.ErrorIs(t, repo.UpdateLastLogin(ctx, primitive.NewObjectID()), ErrNotFound)
	})
}

func testTokenRepositoryContract(t *testing.T, repo TokenRepositoryInterface) {
	ctx := context.Background()
	userID := primitive.NewObjectID()
	expires := time.Now().Add(time.Hour)

	refresh := &model.Token{UserID: userID, Token: "refresh-1", Type: model.TokenTypeRefresh, ExpiresAt: expires}
	require.NoError(t, repo.Create(ctx, refresh))
	require.NoError(t, repo.Create(ctx, &model.Token{UserID: userID, Token: "refresh-2", Type: model.TokenTypeRefresh, ExpiresAt: expires}))

	t.Run("find", func(t *testing.T) {
		found, err := repo.FindByToken(ctx, "refresh-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, userID, found.UserID)
		assert.Equal(t, model.TokenTypeRefresh, found.Type)

		missing, err := repo.FindByToken(ctx, "nope")
		assert.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("blacklist", func(t *testing.T) {
		listed, err := repo.IsBlacklisted(ctx, "access-1")
		require.NoError(t, err)
		assert.False(t, listed)

		require.NoError(t, repo.Create(ctx, &model.Token{UserID: userID, Token: "access-1", Type: model.TokenTypeBlacklist, ExpiresAt: expires}))
		listed, err = repo.IsBlacklisted(ctx, "access-1")
		require.NoError(t, err)
		assert.True(t, listed)

		listed, err = repo.IsBlacklisted(ctx, "refresh-1")
		require.NoError(t, err)
		assert.False(t, listed)
	})

	t.Run("delete one", func(t *testing.T) {
		require.NoError(t, repo.DeleteByToken(ctx, "refresh-1"))
		found, err := repo.FindByToken(ctx, "refresh-1")
		require.NoError(t, err)
		assert.Nil(t, found)
		assert.NoError(t, repo.DeleteByToken(ctx, "refresh-1"))
	})

	t.Run("delete by user keeps other types", func(t *testing.T) {
		require.NoError(t, repo.DeleteByUserID(ctx, userID, model.TokenTypeRefresh))
		found, err := repo.FindByToken(ctx, "refresh-2")
		require.NoError(t, err)
		assert.Nil(t, found)

		listed, err := repo.IsBlacklisted(ctx, "access-1")
		require.NoError(t, err)
		assert.True(t, listed)
	})

	assert.NoError(t, repo.CleanupExpired(ctx))
}

func testFavoriteRepositoryContract(t *testing.T, repo FavoriteRepositoryInterface) {
	ctx := context.Background()
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	base := time.Now().UTC().Truncate(time.Millisecond)

	older := &model.Favorite{UserID: owner, CodigoFipe: "001004-9", Marca: "Fiat", Modelo: "Palio", CreatedAt: base.Add(-time.Hour)}
	newer := &model.Favorite{UserID: owner, CodigoFipe: "014073-2", Marca: "Honda", Modelo: "City", Tags: []string{"sedan"}, CreatedAt: base}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))
	assert.NotNil(t, older.Tags)

	t.Run("same code twice", func(t *testing.T) {
		err := repo.Create(ctx, &model.Favorite{UserID: owner, CodigoFipe: "001004-9"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("same code for another user", func(t *testing.T) {
		assert.NoError(t, repo.Create(ctx, &model.Favorite{UserID: stranger, CodigoFipe: "001004-9"}))
	})

	t.Run("lookups are scoped to the owner", func(t *testing.T) {
		found, err := repo.FindByID(ctx, owner, newer.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, []string{"sedan"}, found.Tags)

		found, err = repo.FindByID(ctx, stranger, newer.ID)
		require.NoError(t, err)
		assert.Nil(t, found)

		byCode, err := repo.FindByCode(ctx, owner, "014073-2")
		require.NoError(t, err)
		require.NotNil(t, byCode)
		assert.Equal(t, newer.ID, byCode.ID)

		byIDs, err := repo.FindByIDs(ctx, owner, []primitive.ObjectID{older.ID, newer.ID, primitive.NewObjectID()})
		require.NoError(t, err)
		assert.Len(t, byIDs, 2)
	})

	t.Run("list newest first", func(t *testing.T) {
		favs, err := repo.ListByUser(ctx, owner)
		require.NoError(t, err)
		require.Len(t, favs, 2)
		assert.Equal(t, newer.ID, favs[0].ID)
		assert.Equal(t, older.ID, favs[1].ID)

		n, err := repo.CountByUser(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("update notes and tags", func(t *testing.T) {
		upd := &model.Favorite{ID: older.ID, UserID: owner, Anotacoes: "revisado", Tags: []string{"a", "b"}}
		require.NoError(t, repo.Update(ctx, upd))
		require.NotNil(t, upd.UpdatedAt)

		found, err := repo.FindByID(ctx, owner, older.ID)
		require.NoError(t, err)
		assert.Equal(t, "revisado", found.Anotacoes)
		assert.Equal(t, []string{"a", "b"}, found.Tags)
		assert.Equal(t, "Palio", found.Modelo)
		assert.NotNil(t, found.UpdatedAt)

		err = repo.Update(ctx, &model.Favorite{ID: older.ID, UserID: stranger})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		_, err := repo.Delete(ctx, stranger, older.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		removed, err := repo.Delete(ctx, owner, older.ID)
		require.NoError(t, err)
		assert.Equal(t, "001004-9", removed.CodigoFipe)

		_, err = repo.Delete(ctx, owner, older.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func testHistoryRepositoryContract(t *testing.T, repo HistoryRepositoryInterface) {
	ctx := context.Background()
	userID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	base := time.Now().UTC().Truncate(time.Millisecond)

	fixtures := []struct {
		tipo  string
		marca string
	}{
		{model.HistoryPriceLookup, "Fiat"},
		{model.HistoryBrandLookup, ""},
		{model.HistoryPriceLookup, "Honda"},
		{model.HistoryModelLookup, "Fiat"},
		{model.HistoryPriceLookup, "FIAT"},
	}
	ids := make([]primitive.ObjectID, len(fixtures))
	for i, f := range fixtures {
		item := &model.HistoryItem{UserID: userID, Tipo: f.tipo, Marca: f.marca, ConsultadoEm: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, repo.Create(ctx, item))
		ids[i] = item.ID
	}
	require.NoError(t, repo.Create(ctx, &model.HistoryItem{UserID: other, Tipo: model.HistoryGeneral}))

	tests := []struct {
		name      string
		filter    model.HistoryFilter
		wantTotal int64
		wantIDs   []primitive.ObjectID
	}{
		{"first page", model.HistoryFilter{Limit: 2}, 5, []primitive.ObjectID{ids[4], ids[3]}},
		{"second page", model.HistoryFilter{Skip: 2, Limit: 2}, 5, []primitive.ObjectID{ids[2], ids[1]}},
		{"past the end", model.HistoryFilter{Skip: 10, Limit: 2}, 5, []primitive.ObjectID{}},
		{"by tipo", model.HistoryFilter{Tipo: model.HistoryPriceLookup}, 3, []primitive.ObjectID{ids[4], ids[2], ids[0]}},
		{"by marca ignores case", model.HistoryFilter{Marca: "fiat"}, 3, []primitive.ObjectID{ids[4], ids[3], ids[0]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := repo.List(ctx, userID, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			got := make([]primitive.ObjectID, 0, len(items))
			for _, it := range items {
				got = append(got, it.ID)
			}
			assert.Equal(t, tt.wantIDs, got)
		})
	}

	t.Run("list all", func(t *testing.T) {
		items, err := repo.ListAll(ctx, userID)
		require.NoError(t, err)
		require.Len(t, items, 5)
		assert.Equal(t, ids[4], items[0].ID)
	})

	t.Run("delete is scoped", func(t *testing.T) {
		_, err := repo.Delete(ctx, other, ids[1])
		assert.ErrorIs(t, err, ErrNotFound)

		removed, err := repo.Delete(ctx, userID, ids[1])
		require.NoError(t, err)
		assert.Equal(t, model.HistoryBrandLookup, removed.Tipo)
	})

	t.Run("trim oldest", func(t *testing.T) {
		n, err := repo.TrimOldest(ctx, userID, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		items, err := repo.ListAll(ctx, userID)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, ids[2], items[2].ID)

		n, err = repo.TrimOldest(ctx, userID, 10)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("clear by tipo then all", func(t *testing.T) {
		n, err := repo.DeleteAll(ctx, userID, model.HistoryModelLookup)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = repo.DeleteAll(ctx, userID, "")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		items, err := repo.ListAll(ctx, other)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}

func testFileRepositoryContract(t *testing.T, repo FileRepositoryInterface) {
	ctx := context.Background()
	userID := primitive.NewObjectID()

	file := &model.FileRecord{UserID: userID, Field: "file", OriginalName: "laudo.pdf", Filename: "file-1-a.pdf", MimeType: "application/pdf", Size: 42}
	require.NoError(t, repo.Create(ctx, file))
	require.NoError(t, repo.Create(ctx, &model.FileRecord{UserID: primitive.NewObjectID(), Filename: "file-2-b.png"}))

	assert.ErrorIs(t, repo.Create(ctx, &model.FileRecord{UserID: userID, Filename: "file-1-a.pdf"}), ErrDuplicate)

	found, err := repo.FindByFilename(ctx, "file-1-a.pdf")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, file.ID, found.ID)
	assert.Equal(t, int64(42), found.Size)

	byID, err := repo.FindByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, "laudo.pdf", byID.OriginalName)

	files, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, files, 1)

	require.NoError(t, repo.Delete(ctx, file.ID))
	assert.ErrorIs(t, repo.Delete(ctx, file.ID), ErrNotFound)

	missing, err := repo.FindByFilename(ctx, "file-1-a.pdf")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func testLogsRepositoryContract(t *testing.T, repo LogsRepositoryInterface) {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, repo.CreateMany(ctx, []*model.LogEntry{
		{Level: "info", Message: "request", RequestID: "req-1", Timestamp: base.Add(-2 * time.Minute)},
		{Level: "info", Message: "login", RequestID: "req-2", UserID: "u1", ActionType: model.ActionLogin, Timestamp: base.Add(-time.Minute)},
	}))
	entry := &model.LogEntry{Level: "error", Message: "boom", RequestID: "req-2", Timestamp: base}
	require.NoError(t, repo.Create(ctx, entry))
	assert.False(t, entry.ID.IsZero())
	require.NoError(t, repo.CreateMany(ctx, nil))

	since := base.Add(-90 * time.Second)
	tests := []struct {
		name  string
		query model.LogQuery
		want  []string
	}{
		{"all newest first", model.LogQuery{}, []string{"boom", "login", "request"}},
		{"by request", model.LogQuery{RequestID: "req-2"}, []string{"boom", "login"}},
		{"by level", model.LogQuery{Level: "error"}, []string{"boom"}},
		{"by action", model.LogQuery{UserID: "u1", ActionType: model.ActionLogin}, []string{"login"}},
		{"since", model.LogQuery{Since: &since}, []string{"boom", "login"}},
		{"paged", model.LogQuery{Skip: 1, Limit: 1}, []string{"login"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := repo.Query(ctx, tt.query)
			require.NoError(t, err)
			got := make([]string, len(entries))
			for i, e := range entries {
				got[i] = e.Message
			}
			assert.Equal(t, tt.want, got)
		})
	}

	n, err := repo.Count(ctx, model.LogQuery{RequestID: "req-2"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
