//go:build !integration

package service_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/fipe-service/internal/mocks"
	"github.com/guttosm/fipe-service/internal/repository"
	"github.com/guttosm/fipe-service/internal/service"
)

var (
	pngContent = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	pdfContent = []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n")
	txtContent = []byte("revisão em dia\n")
)

func newUploadService(t *testing.T, maxSize int64) (*service.UploadServiceImpl, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	svc, err := service.NewUploadService(repository.NewMemoryFileRepository(), service.UploadConfig{Dir: dir, MaxSize: maxSize, MaxFiles: 2})
	require.NoError(t, err)
	return svc, dir
}

func upload(name string, content []byte) service.UploadInput {
	return service.UploadInput{
		Field:        "file",
		OriginalName: name,
		Size:         int64(len(content)),
		Content:      bytes.NewReader(content),
	}
}

func TestUploadService_Save(t *testing.T) {
	tests := []struct {
		name         string
		input        service.UploadInput
		expectedErr  error
		expectedMime string
	}{
		{name: "png", input: upload("foto.PNG", pngContent), expectedMime: "image/png"},
		{name: "pdf", input: upload("laudo.pdf", pdfContent), expectedMime: "application/pdf"},
		{name: "txt", input: upload("notas.txt", txtContent), expectedMime: "text/plain"},
		{name: "extension not allowed", input: upload("script.exe", pngContent), expectedErr: service.ErrFileType},
		{name: "content does not match extension", input: upload("foto.png", pdfContent), expectedErr: service.ErrFileType},
		{name: "declared size too large", input: upload("big.txt", bytes.Repeat([]byte("a"), 200)), expectedErr: service.ErrFileTooLarge},
		{name: "empty content", input: upload("vazio.txt", nil), expectedErr: service.ErrNoFile},
		{name: "missing name", input: upload("", txtContent), expectedErr: service.ErrNoFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, dir := newUploadService(t, 128)
			owner := primitive.NewObjectID()

			rec, err := svc.Save(context.Background(), owner, tt.input)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				entries, _ := os.ReadDir(dir)
				assert.Empty(t, entries, "rejected uploads leave nothing on disk")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, owner, rec.UserID)
			assert.Equal(t, tt.expectedMime, rec.MimeType)
			assert.Equal(t, tt.input.Size, rec.Size)
			assert.True(t, strings.HasPrefix(rec.Filename, "file-"))
			assert.Equal(t, strings.ToLower(filepath.Ext(tt.input.OriginalName)), filepath.Ext(rec.Filename))

			stored, err := os.ReadFile(filepath.Join(dir, rec.Filename))
			require.NoError(t, err)
			assert.Len(t, stored, int(rec.Size))
		})
	}
}

func TestUploadService_Save_UndeclaredSizeTooLarge(t *testing.T) {
	svc, dir := newUploadService(t, 16)
	in := upload("notas.txt", bytes.Repeat([]byte("a"), 64))
	in.Size = 0

	_, err := svc.Save(context.Background(), primitive.NewObjectID(), in)
	assert.ErrorIs(t, err, service.ErrFileTooLarge)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestUploadService_Save_MetadataFailureRemovesFile(t *testing.T) {
	dir := t.TempDir()
	repo := new(mocks.MockFileRepositoryInterface)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("database error"))
	svc, err := service.NewUploadService(repo, service.UploadConfig{Dir: dir})
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), primitive.NewObjectID(), upload("foto.png", pngContent))
	require.Error(t, err)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestUploadService_SaveMany(t *testing.T) {
	ctx := context.Background()
	owner := primitive.NewObjectID()

	t.Run("all files", func(t *testing.T) {
		svc, _ := newUploadService(t, 1024)
		recs, err := svc.SaveMany(ctx, owner, []service.UploadInput{upload("a.png", pngContent), upload("b.txt", txtContent)})
		require.NoError(t, err)
		assert.Len(t, recs, 2)

		files, err := svc.ListByUser(ctx, owner)
		require.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("too many", func(t *testing.T) {
		svc, _ := newUploadService(t, 1024)
		_, err := svc.SaveMany(ctx, owner, []service.UploadInput{
			upload("a.png", pngContent), upload("b.png", pngContent), upload("c.png", pngContent),
		})
		assert.ErrorIs(t, err, service.ErrTooManyFiles)
	})

	t.Run("none", func(t *testing.T) {
		svc, _ := newUploadService(t, 1024)
		_, err := svc.SaveMany(ctx, owner, nil)
		assert.ErrorIs(t, err, service.ErrNoFile)
	})

	t.Run("one invalid file rolls back the others", func(t *testing.T) {
		svc, dir := newUploadService(t, 1024)
		_, err := svc.SaveMany(ctx, owner, []service.UploadInput{upload("a.png", pngContent), upload("b.exe", pngContent)})
		assert.ErrorIs(t, err, service.ErrFileType)

		files, err := svc.ListByUser(ctx, owner)
		require.NoError(t, err)
		assert.Empty(t, files)
		entries, _ := os.ReadDir(dir)
		assert.Empty(t, entries)
	})
}

func TestUploadService_ResolveAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, dir := newUploadService(t, 1024)
	owner := primitive.NewObjectID()
	stranger := service.Actor{UserID: primitive.NewObjectID()}

	rec, err := svc.Save(ctx, owner, upload("foto.png", pngContent))
	require.NoError(t, err)

	t.Run("resolve", func(t *testing.T) {
		got, path, err := svc.Resolve(ctx, rec.Filename)
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
		assert.Equal(t, filepath.Join(dir, rec.Filename), path)
	})

	t.Run("path traversal", func(t *testing.T) {
		for _, name := range []string{"../" + rec.Filename, ".", "..", ""} {
			_, _, err := svc.Resolve(ctx, name)
			assert.ErrorIs(t, err, service.ErrFileNotFound, name)
		}
	})

	t.Run("ownership", func(t *testing.T) {
		_, _, err := svc.ResolveFor(ctx, stranger, rec.Filename)
		assert.ErrorIs(t, err, service.ErrFileForbidden)

		_, _, err = svc.ResolveFor(ctx, service.Actor{UserID: primitive.NewObjectID(), Admin: true}, rec.Filename)
		assert.NoError(t, err)

		_, _, err = svc.ResolveFor(ctx, service.Actor{UserID: owner}, rec.Filename)
		assert.NoError(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		_, err := svc.Delete(ctx, stranger, rec.ID)
		assert.ErrorIs(t, err, service.ErrFileForbidden)

		deleted, err := svc.Delete(ctx, service.Actor{UserID: owner}, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec.ID, deleted.ID)
		_, statErr := os.Stat(filepath.Join(dir, rec.Filename))
		assert.True(t, os.IsNotExist(statErr))

		_, err = svc.Delete(ctx, service.Actor{UserID: owner}, rec.ID)
		assert.ErrorIs(t, err, service.ErrFileNotFound)

		_, _, err = svc.Resolve(ctx, rec.Filename)
		assert.ErrorIs(t, err, service.ErrFileNotFound)
	})
}
