package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/logger"
	"github.com/guttosm/fipe-service/internal/repository"
)

// sniffLen is how many leading bytes are used to detect the content type.
const sniffLen = 3072

// allowedTypes maps each accepted extension to the content types it may carry.
var allowedTypes = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword", "application/x-ole-storage"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
	".txt":  {"text/plain"},
}

// UploadInput is one file received from a client.
type UploadInput struct {
	Field        string
	OriginalName string
	Size         int64
	Content      io.Reader
}

// Actor is the authenticated caller of an ownership-checked operation.
type Actor struct {
	UserID primitive.ObjectID
	Admin  bool
}

func (a Actor) owns(f *model.FileRecord) bool {
	return a.Admin || f.UserID == a.UserID
}

// UploadService stores files on disk and their metadata in the file repository.
type UploadService interface {
	Save(ctx context.Context, owner primitive.ObjectID, in UploadInput) (*model.FileRecord, error)
	SaveMany(ctx context.Context, owner primitive.ObjectID, in []UploadInput) ([]*model.FileRecord, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.FileRecord, error)
	Resolve(ctx context.Context, filename string) (*model.FileRecord, string, error)
	ResolveFor(ctx context.Context, actor Actor, filename string) (*model.FileRecord, string, error)
	Delete(ctx context.Context, actor Actor, id primitive.ObjectID) (*model.FileRecord, error)
}

// UploadConfig holds upload limits.
type UploadConfig struct {
	Dir      string
	MaxSize  int64
	MaxFiles int
}

// UploadServiceImpl implements UploadService.
type UploadServiceImpl struct {
	repo repository.FileRepositoryInterface
	cfg  UploadConfig
	now  func() time.Time
}

// NewUploadService creates an upload service, creating the storage directory when needed.
func NewUploadService(repo repository.FileRepositoryInterface, cfg UploadConfig) (*UploadServiceImpl, error) {
	if cfg.Dir == "" {
		cfg.Dir = "uploads"
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 5 << 20
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = 5
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadServiceImpl{repo: repo, cfg: cfg, now: time.Now}, nil
}

// Save validates and stores one file.
func (s *UploadServiceImpl) Save(ctx context.Context, owner primitive.ObjectID, in UploadInput) (*model.FileRecord, error) {
	if in.Content == nil || strings.TrimSpace(in.OriginalName) == "" {
		return nil, ErrNoFile
	}
	if in.Size > s.cfg.MaxSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(in.OriginalName))
	accepted, ok := allowedTypes[ext]
	if !ok {
		return nil, ErrFileType
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, ErrNoFile
	}
	detected := mimetype.Detect(head)
	if !matchesFamily(detected, accepted) {
		return nil, ErrFileType
	}

	field := in.Field
	if field == "" {
		field = "file"
	}
	record := &model.FileRecord{
		ID:           primitive.NewObjectID(),
		UserID:       owner,
		Field:        field,
		OriginalName: filepath.Base(in.OriginalName),
		Filename:     fmt.Sprintf("%s-%d-%s%s", field, s.now().UnixMilli(), uuid.NewString(), ext),
		MimeType:     accepted[0],
		CreatedAt:    s.now().UTC(),
	}

	size, err := s.write(record.Filename, io.MultiReader(bytes.NewReader(head), in.Content))
	if err != nil {
		return nil, err
	}
	record.Size = size

	if err := s.repo.Create(ctx, record); err != nil {
		s.remove(record.Filename)
		return nil, fmt.Errorf("save file metadata: %w", err)
	}

	log := logger.Component("upload")
	log.Info().
		Str("user_id", owner.Hex()).
		Str("filename", record.Filename).
		Int64("size", record.Size).
		Str("mime_type", detected.String()).
		Msg("File uploaded")
	return record, nil
}

// SaveMany stores every file or none of them.
func (s *UploadServiceImpl) SaveMany(ctx context.Context, owner primitive.ObjectID, in []UploadInput) ([]*model.FileRecord, error) {
	if len(in) == 0 {
		return nil, ErrNoFile
	}
	if len(in) > s.cfg.MaxFiles {
		return nil, ErrTooManyFiles
	}

	saved := make([]*model.FileRecord, 0, len(in))
	for _, f := range in {
		rec, err := s.Save(ctx, owner, f)
		if err != nil {
			for _, done := range saved {
				s.discard(ctx, done)
			}
			return nil, err
		}
		saved = append(saved, rec)
	}
	return saved, nil
}

// ListByUser returns the files uploaded by userID, newest first.
func (s *UploadServiceImpl) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.FileRecord, error) {
	files, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// Resolve returns the metadata and disk path of a stored file.
func (s *UploadServiceImpl) Resolve(ctx context.Context, filename string) (*model.FileRecord, string, error) {
	if filename == "" || filepath.Base(filename) != filename || strings.HasPrefix(filename, ".") {
		return nil, "", ErrFileNotFound
	}
	rec, err := s.repo.FindByFilename(ctx, filename)
	if err != nil {
		return nil, "", fmt.Errorf("find file: %w", err)
	}
	if rec == nil {
		return nil, "", ErrFileNotFound
	}
	path := s.path(filename)
	if _, err := os.Stat(path); err != nil {
		return nil, "", ErrFileNotFound
	}
	return rec, path, nil
}

// ResolveFor is Resolve restricted to the owner of the file or an admin.
func (s *UploadServiceImpl) ResolveFor(ctx context.Context, actor Actor, filename string) (*model.FileRecord, string, error) {
	rec, path, err := s.Resolve(ctx, filename)
	if err != nil {
		return nil, "", err
	}
	if !actor.owns(rec) {
		return nil, "", ErrFileForbidden
	}
	return rec, path, nil
}

// Delete removes a file and its metadata. Only the owner or an admin may delete it.
func (s *UploadServiceImpl) Delete(ctx context.Context, actor Actor, id primitive.ObjectID) (*model.FileRecord, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find file: %w", err)
	}
	if rec == nil {
		return nil, ErrFileNotFound
	}
	if !actor.owns(rec) {
		return nil, ErrFileForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("delete file metadata: %w", err)
	}
	s.remove(rec.Filename)
	return rec, nil
}

func (s *UploadServiceImpl) path(filename string) string {
	return filepath.Join(s.cfg.Dir, filename)
}

// write copies r into a new file, failing with ErrFileTooLarge past the size limit.
func (s *UploadServiceImpl) write(filename string, r io.Reader) (int64, error) {
	f, err := os.OpenFile(s.path(filename), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, s.cfg.MaxSize+1))
	closeErr := f.Close()
	switch {
	case err != nil:
		s.remove(filename)
		return 0, fmt.Errorf("write file: %w", err)
	case n > s.cfg.MaxSize:
		s.remove(filename)
		return 0, ErrFileTooLarge
	case closeErr != nil:
		s.remove(filename)
		return 0, fmt.Errorf("close file: %w", closeErr)
	}
	return n, nil
}

func (s *UploadServiceImpl) discard(ctx context.Context, rec *model.FileRecord) {
	if err := s.repo.Delete(ctx, rec.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		log := logger.Component("upload")
		log.Warn().Err(err).Str("filename", rec.Filename).Msg("Failed to roll back file metadata")
	}
	s.remove(rec.Filename)
}

func (s *UploadServiceImpl) remove(filename string) {
	if err := os.Remove(s.path(filename)); err != nil && !errors.Is(err, os.ErrNotExist) {
		log := logger.Component("upload")
		log.Warn().Err(err).Str("filename", filename).Msg("Failed to remove file")
	}
}

// matchesFamily reports whether m or one of its parents is an accepted type.
func matchesFamily(m *mimetype.MIME, accepted []string) bool {
	for ; m != nil; m = m.Parent() {
		for _, a := range accepted {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}
