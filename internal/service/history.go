package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/fipe-service/internal/domain/dto"
	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/logger"
	"github.com/guttosm/fipe-service/internal/repository"
)

const (
	topBrandsLimit     = 10
	defaultRecentLimit = 10
	maxSuggestions     = 5
)

// HistoryService records and summarises the consultations of each user.
type HistoryService interface {
	List(ctx context.Context, userID primitive.ObjectID, q dto.HistoryListQuery) ([]*model.HistoryItem, dto.Pagination, error)
	Add(ctx context.Context, item *model.HistoryItem) error
	Delete(ctx context.Context, userID, id primitive.ObjectID) error
	Clear(ctx context.Context, userID primitive.ObjectID, tipo string) (int64, error)
	Stats(ctx context.Context, userID primitive.ObjectID) (*dto.HistoryStats, error)
	Recent(ctx context.Context, userID primitive.ObjectID, limit int) (*dto.RecentHistory, error)
	Export(ctx context.Context, userID primitive.ObjectID, usuario string) (*dto.HistoryExport, error)
}

// HistoryConfig holds history limits.
type HistoryConfig struct {
	MaxItems    int
	PageSize    int
	MaxPageSize int
}

// HistoryServiceImpl implements HistoryService.
type HistoryServiceImpl struct {
	repo repository.HistoryRepositoryInterface
	cfg  HistoryConfig
	now  func() time.Time
}

// NewHistoryService creates a history service.
func NewHistoryService(repo repository.HistoryRepositoryInterface, cfg HistoryConfig) *HistoryServiceImpl {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 1000
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	if cfg.MaxPageSize < cfg.PageSize {
		cfg.MaxPageSize = 100
	}
	return &HistoryServiceImpl{repo: repo, cfg: cfg, now: time.Now}
}

// List returns one page of the user's history, newest first.
func (s *HistoryServiceImpl) List(ctx context.Context, userID primitive.ObjectID, q dto.HistoryListQuery) ([]*model.HistoryItem, dto.Pagination, error) {
	q.Normalize(s.cfg.PageSize, s.cfg.MaxPageSize)
	items, total, err := s.repo.List(ctx, userID, model.HistoryFilter{
		Tipo:  q.Tipo,
		Marca: q.Marca,
		Skip:  q.Offset(),
		Limit: q.Limit,
	})
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("list history: %w", err)
	}
	return items, dto.NewPagination(q.Page, q.Limit, int(total)), nil
}

// Add stores item and drops the oldest items beyond the per-user cap.
func (s *HistoryServiceImpl) Add(ctx context.Context, item *model.HistoryItem) error {
	if item.ConsultadoEm.IsZero() {
		item.ConsultadoEm = s.now().UTC()
	}
	if item.Detalhes == nil {
		item.Detalhes = map[string]any{}
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return fmt.Errorf("create history item: %w", err)
	}

	trimmed, err := s.repo.TrimOldest(ctx, item.UserID, s.cfg.MaxItems)
	if err != nil {
		log := logger.Component("history")
		log.Warn().Err(err).Str("user_id", item.UserID.Hex()).Msg("Failed to trim history")
		return nil
	}
	if trimmed > 0 {
		log := logger.Component("history")
		log.Debug().Int64("trimmed", trimmed).Str("user_id", item.UserID.Hex()).Msg("History trimmed")
	}
	return nil
}

// Delete removes one item.
func (s *HistoryServiceImpl) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	_, err := s.repo.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrHistoryItemNotFound
	}
	if err != nil {
		return fmt.Errorf("delete history item: %w", err)
	}
	return nil
}

// Clear removes every item of the user, or only those of type tipo.
func (s *HistoryServiceImpl) Clear(ctx context.Context, userID primitive.ObjectID, tipo string) (int64, error) {
	n, err := s.repo.DeleteAll(ctx, userID, tipo)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return n, nil
}

// Stats aggregates the whole history of the user.
func (s *HistoryServiceImpl) Stats(ctx context.Context, userID primitive.ObjectID) (*dto.HistoryStats, error) {
	items, err := s.repo.ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	stats := &dto.HistoryStats{
		Total:                 len(items),
		ConsultasPorTipo:      make(map[string]int),
		ConsultasPorMarca:     make(map[string]int),
		ConsultasPorDia:       make(map[string]int),
		MarcasMaisConsultadas: []dto.BrandCount{},
		TiposMaisConsultados:  []dto.TypeCount{},
	}
	if len(items) == 0 {
		return stats, nil
	}

	// items are newest first
	stats.UltimaConsulta = items[0]
	stats.PrimeiraConsulta = items[len(items)-1]

	for _, it := range items {
		stats.ConsultasPorTipo[it.Tipo]++
		if it.Marca != "" {
			stats.ConsultasPorMarca[it.Marca]++
		}
		stats.ConsultasPorDia[it.ConsultadoEm.UTC().Format(time.DateOnly)]++
	}

	for marca, n := range stats.ConsultasPorMarca {
		stats.MarcasMaisConsultadas = append(stats.MarcasMaisConsultadas, dto.BrandCount{Marca: marca, Count: n})
	}
	sort.Slice(stats.MarcasMaisConsultadas, func(i, j int) bool {
		a, b := stats.MarcasMaisConsultadas[i], stats.MarcasMaisConsultadas[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Marca < b.Marca
	})
	if len(stats.MarcasMaisConsultadas) > topBrandsLimit {
		stats.MarcasMaisConsultadas = stats.MarcasMaisConsultadas[:topBrandsLimit]
	}

	for tipo, n := range stats.ConsultasPorTipo {
		stats.TiposMaisConsultados = append(stats.TiposMaisConsultados, dto.TypeCount{Tipo: tipo, Count: n})
	}
	sort.Slice(stats.TiposMaisConsultados, func(i, j int) bool {
		a, b := stats.TiposMaisConsultados[i], stats.TiposMaisConsultados[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Tipo < b.Tipo
	})
	return stats, nil
}

// Recent returns the latest items plus distinct brand and model suggestions taken from them.
func (s *HistoryServiceImpl) Recent(ctx context.Context, userID primitive.ObjectID, limit int) (*dto.RecentHistory, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	limit = min(limit, s.cfg.MaxPageSize)

	items, _, err := s.repo.List(ctx, userID, model.HistoryFilter{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	return &dto.RecentHistory{
		Consultas: items,
		Sugestoes: dto.Suggestions{
			Marcas:  distinct(items, func(it *model.HistoryItem) string { return it.Marca }),
			Modelos: distinct(items, func(it *model.HistoryItem) string { return it.Modelo }),
		},
	}, nil
}

func distinct(items []*model.HistoryItem, field func(*model.HistoryItem) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, it := range items {
		v := field(it)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// Export returns the full history of the user as a downloadable document.
func (s *HistoryServiceImpl) Export(ctx context.Context, userID primitive.ObjectID, usuario string) (*dto.HistoryExport, error) {
	items, err := s.repo.ListAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return &dto.HistoryExport{
		Usuario:        usuario,
		ExportadoEm:    s.now().UTC(),
		TotalConsultas: len(items),
		Historico:      items,
	}, nil
}
