package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/fipe-service/internal/domain/dto"
	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/fipe"
	"github.com/guttosm/fipe-service/internal/repository"
)

// FavoriteService manages the vehicles a user follows.
type FavoriteService interface {
	List(ctx context.Context, userID primitive.ObjectID) ([]*model.Favorite, error)
	Add(ctx context.Context, userID primitive.ObjectID, req dto.CreateFavoriteRequest) (*model.Favorite, error)
	Update(ctx context.Context, userID, id primitive.ObjectID, req dto.UpdateFavoriteRequest) (*model.Favorite, error)
	Remove(ctx context.Context, userID, id primitive.ObjectID) (*model.Favorite, error)
	Search(ctx context.Context, userID primitive.ObjectID, q dto.FavoriteSearchQuery) ([]*model.Favorite, error)
	Stats(ctx context.Context, userID primitive.ObjectID) (*dto.FavoriteStats, error)
	Compare(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) (*dto.FavoriteComparison, error)
}

// FavoriteConfig holds per-user favorite limits.
type FavoriteConfig struct {
	MaxFavorites   int
	MaxComparisons int
}

// FavoriteServiceImpl implements FavoriteService.
type FavoriteServiceImpl struct {
	repo repository.FavoriteRepositoryInterface
	cfg  FavoriteConfig
}

// NewFavoriteService creates a favorite service.
func NewFavoriteService(repo repository.FavoriteRepositoryInterface, cfg FavoriteConfig) FavoriteService {
	if cfg.MaxFavorites <= 0 {
		cfg.MaxFavorites = 100
	}
	if cfg.MaxComparisons < 2 {
		cfg.MaxComparisons = 5
	}
	return &FavoriteServiceImpl{repo: repo, cfg: cfg}
}

// List returns the user's favorites, newest first.
func (s *FavoriteServiceImpl) List(ctx context.Context, userID primitive.ObjectID) ([]*model.Favorite, error) {
	favs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favs, nil
}

// Add stores a validated favorite. A code already favorited or a full list is a conflict.
func (s *FavoriteServiceImpl) Add(ctx context.Context, userID primitive.ObjectID, req dto.CreateFavoriteRequest) (*model.Favorite, error) {
	existing, err := s.repo.FindByCode(ctx, userID, req.CodigoFipe)
	if err != nil {
		return nil, fmt.Errorf("find favorite: %w", err)
	}
	if existing != nil {
		return nil, ErrFavoriteExists
	}

	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count favorites: %w", err)
	}
	if count >= int64(s.cfg.MaxFavorites) {
		return nil, ErrFavoriteLimit
	}

	fav := req.ToModel(userID)
	if err := s.repo.Create(ctx, fav); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrFavoriteExists
		}
		return nil, fmt.Errorf("create favorite: %w", err)
	}
	return fav, nil
}

// Update replaces the notes and/or tags of a favorite.
func (s *FavoriteServiceImpl) Update(ctx context.Context, userID, id primitive.ObjectID, req dto.UpdateFavoriteRequest) (*model.Favorite, error) {
	fav, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("find favorite: %w", err)
	}
	if fav == nil {
		return nil, ErrFavoriteNotFound
	}

	if req.Anotacoes != nil {
		fav.Anotacoes = *req.Anotacoes
	}
	if req.Tags != nil {
		fav.Tags = req.Tags
	}
	if err := s.repo.Update(ctx, fav); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFavoriteNotFound
		}
		return nil, fmt.Errorf("update favorite: %w", err)
	}
	return fav, nil
}

// Remove deletes a favorite and returns it.
func (s *FavoriteServiceImpl) Remove(ctx context.Context, userID, id primitive.ObjectID) (*model.Favorite, error) {
	fav, err := s.repo.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrFavoriteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete favorite: %w", err)
	}
	return fav, nil
}

// Search filters the user's favorites. Q matches brand, model, tags and notes;
// Marca is a substring match and Tipo an exact one. Matching ignores case and accents.
func (s *FavoriteServiceImpl) Search(ctx context.Context, userID primitive.ObjectID, q dto.FavoriteSearchQuery) ([]*model.Favorite, error) {
	favs, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	term := fipe.Fold(strings.TrimSpace(q.Q))
	marca := fipe.Fold(strings.TrimSpace(q.Marca))
	tipo := fipe.Fold(strings.TrimSpace(q.Tipo))

	out := make([]*model.Favorite, 0, len(favs))
	for _, f := range favs {
		if tipo != "" && fipe.Fold(f.Tipo) != tipo {
			continue
		}
		if marca != "" && !strings.Contains(fipe.Fold(f.Marca), marca) {
			continue
		}
		if term != "" && !favoriteMatches(f, term) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func favoriteMatches(f *model.Favorite, term string) bool {
	fields := append([]string{f.Marca, f.Modelo, f.Anotacoes}, f.Tags...)
	for _, v := range fields {
		if strings.Contains(fipe.Fold(v), term) {
			return true
		}
	}
	return false
}

// Stats aggregates the user's favorites.
func (s *FavoriteServiceImpl) Stats(ctx context.Context, userID primitive.ObjectID) (*dto.FavoriteStats, error) {
	favs, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &dto.FavoriteStats{
		Total:    len(favs),
		PorTipo:  make(map[string]int),
		PorMarca: make(map[string]int),
		PorAno:   make(map[int]int),
	}
	for _, f := range favs {
		stats.PorTipo[f.Tipo]++
		stats.PorMarca[f.Marca]++
		stats.PorAno[f.AnoModelo]++
		stats.ValorTotal += fipe.ParseCurrency(f.Valor)

		if stats.MaisRecente == nil || f.CreatedAt.After(stats.MaisRecente.CreatedAt) {
			stats.MaisRecente = f
		}
		if stats.MaisAntigo == nil || f.CreatedAt.Before(stats.MaisAntigo.CreatedAt) {
			stats.MaisAntigo = f
		}
	}
	if len(favs) > 0 {
		stats.ValorMedio = roundCents(stats.ValorTotal / float64(len(favs)))
	}
	stats.ValorTotal = roundCents(stats.ValorTotal)
	stats.ValorMedioFormatado = fipe.FormatCurrency(stats.ValorMedio)
	stats.ValorTotalFormatado = fipe.FormatCurrency(stats.ValorTotal)
	return stats, nil
}

// Compare analyses favorites in the order given. Ties keep the earliest one.
func (s *FavoriteServiceImpl) Compare(ctx context.Context, userID primitive.ObjectID, ids []primitive.ObjectID) (*dto.FavoriteComparison, error) {
	if len(ids) < 2 {
		return nil, ErrCompareTooFew
	}
	if len(ids) > s.cfg.MaxComparisons {
		return nil, ErrCompareTooMany
	}

	found, err := s.repo.FindByIDs(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("find favorites: %w", err)
	}
	byID := make(map[primitive.ObjectID]*model.Favorite, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}
	vehicles := make([]*model.Favorite, 0, len(ids))
	for _, id := range ids {
		f, ok := byID[id]
		if !ok {
			return nil, ErrFavoriteNotFound
		}
		vehicles = append(vehicles, f)
	}

	a := dto.ComparisonAnalysis{
		MaisBarato: vehicles[0],
		MaisCaro:   vehicles[0],
		MaisNovo:   vehicles[0],
		MaisAntigo: vehicles[0],
	}
	low := fipe.ParseCurrency(vehicles[0].Valor)
	high := low
	for _, f := range vehicles[1:] {
		v := fipe.ParseCurrency(f.Valor)
		if v < low {
			low, a.MaisBarato = v, f
		}
		if v > high {
			high, a.MaisCaro = v, f
		}
		if f.AnoModelo > a.MaisNovo.AnoModelo {
			a.MaisNovo = f
		}
		if f.AnoModelo < a.MaisAntigo.AnoModelo {
			a.MaisAntigo = f
		}
	}
	a.DiferencaPreco = roundCents(high - low)
	a.DiferencaPrecoFormatada = fipe.FormatCurrency(a.DiferencaPreco)
	a.DiferencaAno = a.MaisNovo.AnoModelo - a.MaisAntigo.AnoModelo

	return &dto.FavoriteComparison{Veiculos: vehicles, Analise: a}, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
