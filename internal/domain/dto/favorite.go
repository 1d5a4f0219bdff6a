package dto

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/fipe"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite field limits.
const (
	MinModelYear      = 1900
	MaxAnotacoesChars = 500
	MaxTags           = 10
	MaxTagChars       = 30
)

// CreateFavoriteRequest is the body of POST /api/favorites.
//
// @Description Vehicle to save as favorite
type CreateFavoriteRequest struct {
	CodigoFipe  string   `json:"codigoFipe" binding:"required" example:"001004-9"`
	Marca       string   `json:"marca" binding:"required" example:"Fiat"`
	Modelo      string   `json:"modelo" binding:"required" example:"Palio 1.0"`
	AnoModelo   int      `json:"anoModelo" example:"2014"`
	Valor       string   `json:"valor" example:"R$ 26.000,00"`
	Tipo        string   `json:"tipo" binding:"required" example:"carros"`
	Combustivel string   `json:"combustivel,omitempty" example:"Gasolina"`
	Anotacoes   string   `json:"anotacoes,omitempty" example:"Revisado"`
	Tags        []string `json:"tags,omitempty" example:"familia,economico"`
} // @name CreateFavoriteRequest

// Validate checks field limits and normalises tipo to its wire name.
func (r *CreateFavoriteRequest) Validate() error {
	r.CodigoFipe = strings.TrimSpace(r.CodigoFipe)
	r.Marca = strings.TrimSpace(r.Marca)
	r.Modelo = strings.TrimSpace(r.Modelo)

	if len(r.CodigoFipe) < fipe.MinFipeCodeLength {
		return invalid("codigoFipe", "must have at least 6 characters")
	}
	if r.Marca == "" {
		return invalid("marca", "is required")
	}
	if r.Modelo == "" {
		return invalid("modelo", "is required")
	}
	if r.AnoModelo != 0 {
		if maxYear := time.Now().Year() + 1; r.AnoModelo < MinModelYear || r.AnoModelo > maxYear {
			return invalid("anoModelo", "must be between 1900 and next year")
		}
	}
	t, err := fipe.ParseVehicleType(r.Tipo)
	if err != nil {
		return invalid("tipo", "must be one of carros, motos, caminhoes")
	}
	r.Tipo = t.String()

	if r.Tags == nil {
		r.Tags = []string{}
	}
	return validateNotes(&r.Anotacoes, r.Tags)
}

// ToModel builds the favorite owned by userID.
func (r *CreateFavoriteRequest) ToModel(userID primitive.ObjectID) *model.Favorite {
	return &model.Favorite{
		UserID:      userID,
		CodigoFipe:  r.CodigoFipe,
		Marca:       r.Marca,
		Modelo:      r.Modelo,
		AnoModelo:   r.AnoModelo,
		Valor:       r.Valor,
		Tipo:        r.Tipo,
		Combustivel: r.Combustivel,
		Anotacoes:   r.Anotacoes,
		Tags:        r.Tags,
	}
}

// UpdateFavoriteRequest is the body of PUT /api/favorites/:id. Absent fields are left unchanged.
//
// @Description Notes and tags to update
type UpdateFavoriteRequest struct {
	Anotacoes *string  `json:"anotacoes,omitempty" example:"Trocar pneus"`
	Tags      []string `json:"tags,omitempty" example:"familia"`
} // @name UpdateFavoriteRequest

// Validate checks field limits.
func (r *UpdateFavoriteRequest) Validate() error {
	if r.Anotacoes == nil && r.Tags == nil {
		return invalid("anotacoes", "nothing to update")
	}
	return validateNotes(r.Anotacoes, r.Tags)
}

func validateNotes(anotacoes *string, tags []string) error {
	if anotacoes != nil {
		*anotacoes = strings.TrimSpace(*anotacoes)
		if utf8.RuneCountInString(*anotacoes) > MaxAnotacoesChars {
			return invalid("anotacoes", "must have at most 500 characters")
		}
	}
	if len(tags) > MaxTags {
		return invalid("tags", "must have at most 10 tags")
	}
	for i, tag := range tags {
		tags[i] = strings.TrimSpace(tag)
		if tags[i] == "" || utf8.RuneCountInString(tags[i]) > MaxTagChars {
			return invalid("tags", "each tag must have between 1 and 30 characters")
		}
	}
	return nil
}

// CompareFavoritesRequest is the body of POST /api/favorites/compare.
//
// @Description Favorites to compare
type CompareFavoritesRequest struct {
	FavoriteIDs []string `json:"favoriteIds" binding:"required" example:"65f0c2a1e4b0a1b2c3d4e5f6,65f0c2a1e4b0a1b2c3d4e5f7"`
} // @name CompareFavoritesRequest

// Validate requires at least two distinct, well-formed ids.
func (r *CompareFavoritesRequest) Validate() error {
	seen := make(map[string]struct{}, len(r.FavoriteIDs))
	for _, id := range r.FavoriteIDs {
		if !primitive.IsValidObjectID(id) {
			return invalid("favoriteIds", "contains an invalid id")
		}
		if _, dup := seen[id]; dup {
			return invalid("favoriteIds", "contains duplicated ids")
		}
		seen[id] = struct{}{}
	}
	if len(r.FavoriteIDs) < 2 {
		return invalid("favoriteIds", "select at least 2 favorites to compare")
	}
	return nil
}

// ObjectIDs converts the validated ids.
func (r *CompareFavoritesRequest) ObjectIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(r.FavoriteIDs))
	for _, id := range r.FavoriteIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err == nil {
			ids = append(ids, oid)
		}
	}
	return ids
}

// FavoriteSearchQuery filters a user's favorites.
type FavoriteSearchQuery struct {
	Q     string `form:"q" json:"q,omitempty"`
	Marca string `form:"marca" json:"marca,omitempty"`
	Tipo  string `form:"tipo" json:"tipo,omitempty"`
}

// FavoriteStats summarises a user's favorites.
type FavoriteStats struct {
	Total               int             `json:"total"`
	PorTipo             map[string]int  `json:"porTipo"`
	PorMarca            map[string]int  `json:"porMarca"`
	PorAno              map[int]int     `json:"porAno"`
	ValorMedio          float64         `json:"valorMedio"`
	ValorTotal          float64         `json:"valorTotal"`
	ValorMedioFormatado string          `json:"valorMedioFormatado"`
	ValorTotalFormatado string          `json:"valorTotalFormatado"`
	MaisRecente         *model.Favorite `json:"maisRecente"`
	MaisAntigo          *model.Favorite `json:"maisAntigo"`
}

// ComparisonAnalysis holds the extremes among compared favorites.
type ComparisonAnalysis struct {
	MaisBarato              *model.Favorite `json:"maisBarato"`
	MaisCaro                *model.Favorite `json:"maisCaro"`
	MaisNovo                *model.Favorite `json:"maisNovo"`
	MaisAntigo              *model.Favorite `json:"maisAntigo"`
	DiferencaPreco          float64         `json:"diferencaPreco"`
	DiferencaPrecoFormatada string          `json:"diferencaPrecoFormatada"`
	DiferencaAno            int             `json:"diferencaAno"`
}

// FavoriteComparison is the result of comparing favorites.
type FavoriteComparison struct {
	Veiculos []*model.Favorite  `json:"veiculos"`
	Analise  ComparisonAnalysis `json:"analise"`
}
