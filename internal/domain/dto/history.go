package dto

import (
	"strings"
	"time"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HistoryTypes lists the accepted history item types.
var HistoryTypes = []string{
	model.HistoryPriceLookup,
	model.HistoryBrandLookup,
	model.HistoryModelLookup,
	model.HistoryGeneral,
}

// ValidHistoryType reports whether t is an accepted history item type.
func ValidHistoryType(t string) bool {
	for _, v := range HistoryTypes {
		if v == t {
			return true
		}
	}
	return false
}

// CreateHistoryRequest is the body of POST /api/history.
//
// @Description Consultation to record in the user's history
type CreateHistoryRequest struct {
	Tipo       string         `json:"tipo" binding:"required" example:"consulta_preco"`
	Acao       string         `json:"acao,omitempty" example:"GET"`
	CodigoFipe string         `json:"codigoFipe,omitempty" example:"001004-9"`
	Marca      string         `json:"marca,omitempty" example:"Fiat"`
	Modelo     string         `json:"modelo,omitempty" example:"Palio 1.0"`
	AnoModelo  int            `json:"anoModelo,omitempty" example:"2014"`
	Valor      string         `json:"valor,omitempty" example:"R$ 26.000,00"`
	Detalhes   map[string]any `json:"detalhes,omitempty" swaggertype:"object"`
} // @name CreateHistoryRequest

// Validate checks the item type.
func (r *CreateHistoryRequest) Validate() error {
	r.Tipo = strings.TrimSpace(r.Tipo)
	if !ValidHistoryType(r.Tipo) {
		return invalid("tipo", "must be one of "+strings.Join(HistoryTypes, ", "))
	}
	return nil
}

// ToModel builds the history item owned by userID.
func (r *CreateHistoryRequest) ToModel(userID primitive.ObjectID, userAgent string) *model.HistoryItem {
	detalhes := r.Detalhes
	if detalhes == nil {
		detalhes = map[string]any{}
	}
	return &model.HistoryItem{
		UserID:     userID,
		Tipo:       r.Tipo,
		Acao:       r.Acao,
		CodigoFipe: r.CodigoFipe,
		Marca:      r.Marca,
		Modelo:     r.Modelo,
		AnoModelo:  r.AnoModelo,
		Valor:      r.Valor,
		Detalhes:   detalhes,
		UserAgent:  userAgent,
	}
}

// HistoryListQuery is the query string of GET /api/history.
type HistoryListQuery struct {
	PageQuery
	Tipo  string `form:"tipo"`
	Marca string `form:"marca"`
}

// BrandCount is a brand and how often it was consulted.
type BrandCount struct {
	Marca string `json:"marca"`
	Count int    `json:"count"`
}

// TypeCount is a history type and how often it occurred.
type TypeCount struct {
	Tipo  string `json:"tipo"`
	Count int    `json:"count"`
}

// HistoryStats summarises a user's history.
type HistoryStats struct {
	Total                 int                `json:"total"`
	UltimaConsulta        *model.HistoryItem `json:"ultimaConsulta"`
	PrimeiraConsulta      *model.HistoryItem `json:"primeiraConsulta"`
	ConsultasPorTipo      map[string]int     `json:"consultasPorTipo"`
	ConsultasPorMarca     map[string]int     `json:"consultasPorMarca"`
	ConsultasPorDia       map[string]int     `json:"consultasPorDia"`
	MarcasMaisConsultadas []BrandCount       `json:"marcasMaisConsultadas"`
	TiposMaisConsultados  []TypeCount        `json:"tiposMaisConsultados"`
}

// Suggestions are distinct brands and models taken from recent history.
type Suggestions struct {
	Marcas  []string `json:"marcas"`
	Modelos []string `json:"modelos"`
}

// RecentHistory is the response of GET /api/history/recent.
type RecentHistory struct {
	Consultas []*model.HistoryItem `json:"consultas"`
	Sugestoes Suggestions          `json:"sugestoes"`
}

// HistoryExport is the downloadable history document.
type HistoryExport struct {
	Usuario        string               `json:"usuario"`
	ExportadoEm    time.Time            `json:"exportadoEm"`
	TotalConsultas int                  `json:"totalConsultas"`
	Historico      []*model.HistoryItem `json:"historico"`
}

// ClearHistoryResponse reports how many items were removed.
type ClearHistoryResponse struct {
	RemovedCount int64 `json:"removedCount"`
}
