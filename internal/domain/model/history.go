package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// History item types.
const (
	HistoryPriceLookup = "consulta_preco"
	HistoryBrandLookup = "busca_marca"
	HistoryModelLookup = "busca_veiculo"
	HistoryGeneral     = "consulta_geral"
)

// HistoryItem records one consultation made by a user.
type HistoryItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"userId"`
	Tipo         string             `bson:"tipo" json:"tipo"`
	Acao         string             `bson:"acao,omitempty" json:"acao,omitempty"`
	URL          string             `bson:"url,omitempty" json:"url,omitempty"`
	CodigoFipe   string             `bson:"codigo_fipe,omitempty" json:"codigoFipe,omitempty"`
	Marca        string             `bson:"marca,omitempty" json:"marca,omitempty"`
	Modelo       string             `bson:"modelo,omitempty" json:"modelo,omitempty"`
	AnoModelo    int                `bson:"ano_modelo,omitempty" json:"anoModelo,omitempty"`
	Valor        string             `bson:"valor,omitempty" json:"valor,omitempty"`
	Detalhes     map[string]any     `bson:"detalhes,omitempty" json:"detalhes"`
	UserAgent    string             `bson:"user_agent,omitempty" json:"userAgent,omitempty"`
	ConsultadoEm time.Time          `bson:"consultado_em" json:"consultadoEm"`
}

// HistoryFilter selects a page of a user's history. Zero values match everything.
type HistoryFilter struct {
	Tipo  string
	Marca string
	Skip  int
	Limit int
}
