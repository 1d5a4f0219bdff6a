package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite is a vehicle saved by a user. The pair (UserID, CodigoFipe) is unique.
type Favorite struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"userId"`
	CodigoFipe  string             `bson:"codigo_fipe" json:"codigoFipe"`
	Marca       string             `bson:"marca" json:"marca"`
	Modelo      string             `bson:"modelo" json:"modelo"`
	AnoModelo   int                `bson:"ano_modelo" json:"anoModelo"`
	Valor       string             `bson:"valor" json:"valor"`
	Tipo        string             `bson:"tipo" json:"tipo"`
	Combustivel string             `bson:"combustivel,omitempty" json:"combustivel,omitempty"`
	Anotacoes   string             `bson:"anotacoes" json:"anotacoes"`
	Tags        []string           `bson:"tags" json:"tags"`
	CreatedAt   time.Time          `bson:"created_at" json:"adicionadoEm"`
	UpdatedAt   *time.Time         `bson:"updated_at,omitempty" json:"atualizadoEm,omitempty"`
}
