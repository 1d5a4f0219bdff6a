package dto

import (
	"testing"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateHistoryRequest_Validate(t *testing.T) {
	for _, tipo := range HistoryTypes {
		req := CreateHistoryRequest{Tipo: tipo}
		assert.NoError(t, req.Validate(), tipo)
	}

	assert.Error(t, (&CreateHistoryRequest{Tipo: "compra"}).Validate())
	assert.Error(t, (&CreateHistoryRequest{}).Validate())
}

func TestCreateHistoryRequest_ToModel(t *testing.T) {
	userID := primitive.NewObjectID()
	req := CreateHistoryRequest{Tipo: model.HistoryPriceLookup, Marca: "Fiat", CodigoFipe: "001004-9"}

	item := req.ToModel(userID, "curl/8.0")

	assert.Equal(t, userID, item.UserID)
	assert.Equal(t, model.HistoryPriceLookup, item.Tipo)
	assert.Equal(t, "curl/8.0", item.UserAgent)
	assert.NotNil(t, item.Detalhes)
}
