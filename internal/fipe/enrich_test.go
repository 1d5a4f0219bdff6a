package fipe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPriceBracket(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{value: 0, want: BracketEconomy},
		{value: 19999.99, want: BracketEconomy},
		{value: 20000, want: BracketIntermediate},
		{value: 49999.99, want: BracketIntermediate},
		{value: 50000, want: BracketPremium},
		{value: 99999.99, want: BracketPremium},
		{value: 100000, want: BracketLuxury},
		{value: 199999.99, want: BracketLuxury},
		{value: 200000, want: BracketSuperLuxury},
		{value: 1500000, want: BracketSuperLuxury},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, PriceBracket(tt.value), "value %.2f", tt.value)
		})
	}
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{input: "R$ 6.022,00", want: 6022.00},
		{input: "R$ 150.000,50", want: 150000.50},
		{input: "R$ 1.234.567,89", want: 1234567.89},
		{input: "R$ 999,99", want: 999.99},
		{input: "12500", want: 12500},
		{input: "", want: 0},
		{input: "consulte", want: 0},
		{input: "R$ -10,00", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseCurrency(tt.input), 0.001)
		})
	}
}

func TestFormatCurrency(t *testing.T) {
	for _, v := range []float64{6022, 150000.5, 0.99} {
		assert.InDelta(t, v, ParseCurrency(FormatCurrency(v)), 0.001)
	}
}

func TestEnricher_EnrichPrice(t *testing.T) {
	e := &Enricher{Now: func() time.Time {
		return time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
	}}

	got := e.EnrichPrice(PriceRecord{
		Valor:      "R$ 45.300,00",
		Marca:      "Fiat",
		Modelo:     "Palio 1.0",
		AnoModelo:  2015,
		CodigoFipe: "001004-9",
	})

	assert.Equal(t, "Fiat", got.Marca)
	assert.InDelta(t, 45300.0, got.ValorNumerico, 0.001)
	assert.Equal(t, "09/03/2024", got.DataConsultaFormatada)
	assert.Equal(t, 9, got.IdadeVeiculo)
	assert.Equal(t, BracketIntermediate, got.CategoriaPreco)
}

func TestEnricher_EnrichBrands(t *testing.T) {
	e := NewEnricher()

	got := e.EnrichBrands([]Brand{{Nome: "Fiat", Valor: "21"}, {Nome: "Honda", Valor: "25"}}, Car)

	assert.Len(t, got, 2)
	for _, b := range got {
		assert.Equal(t, Car, b.TipoVeiculo)
		assert.Equal(t, 2, b.TotalMarcas)
	}
	assert.Equal(t, "Honda", got[1].Nome)
}

func TestEnricher_EnrichModels(t *testing.T) {
	e := NewEnricher()

	got := e.EnrichModels([]Model{{Modelo: "Palio 1.0"}, {Modelo: "Uno Mille"}, {Modelo: "Strada"}}, Car, "21")

	assert.Len(t, got, 3)
	for i, m := range got {
		assert.Equal(t, i+1, m.Indice)
		assert.Equal(t, "21", m.CodigoMarca)
		assert.Equal(t, Car, m.TipoVeiculo)
	}
}

func TestEnricher_EmptyInput(t *testing.T) {
	e := NewEnricher()

	assert.Empty(t, e.EnrichBrands(nil, Car))
	assert.Empty(t, e.EnrichModels(nil, Car, "21"))
}
