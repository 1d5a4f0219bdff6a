package fipe

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Price brackets.
const (
	BracketEconomy      = "Econômico"
	BracketIntermediate = "Intermediário"
	BracketPremium      = "Premium"
	BracketLuxury       = "Luxo"
	BracketSuperLuxury  = "Super Luxo"
)

// dateLayout is the pt-BR short date.
const dateLayout = "02/01/2006"

var brlPrinter = message.NewPrinter(language.BrazilianPortuguese)

// Enricher turns raw upstream payloads into presentation shapes. It performs
// no I/O; the clock is only read for price enrichment.
type Enricher struct {
	Now func() time.Time
}

// NewEnricher creates an Enricher using the wall clock.
func NewEnricher() *Enricher {
	return &Enricher{Now: time.Now}
}

// EnrichBrands tags each brand with the vehicle type and the list size.
func (e *Enricher) EnrichBrands(brands []Brand, vehicleType VehicleType) []EnrichedBrand {
	out := make([]EnrichedBrand, len(brands))
	for i, b := range brands {
		out[i] = EnrichedBrand{
			Brand:       b,
			TipoVeiculo: vehicleType,
			TotalMarcas: len(brands),
		}
	}
	return out
}

// EnrichModels tags each model with the vehicle type, brand code and its 1-based position.
func (e *Enricher) EnrichModels(models []Model, vehicleType VehicleType, brandCode string) []EnrichedModel {
	out := make([]EnrichedModel, len(models))
	for i, m := range models {
		out[i] = EnrichedModel{
			Model:       m,
			TipoVeiculo: vehicleType,
			CodigoMarca: brandCode,
			Indice:      i + 1,
		}
	}
	return out
}

// EnrichPrice derives the numeric value, bracket, vehicle age and consultation date.
func (e *Enricher) EnrichPrice(record PriceRecord) EnrichedPrice {
	now := time.Now()
	if e != nil && e.Now != nil {
		now = e.Now()
	}
	value := ParseCurrency(record.Valor)
	return EnrichedPrice{
		PriceRecord:           record,
		ValorNumerico:         value,
		DataConsultaFormatada: now.Format(dateLayout),
		IdadeVeiculo:          now.Year() - record.AnoModelo,
		CategoriaPreco:        PriceBracket(value),
	}
}

// ParseCurrency parses a pt-BR currency string such as "R$ 150.000,50".
// Unparseable input yields 0; the result is never negative.
func ParseCurrency(s string) float64 {
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '.' {
			return -1
		}
		return r
	}, s)
	s = strings.Replace(s, ",", ".", 1)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// PriceBracket classifies a value. Upper bounds are exclusive.
func PriceBracket(value float64) string {
	switch {
	case value < 20000:
		return BracketEconomy
	case value < 50000:
		return BracketIntermediate
	case value < 100000:
		return BracketPremium
	case value < 200000:
		return BracketLuxury
	default:
		return BracketSuperLuxury
	}
}

// FormatCurrency renders a value the way the upstream formats prices, e.g. "R$ 6.022,00".
func FormatCurrency(value float64) string {
	return brlPrinter.Sprintf("R$ %.2f", value)
}
