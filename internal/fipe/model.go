package fipe

import "time"

// ReferenceTable is a monthly FIPE price table.
type ReferenceTable struct {
	Codigo int    `json:"codigo"`
	Mes    string `json:"mes"`
}

// Brand is a vehicle manufacturer as listed upstream.
type Brand struct {
	Nome  string `json:"nome"`
	Valor string `json:"valor"`
}

// Model is a vehicle model as listed upstream.
type Model struct {
	Modelo string `json:"modelo"`
	Codigo string `json:"codigo,omitempty"`
}

// PriceRecord is the raw price of a vehicle for one reference month.
type PriceRecord struct {
	Valor            string `json:"valor"`
	Marca            string `json:"marca"`
	Modelo           string `json:"modelo"`
	AnoModelo        int    `json:"anoModelo"`
	Combustivel      string `json:"combustivel"`
	CodigoFipe       string `json:"codigoFipe"`
	MesReferencia    string `json:"mesReferencia"`
	TipoVeiculo      int    `json:"tipoVeiculo"`
	SiglaCombustivel string `json:"siglaCombustivel"`
	DataConsulta     string `json:"dataConsulta"`
}

// EnrichedBrand is a Brand tagged for presentation.
type EnrichedBrand struct {
	Brand
	TipoVeiculo VehicleType `json:"tipo_veiculo"`
	TotalMarcas int         `json:"total_marcas"`
}

// EnrichedModel is a Model tagged with its type, brand and 1-based position.
type EnrichedModel struct {
	Model
	TipoVeiculo VehicleType `json:"tipo_veiculo"`
	CodigoMarca string      `json:"codigo_marca"`
	Indice      int         `json:"indice"`
}

// EnrichedPrice is a PriceRecord with derived numeric and descriptive fields.
type EnrichedPrice struct {
	PriceRecord
	ValorNumerico         float64 `json:"valor_numerico"`
	DataConsultaFormatada string  `json:"data_consulta_formatada"`
	IdadeVeiculo          int     `json:"idade_veiculo"`
	CategoriaPreco        string  `json:"categoria_preco"`
}

// SearchResult is a model matched by a search, tagged with its origin.
type SearchResult struct {
	Model
	TipoVeiculo VehicleType `json:"tipo_veiculo"`
	Marca       string      `json:"marca"`
	CodigoMarca string      `json:"codigo_marca"`
}

// SearchResponse holds the outcome of a search.
type SearchResponse struct {
	Query         string         `json:"query"`
	Tipo          string         `json:"tipo"`
	Results       []SearchResult `json:"results"`
	Total         int            `json:"total"`
	Truncated     bool           `json:"truncated"`
	SkippedTypes  int            `json:"skipped_types"`
	SkippedBrands int            `json:"skipped_brands"`
}

// Result wraps the data produced by a lookup and whether it came from cache.
type Result[T any] struct {
	Data   T
	Cached bool
}

// LookupEvent is emitted after every successful lookup made on behalf of a user.
type LookupEvent struct {
	Query     LookupQuery
	Cached    bool
	Requester Requester
	At        time.Time
	Summary   LookupSummary
}

// LookupSummary carries the vehicle fields known after a lookup.
type LookupSummary struct {
	Marca     string
	Modelo    string
	AnoModelo int
	Valor     string
	Total     int
}

// Requester identifies who triggered a lookup.
type Requester struct {
	UserID    string
	Path      string
	Method    string
	IP        string
	UserAgent string
}
