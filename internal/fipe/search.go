package fipe

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/guttosm/fipe-service/internal/metrics"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MinSearchQueryLength is the shortest accepted search query, in characters.
const MinSearchQueryLength = 3

// AllTypesLabel is reported as the type of searches spanning every vehicle type.
const AllTypesLabel = "todos"

// Fold lowercases s and strips diacritics so "Caminhão" matches "caminhao".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// brandModels is the outcome of listing one brand during a search.
type brandModels struct {
	vehicleType VehicleType
	brand       EnrichedBrand
	models      []EnrichedModel
	err         error
}

// Search finds models whose name contains query across the brands of one
// vehicle type, or of all types when vehicleType is empty. Failing types and
// brands are skipped and counted; results are ordered by type, brand name and
// model name.
func (s *Service) Search(ctx context.Context, query string, vehicleType VehicleType) (SearchResponse, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSearchQueryLength {
		return SearchResponse{}, ErrQueryTooShort
	}

	types := AllVehicleTypes
	label := AllTypesLabel
	if vehicleType != "" {
		if !vehicleType.Valid() {
			return SearchResponse{}, ErrInvalidVehicleType
		}
		types = []VehicleType{vehicleType}
		label = vehicleType.String()
	}

	start := time.Now()
	needle := Fold(query)

	// Phase 1: brands per type.
	brandLists := make([][]EnrichedBrand, len(types))
	brandErrs := make([]error, len(types))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.SearchConcurrency)
	for i, t := range types {
		g.Go(func() error {
			res, err := s.brands(gctx, BrandsQuery(t, ""))
			if err != nil {
				brandErrs[i] = err
				return nil
			}
			brandLists[i] = res.Data
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return SearchResponse{}, callerGaveUp(ctx, OpSearch, err)
	}

	skippedTypes := 0
	var jobs []*brandModels
	for i, t := range types {
		if brandErrs[i] != nil {
			skippedTypes++
			s.log.Warn().Err(brandErrs[i]).Str("tipo", t.String()).Msg("Skipping vehicle type in search")
			continue
		}
		for _, b := range brandLists[i] {
			jobs = append(jobs, &brandModels{vehicleType: t, brand: b})
		}
	}

	// Phase 2: models per brand.
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.SearchConcurrency)
	for _, job := range jobs {
		g.Go(func() error {
			res, err := s.models(gctx, ModelsQuery(job.vehicleType, job.brand.Valor, ""))
			if err != nil {
				job.err = err
				return nil
			}
			job.models = res.Data
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return SearchResponse{}, callerGaveUp(ctx, OpSearch, err)
	}

	skippedBrands := 0
	results := make([]SearchResult, 0)
	for _, job := range jobs {
		if job.err != nil {
			skippedBrands++
			s.log.Warn().
				Err(job.err).
				Str("tipo", job.vehicleType.String()).
				Str("marca", job.brand.Nome).
				Msg("Skipping brand in search")
			continue
		}
		for _, m := range job.models {
			if !strings.Contains(Fold(m.Modelo), needle) {
				continue
			}
			results = append(results, SearchResult{
				Model:       m.Model,
				TipoVeiculo: job.vehicleType,
				Marca:       job.brand.Nome,
				CodigoMarca: job.brand.Valor,
			})
		}
	}

	sortResults(results)

	total := len(results)
	truncated := false
	if total > s.cfg.MaxSearchResults {
		results = results[:s.cfg.MaxSearchResults]
		truncated = true
	}

	metrics.RecordSearch(time.Since(start), skippedTypes, skippedBrands)
	s.log.Debug().
		Str("query", query).
		Str("tipo", label).
		Int("total", total).
		Int("skipped_types", skippedTypes).
		Int("skipped_brands", skippedBrands).
		Dur("duration", time.Since(start)).
		Msg("Search completed")

	s.emit(ctx, LookupQuery{Operation: OpSearch, VehicleType: vehicleType}, false, LookupSummary{Modelo: query, Total: total})

	return SearchResponse{
		Query:         query,
		Tipo:          label,
		Results:       results,
		Total:         total,
		Truncated:     truncated,
		SkippedTypes:  skippedTypes,
		SkippedBrands: skippedBrands,
	}, nil
}

// sortResults orders by vehicle type, then brand and model name under pt-BR collation.
func sortResults(results []SearchResult) {
	c := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if oa, ob := a.TipoVeiculo.order(), b.TipoVeiculo.order(); oa != ob {
			return oa < ob
		}
		if cmp := c.CompareString(a.Marca, b.Marca); cmp != 0 {
			return cmp < 0
		}
		if a.CodigoMarca != b.CodigoMarca {
			return a.CodigoMarca < b.CodigoMarca
		}
		if cmp := c.CompareString(a.Modelo, b.Modelo); cmp != 0 {
			return cmp < 0
		}
		return a.Codigo < b.Codigo
	})
}
