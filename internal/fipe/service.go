package fipe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/guttosm/fipe-service/internal/logger"
	"github.com/guttosm/fipe-service/internal/metrics"
	"github.com/guttosm/fipe-service/internal/service/cache"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// OpSearch identifies aggregated searches in lookup events. It is not cacheable.
const OpSearch Operation = "search"

// Config holds lookup pipeline settings.
type Config struct {
	CatalogTTL        time.Duration
	PriceTTL          time.Duration
	SearchConcurrency int
	MaxSearchResults  int
}

// DefaultConfig returns the default lookup settings.
func DefaultConfig() Config {
	return Config{
		CatalogTTL:        time.Hour,
		PriceTTL:          30 * time.Minute,
		SearchConcurrency: 8,
		MaxSearchResults:  100,
	}
}

// Subscriber receives lookup events. It must not block.
type Subscriber func(ctx context.Context, event LookupEvent)

// Service runs lookups through the cache, the upstream client and the enricher.
type Service struct {
	client   UpstreamClient
	cache    cache.CacheWithStats
	enricher *Enricher
	cfg      Config
	group    singleflight.Group
	log      zerolog.Logger

	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewService wires the lookup pipeline.
func NewService(client UpstreamClient, c cache.CacheWithStats, enricher *Enricher, cfg Config) *Service {
	if enricher == nil {
		enricher = NewEnricher()
	}
	defaults := DefaultConfig()
	if cfg.CatalogTTL <= 0 {
		cfg.CatalogTTL = defaults.CatalogTTL
	}
	if cfg.PriceTTL <= 0 {
		cfg.PriceTTL = defaults.PriceTTL
	}
	if cfg.SearchConcurrency <= 0 {
		cfg.SearchConcurrency = defaults.SearchConcurrency
	}
	if cfg.MaxSearchResults <= 0 {
		cfg.MaxSearchResults = defaults.MaxSearchResults
	}
	return &Service{
		client:   client,
		cache:    c,
		enricher: enricher,
		cfg:      cfg,
		log:      logger.Component("fipe-service"),
	}
}

// Subscribe registers fn to receive events of successful lookups made on behalf of a user.
func (s *Service) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Tables lists the reference tables.
func (s *Service) Tables(ctx context.Context) (Result[[]ReferenceTable], error) {
	q := TablesQuery()
	res, err := cachedLookup(ctx, s, q, s.cfg.CatalogTTL, func(ctx context.Context) ([]ReferenceTable, error) {
		return s.client.FetchTables(ctx)
	})
	if err != nil {
		return res, err
	}
	s.emit(ctx, q, res.Cached, LookupSummary{Total: len(res.Data)})
	return res, nil
}

// Brands lists the enriched brands of a vehicle type.
func (s *Service) Brands(ctx context.Context, vehicleType VehicleType, tableID string) (Result[[]EnrichedBrand], error) {
	q := BrandsQuery(vehicleType, tableID)
	res, err := s.brands(ctx, q)
	if err != nil {
		return res, err
	}
	s.emit(ctx, q, res.Cached, LookupSummary{Total: len(res.Data)})
	return res, nil
}

// Models lists the enriched models of a brand.
func (s *Service) Models(ctx context.Context, vehicleType VehicleType, brandCode, tableID string) (Result[[]EnrichedModel], error) {
	q := ModelsQuery(vehicleType, brandCode, tableID)
	res, err := s.models(ctx, q)
	if err != nil {
		return res, err
	}
	s.emit(ctx, q, res.Cached, LookupSummary{Total: len(res.Data)})
	return res, nil
}

// Price returns the enriched price of a FIPE code.
func (s *Service) Price(ctx context.Context, fipeCode, tableID string) (Result[EnrichedPrice], error) {
	q := PriceQuery(fipeCode, tableID)
	res, err := cachedLookup(ctx, s, q, s.cfg.PriceTTL, func(ctx context.Context) (EnrichedPrice, error) {
		record, err := s.client.FetchPrice(ctx, q.FipeCode, q.TableID)
		if err != nil {
			return EnrichedPrice{}, err
		}
		return s.enricher.EnrichPrice(record), nil
	})
	if err != nil {
		return res, err
	}
	s.emit(ctx, q, res.Cached, LookupSummary{
		Marca:     res.Data.Marca,
		Modelo:    res.Data.Modelo,
		AnoModelo: res.Data.AnoModelo,
		Valor:     res.Data.Valor,
		Total:     1,
	})
	return res, nil
}

// CacheStats reports the lookup cache state.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// ClearCache flushes the lookup cache.
func (s *Service) ClearCache() {
	s.cache.Clear()
	s.log.Info().Msg("Lookup cache cleared")
}

func (s *Service) brands(ctx context.Context, q LookupQuery) (Result[[]EnrichedBrand], error) {
	return cachedLookup(ctx, s, q, s.cfg.CatalogTTL, func(ctx context.Context) ([]EnrichedBrand, error) {
		brands, err := s.client.FetchBrands(ctx, q.VehicleType, q.TableID)
		if err != nil {
			return nil, err
		}
		return s.enricher.EnrichBrands(brands, q.VehicleType), nil
	})
}

func (s *Service) models(ctx context.Context, q LookupQuery) (Result[[]EnrichedModel], error) {
	return cachedLookup(ctx, s, q, s.cfg.CatalogTTL, func(ctx context.Context) ([]EnrichedModel, error) {
		models, err := s.client.FetchModels(ctx, q.VehicleType, q.BrandCode, q.TableID)
		if err != nil {
			return nil, err
		}
		return s.enricher.EnrichModels(models, q.VehicleType, q.BrandCode), nil
	})
}

// cachedLookup validates q, serves it from cache when live, and otherwise
// fetches, stores and returns it. Failures are never cached. Concurrent misses
// on the same key share one upstream call.
func cachedLookup[T any](ctx context.Context, s *Service, q LookupQuery, ttl time.Duration, fetch func(context.Context) (T, error)) (Result[T], error) {
	if err := q.Validate(); err != nil {
		return Result[T]{}, err
	}

	key := q.Key()
	if v, ok := s.cache.Get(key); ok {
		if data, ok := v.(T); ok {
			metrics.RecordLookup(string(q.Operation), true)
			return Result[T]{Data: data, Cached: true}, nil
		}
		s.cache.Invalidate(key)
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		data, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, data, ttl)
		return data, nil
	})
	if err != nil {
		return Result[T]{}, err
	}

	data, ok := v.(T)
	if !ok {
		return Result[T]{}, fmt.Errorf("unexpected cached type %T for %s", v, key)
	}
	metrics.RecordLookup(string(q.Operation), false)
	return Result[T]{Data: data, Cached: false}, nil
}

// emit notifies subscribers when the lookup was made on behalf of a known user.
func (s *Service) emit(ctx context.Context, q LookupQuery, cached bool, summary LookupSummary) {
	requester, ok := RequesterFromContext(ctx)
	if !ok || requester.UserID == "" {
		return
	}

	s.mu.RLock()
	subscribers := s.subscribers
	s.mu.RUnlock()
	if len(subscribers) == 0 {
		return
	}

	event := LookupEvent{
		Query:     q,
		Cached:    cached,
		Requester: requester,
		At:        time.Now().UTC(),
		Summary:   summary,
	}
	for _, fn := range subscribers {
		fn(ctx, event)
	}
}

type requesterKey struct{}

// WithRequester attaches the identity of the caller to ctx.
func WithRequester(ctx context.Context, r Requester) context.Context {
	return context.WithValue(ctx, requesterKey{}, r)
}

// RequesterFromContext returns the caller attached by WithRequester.
func RequesterFromContext(ctx context.Context) (Requester, bool) {
	r, ok := ctx.Value(requesterKey{}).(Requester)
	return r, ok
}
