package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/guttosm/fipe-service/internal/domain/model"
	"github.com/guttosm/fipe-service/internal/fipe"
	"github.com/guttosm/fipe-service/internal/logger"
)

// HistoryRecorderConfig holds configuration for the history recorder.
type HistoryRecorderConfig struct {
	// BufferSize is the size of the pending item channel.
	BufferSize int
	// NumWorkers is the number of goroutines writing items.
	NumWorkers int
	// WriteTimeout bounds each write.
	WriteTimeout time.Duration
}

// DefaultHistoryRecorderConfig returns the default recorder configuration.
func DefaultHistoryRecorderConfig() HistoryRecorderConfig {
	return HistoryRecorderConfig{
		BufferSize:   500,
		NumWorkers:   2,
		WriteTimeout: 5 * time.Second,
	}
}

// HistoryRecorder turns lookup events into history items and writes them off the request path.
type HistoryRecorder struct {
	history      HistoryService
	itemCh       chan *model.HistoryItem
	stopCh       chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
	writeTimeout time.Duration

	recorded int64
	dropped  int64
	failed   int64
}

// NewHistoryRecorder starts the recorder workers.
func NewHistoryRecorder(history HistoryService, cfg HistoryRecorderConfig) *HistoryRecorder {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 500
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = 1
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}

	r := &HistoryRecorder{
		history:      history,
		itemCh:       make(chan *model.HistoryItem, cfg.BufferSize),
		stopCh:       make(chan struct{}),
		writeTimeout: cfg.WriteTimeout,
	}
	for i := 0; i < cfg.NumWorkers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	return r
}

// Record is a fipe.Subscriber. Events without a valid user are ignored.
func (r *HistoryRecorder) Record(_ context.Context, event fipe.LookupEvent) {
	item, ok := HistoryItemFromEvent(event)
	if !ok {
		return
	}

	select {
	case <-r.stopCh:
		atomic.AddInt64(&r.dropped, 1)
		return
	default:
	}

	select {
	case r.itemCh <- item:
	default:
		atomic.AddInt64(&r.dropped, 1)
	}
}

func (r *HistoryRecorder) worker() {
	defer r.wg.Done()
	for {
		select {
		case item := <-r.itemCh:
			r.write(item)
		case <-r.stopCh:
			for {
				select {
				case item := <-r.itemCh:
					r.write(item)
				default:
					return
				}
			}
		}
	}
}

func (r *HistoryRecorder) write(item *model.HistoryItem) {
	ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
	defer cancel()

	if err := r.history.Add(ctx, item); err != nil {
		atomic.AddInt64(&r.failed, 1)
		log := logger.Component("history")
		log.Warn().Err(err).Str("user_id", item.UserID.Hex()).Msg("Failed to record lookup")
		return
	}
	atomic.AddInt64(&r.recorded, 1)
}

// Stop drains pending items and waits for the workers. Safe to call more than once.
func (r *HistoryRecorder) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		r.wg.Wait()
	})
}

// Stats returns the recorder counters.
func (r *HistoryRecorder) Stats() (recorded, dropped, failed int64) {
	return atomic.LoadInt64(&r.recorded),
		atomic.LoadInt64(&r.dropped),
		atomic.LoadInt64(&r.failed)
}

// HistoryTypeFor maps a lookup operation to its history item type.
func HistoryTypeFor(op fipe.Operation) string {
	switch op {
	case fipe.OpPrice:
		return model.HistoryPriceLookup
	case fipe.OpBrands:
		return model.HistoryBrandLookup
	case fipe.OpModels, fipe.OpSearch:
		return model.HistoryModelLookup
	default:
		return model.HistoryGeneral
	}
}

// HistoryItemFromEvent builds the history item describing event.
func HistoryItemFromEvent(event fipe.LookupEvent) (*model.HistoryItem, bool) {
	userID, err := primitive.ObjectIDFromHex(strings.TrimSpace(event.Requester.UserID))
	if err != nil {
		return nil, false
	}

	q := event.Query
	detalhes := map[string]any{
		"operacao": string(q.Operation),
		"cached":   event.Cached,
	}
	if q.VehicleType != "" {
		detalhes["tipoVeiculo"] = q.VehicleType.String()
	}
	if q.BrandCode != "" {
		detalhes["codigoMarca"] = q.BrandCode
	}
	if q.TableID != "" {
		detalhes["tabelaReferencia"] = q.TableID
	}
	if event.Summary.Total > 0 {
		detalhes["total"] = event.Summary.Total
	}

	at := event.At
	if at.IsZero() {
		at = time.Now()
	}

	return &model.HistoryItem{
		UserID:       userID,
		Tipo:         HistoryTypeFor(q.Operation),
		Acao:         event.Requester.Method,
		URL:          event.Requester.Path,
		CodigoFipe:   q.FipeCode,
		Marca:        event.Summary.Marca,
		Modelo:       event.Summary.Modelo,
		AnoModelo:    event.Summary.AnoModelo,
		Valor:        event.Summary.Valor,
		Detalhes:     detalhes,
		UserAgent:    event.Requester.UserAgent,
		ConsultadoEm: at.UTC(),
	}, true
}
