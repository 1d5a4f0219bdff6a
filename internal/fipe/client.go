package fipe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/guttosm/fipe-service/internal/circuitbreaker"
	"github.com/guttosm/fipe-service/internal/logger"
	"github.com/guttosm/fipe-service/internal/metrics"
	"github.com/rs/zerolog"
)

// maxResponseBytes bounds how much of an upstream body is read.
const maxResponseBytes = 10 << 20

// UpstreamClient fetches raw data from the pricing service.
type UpstreamClient interface {
	FetchTables(ctx context.Context) ([]ReferenceTable, error)
	FetchBrands(ctx context.Context, vehicleType VehicleType, tableID string) ([]Brand, error)
	FetchModels(ctx context.Context, vehicleType VehicleType, brandCode, tableID string) ([]Model, error)
	FetchPrice(ctx context.Context, fipeCode, tableID string) (PriceRecord, error)
}

// ClientConfig configures the HTTP upstream client.
type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Retry     RetryConfig
}

// HTTPClient is the UpstreamClient backed by the BrasilAPI FIPE endpoints.
type HTTPClient struct {
	baseURL   string
	timeout   time.Duration
	userAgent string
	retry     RetryConfig
	http      *http.Client
	breaker   *circuitbreaker.CircuitBreaker
	log       zerolog.Logger
}

// NewHTTPClient creates an upstream client. A nil breaker disables circuit breaking.
func NewHTTPClient(cfg ClientConfig, httpClient *http.Client, breaker *circuitbreaker.CircuitBreaker) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        50,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &HTTPClient{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		timeout:   cfg.Timeout,
		userAgent: cfg.UserAgent,
		retry:     cfg.Retry,
		http:      httpClient,
		breaker:   breaker,
		log:       logger.Component("fipe-client"),
	}
}

// IsUpstreamFailure reports whether err should count against the upstream
// circuit. Calls abandoned by the caller do not.
func IsUpstreamFailure(err error) bool {
	return errors.Is(err, ErrUpstreamUnavailable) && errorClassOf(err) != ErrorClassCanceled
}

// FetchTables returns the reference tables in upstream order.
func (c *HTTPClient) FetchTables(ctx context.Context) ([]ReferenceTable, error) {
	var tables []ReferenceTable
	err := c.get(ctx, OpTables, "/tabelas/v1", "", ErrInvalidReferenceTable, func(body []byte) error {
		return json.Unmarshal(body, &tables)
	})
	if err != nil {
		return nil, err
	}
	return tables, nil
}

// FetchBrands returns the brands of a vehicle type.
func (c *HTTPClient) FetchBrands(ctx context.Context, vehicleType VehicleType, tableID string) ([]Brand, error) {
	if err := BrandsQuery(vehicleType, tableID).Validate(); err != nil {
		return nil, err
	}

	var brands []Brand
	path := "/marcas/v1/" + url.PathEscape(vehicleType.String())
	err := c.get(ctx, OpBrands, path, tableID, ErrInvalidVehicleType, func(body []byte) error {
		return json.Unmarshal(body, &brands)
	})
	if err != nil {
		return nil, err
	}
	return brands, nil
}

// FetchModels returns the models of a brand.
func (c *HTTPClient) FetchModels(ctx context.Context, vehicleType VehicleType, brandCode, tableID string) ([]Model, error) {
	if err := ModelsQuery(vehicleType, brandCode, tableID).Validate(); err != nil {
		return nil, err
	}

	var models []Model
	path := "/veiculos/v1/" + url.PathEscape(vehicleType.String()) + "/" + url.PathEscape(brandCode)
	err := c.get(ctx, OpModels, path, tableID, ErrInvalidBrandCode, func(body []byte) error {
		return json.Unmarshal(body, &models)
	})
	if err != nil {
		return nil, err
	}
	return models, nil
}

// FetchPrice returns the price of a FIPE code. Codes shorter than
// MinFipeCodeLength fail with ErrInvalidCode without touching the network.
func (c *HTTPClient) FetchPrice(ctx context.Context, fipeCode, tableID string) (PriceRecord, error) {
	if err := PriceQuery(fipeCode, tableID).Validate(); err != nil {
		return PriceRecord{}, err
	}

	var record PriceRecord
	path := "/preco/v1/" + url.PathEscape(fipeCode)
	err := c.get(ctx, OpPrice, path, tableID, ErrInvalidCode, func(body []byte) error {
		r, err := decodePrice(body)
		record = r
		return err
	})
	if err != nil {
		return PriceRecord{}, err
	}
	return record, nil
}

// decodePrice accepts either a single record or an array of records and keeps the first.
func decodePrice(body []byte) (PriceRecord, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []PriceRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return PriceRecord{}, err
		}
		if len(records) == 0 {
			return PriceRecord{}, errEmptyPrice
		}
		return records[0], nil
	}

	var record PriceRecord
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return PriceRecord{}, err
	}
	return record, nil
}

var errEmptyPrice = errors.New("no price for code")

// get performs a GET with retry and circuit breaking, then decodes the body.
// clientErr is wrapped into client-class failures so callers can match it.
func (c *HTTPClient) get(ctx context.Context, op Operation, path, tableID string, clientErr error, decode func([]byte) error) error {
	endpoint := c.baseURL + path
	if tableID != "" {
		endpoint += "?" + url.Values{"tabela_referencia": []string{tableID}}.Encode()
	}

	start := time.Now()
	call := func() error {
		err := retryWithBackoff(ctx, c.retry, c.log.With().Str("operation", string(op)).Logger(), func() error {
			body, err := c.do(ctx, op, endpoint, clientErr)
			if err != nil {
				return err
			}
			if err := decode(body); err != nil {
				if errors.Is(err, errEmptyPrice) {
					return &UpstreamError{Op: op, Class: ErrorClassClient, StatusCode: http.StatusOK, Err: fmt.Errorf("%w: %v", clientErr, err)}
				}
				return &UpstreamError{Op: op, Class: ErrorClassDecode, Err: err}
			}
			return nil
		})
		return callerGaveUp(ctx, op, err)
	}

	var err error
	if c.breaker != nil {
		err = c.breaker.Execute(ctx, call)
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			err = &UpstreamError{Op: op, Class: ErrorClassCircuitOpen, Err: err}
		}
	} else {
		err = call()
	}
	err = callerGaveUp(ctx, op, err)

	result := "success"
	if err != nil {
		result = string(errorClassOf(err))
		if result == "" {
			result = "error"
		}
		event := c.log.Warn()
		if IsUpstreamFailure(err) {
			event = c.log.Error()
		}
		event.Err(err).
			Str("operation", string(op)).
			Str("url", endpoint).
			Dur("duration", time.Since(start)).
			Msg("Upstream request failed")
	}
	metrics.RecordUpstreamRequest(string(op), result, time.Since(start))
	return err
}

// do performs one HTTP attempt bounded by the client timeout.
func (c *HTTPClient) do(ctx context.Context, op Operation, endpoint string, clientErr error) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &UpstreamError{Op: op, Class: ErrorClassNetwork, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &UpstreamError{Op: op, Class: ErrorClassNetwork, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &UpstreamError{Op: op, Class: ErrorClassNetwork, StatusCode: resp.StatusCode, Err: err}
	}

	if class := classifyStatus(resp.StatusCode); class != "" {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		detail := errors.New(msg)
		if class == ErrorClassClient {
			detail = fmt.Errorf("%w: %s", clientErr, msg)
		}
		return nil, &UpstreamError{Op: op, Class: class, StatusCode: resp.StatusCode, Err: detail}
	}

	return body, nil
}

// classifyStatus maps an HTTP status to an error class; "" means success.
// Only 400 blames the caller's input; any other failure, 404 included, is the
// upstream being unable to answer.
func classifyStatus(status int) ErrorClass {
	switch {
	case status >= 200 && status < 300:
		return ""
	case status == http.StatusBadRequest:
		return ErrorClassClient
	default:
		return ErrorClassServer
	}
}
