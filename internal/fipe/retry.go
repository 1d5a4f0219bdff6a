package fipe

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/guttosm/fipe-service/internal/metrics"
	"github.com/rs/zerolog"
)

// RetryConfig holds the configuration for retry logic.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts, including the first request.
	MaxAttempts int
	// InitialBackoff is the wait before the first retry.
	InitialBackoff time.Duration
	// MaxBackoff caps the exponential growth.
	MaxBackoff time.Duration
	// BackoffMultiplier is the growth factor between retries.
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        5 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// errorClassOf returns the class of an upstream failure, or "" for other errors.
func errorClassOf(err error) ErrorClass {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr.Class
	}
	return ""
}

// retryWithBackoff runs fn until it succeeds, fails with a non-retryable
// class, or attempts run out. Waits honour ctx cancellation and carry ±20% jitter.
func retryWithBackoff(ctx context.Context, cfg RetryConfig, log zerolog.Logger, fn func() error) error {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := cfg.InitialBackoff

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			if attempt > 1 {
				log.Info().Int("attempt", attempt).Msg("Upstream request succeeded after retry")
			}
			return nil
		}
		lastErr = err

		class := errorClassOf(err)
		if !isRetryable(err) || ctx.Err() != nil || attempt == attempts {
			break
		}

		jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
		metrics.RecordUpstreamRetry(string(class), jitter)

		log.Debug().
			Str("error_class", string(class)).
			Int("attempt", attempt).
			Dur("backoff", jitter).
			Msg("Retrying upstream request after backoff")

		timer := time.NewTimer(jitter)
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}

		backoff = time.Duration(float64(backoff) * cfg.BackoffMultiplier)
		if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	return lastErr
}
