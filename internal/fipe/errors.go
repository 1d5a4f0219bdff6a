package fipe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Validation errors. They are raised before any upstream I/O.
var (
	ErrInvalidVehicleType    = errors.New("invalid vehicle type")
	ErrInvalidCode           = errors.New("invalid FIPE code")
	ErrInvalidBrandCode      = errors.New("invalid brand code")
	ErrInvalidReferenceTable = errors.New("invalid reference table")
	ErrQueryTooShort         = errors.New("search query too short")
	ErrUnknownOperation      = errors.New("unknown lookup operation")
)

// ErrUpstreamUnavailable is matched by every failure of the pricing service
// that is not the caller's fault.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// ErrorClass categorizes upstream failures.
type ErrorClass string

// Error classes.
const (
	ErrorClassClient      ErrorClass = "client"
	ErrorClassServer      ErrorClass = "server"
	ErrorClassNetwork     ErrorClass = "network"
	ErrorClassDecode      ErrorClass = "decode"
	ErrorClassCircuitOpen ErrorClass = "circuit_open"
	// ErrorClassCanceled marks a call abandoned because the caller's context
	// ended. It never counts against the upstream circuit.
	ErrorClassCanceled ErrorClass = "canceled"
)

// UpstreamError describes a failed call to the pricing service.
type UpstreamError struct {
	Op         Operation
	Class      ErrorClass
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fipe %s %s error (status %d): %v", e.Op, e.Class, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fipe %s %s error: %v", e.Op, e.Class, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrUpstreamUnavailable) match non-client failures.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable && e.Class != ErrorClassClient
}

// IsClientError reports whether err was caused by the caller's input.
func IsClientError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidVehicleType),
		errors.Is(err, ErrInvalidCode),
		errors.Is(err, ErrInvalidBrandCode),
		errors.Is(err, ErrInvalidReferenceTable),
		errors.Is(err, ErrQueryTooShort):
		return true
	}
	var upErr *UpstreamError
	return errors.As(err, &upErr) && upErr.Class == ErrorClassClient
}

// isRetryable reports whether a failed attempt may succeed when repeated:
// transport failures, 5xx, 408 and 429. Other statuses are final.
func isRetryable(err error) bool {
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		return false
	}
	switch upErr.Class {
	case ErrorClassNetwork:
		return true
	case ErrorClassServer:
		return upErr.StatusCode == 0 ||
			upErr.StatusCode >= http.StatusInternalServerError ||
			upErr.StatusCode == http.StatusRequestTimeout ||
			upErr.StatusCode == http.StatusTooManyRequests
	default:
		return false
	}
}

// callerGaveUp rewrites err as a canceled-class failure when ctx has ended,
// so the caller's own deadline or disconnect is not blamed on the upstream.
func callerGaveUp(ctx context.Context, op Operation, err error) error {
	if err == nil || ctx.Err() == nil || errorClassOf(err) == ErrorClassCanceled {
		return err
	}
	return &UpstreamError{Op: op, Class: ErrorClassCanceled, Err: fmt.Errorf("%w: %v", ctx.Err(), err)}
}
