// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs decouple the HTTP layer from the domain model, providing validation
// and serialization for API communication.
package dto

import (
	"strconv"
	"strings"
)

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PageQuery is the common pagination query string.
type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Normalize clamps the page to at least 1 and the limit to (0, maxLimit],
// falling back to defaultLimit when unset.
func (q *PageQuery) Normalize(defaultLimit, maxLimit int) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
}

// Offset returns the number of items preceding the page.
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ParsePositiveInt parses s as an integer >= 1, returning fallback when it is empty or invalid.
func ParsePositiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
