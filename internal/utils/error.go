package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jakeswenson/bear-query/internal/database"
	"github.com/jakeswenson/bear-query/internal/schema"
	"github.com/jakeswenson/bear-query/internal/table"
)

// Error codes with HTTP status mapping
const (
	// General errors
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeValidationFailed  = "VALIDATION_ERROR"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"

	// Store errors
	ErrCodeSchemaDiscovery = "SCHEMA_DISCOVERY_FAILED"
	ErrCodeQueryFailed     = "QUERY_FAILED"
	ErrCodeTabulateFailed  = "TABULATE_FAILED"
	ErrCodeQueryRejected   = "QUERY_REJECTED"
	ErrCodeQueryTimeout    = "QUERY_TIMEOUT"
)

// HTTPStatus maps error codes to HTTP status codes
var HTTPStatus = map[string]int{
	ErrCodeInvalidRequest:    http.StatusBadRequest,
	ErrCodeValidationFailed:  http.StatusUnprocessableEntity,
	ErrCodeUnauthorized:      http.StatusUnauthorized,
	ErrCodeForbidden:         http.StatusForbidden,
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeInternalError:     http.StatusInternalServerError,
	ErrCodeRateLimitExceeded: http.StatusTooManyRequests,

	ErrCodeSchemaDiscovery: http.StatusServiceUnavailable,
	ErrCodeQueryFailed:     http.StatusBadRequest,
	ErrCodeTabulateFailed:  http.StatusInternalServerError,
	ErrCodeQueryRejected:   http.StatusForbidden,
	ErrCodeQueryTimeout:    http.StatusRequestTimeout,
}

// AppError represents an application error with additional context
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates an AppError with the given code and message.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// FromError classifies an error into an AppError. The three store error
// kinds keep their identity so callers can branch on code.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var discoveryErr *schema.DiscoveryError
	if errors.As(err, &discoveryErr) {
		return &AppError{
			Code:    ErrCodeSchemaDiscovery,
			Message: "Failed to discover the store's schema",
			Details: discoveryErr.Error(),
			Cause:   err,
		}
	}

	var queryErr *database.QueryError
	if errors.As(err, &queryErr) {
		return &AppError{
			Code:    ErrCodeQueryFailed,
			Message: "Query failed to compile or execute",
			Details: queryErr.Error(),
			Cause:   err,
		}
	}

	var tabulizeErr *table.TabulizeError
	if errors.As(err, &tabulizeErr) {
		return &AppError{
			Code:    ErrCodeTabulateFailed,
			Message: "Failed to materialize the result table",
			Details: tabulizeErr.Error(),
			Cause:   err,
		}
	}

	return &AppError{
		Code:    ErrCodeInternalError,
		Message: "An internal error occurred",
		Details: err.Error(),
		Cause:   err,
	}
}

// StatusFor returns the HTTP status for an error code, defaulting to 500.
func StatusFor(code string) int {
	if status, ok := HTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
