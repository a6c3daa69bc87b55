package agro

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError represents a single error returned by the AgroIPA API.
type APIError struct {
	Code   int    `json:"code"   yaml:"code"`
	Title  string `json:"title"  yaml:"title"`
	Detail string `json:"detail" yaml:"detail"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (code: %d)", e.Title, e.Detail, e.Code)
}

// ResponseError represents a failed HTTP response from the API, carrying the
// status code and any decoded error details.
type ResponseError struct {
	StatusCode int        `json:"status_code"`
	Errors     []APIError `json:"errors"`
}

// Error implements the error interface for ResponseError.
func (e *ResponseError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	return fmt.Sprintf("multiple errors (status %d): %v", e.StatusCode, e.Errors)
}

// FirstError returns the first error detail or nil.
func (e *ResponseError) FirstError() *APIError {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

// Static errors wrapped with context at propagation boundaries.
var (
	// ErrNetwork marks transport failures where no response was received.
	ErrNetwork = errors.New("network error")
	// ErrDecode marks a response body that could not be parsed.
	ErrDecode = errors.New("decoding response")
	// ErrValidation marks a client-side validation failure.
	ErrValidation = errors.New("validation error")
	// ErrRequiredField marks a missing required field.
	ErrRequiredField = errors.New("required field missing")

	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidStopOrder   = errors.New("invalid stop order")
	ErrEmptyAddress       = errors.New("endereço não pode ser vazio")

	ErrConfigRequired      = errors.New("config is required")
	ErrEndpointRequired    = errors.New("API endpoint is required")
	ErrNoRefreshToken      = errors.New("no refresh token available")
	ErrSessionExpired      = errors.New("session expired, login again")
	ErrUnknownFamily       = errors.New("unknown resource family")
	ErrUnknownStatus       = errors.New("unknown status")
	ErrCacheDisabled       = errors.New("cache disabled")
	ErrCacheKeyNotFound    = errors.New("key not found")
	ErrCacheEntryExpired   = errors.New("entry expired")
	ErrUnsupportedCacheType = errors.New("unsupported cache type")
	ErrRedisConfigRequired = errors.New("redis configuration required for redis cache")
	ErrNATSConfigRequired  = errors.New("NATS configuration required for NATS cache")
	ErrStoreClosed         = errors.New("query store closed")
)

// IsNotFound checks whether the error is an HTTP 404 from the API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks whether the error is an HTTP 401 from the API.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden checks whether the error is an HTTP 403 from the API.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsValidation checks whether the error is a client-side validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrRequiredField) ||
		errors.Is(err, ErrEmptyAddress) || errors.Is(err, ErrInvalidCoordinates)
}

func hasStatus(err error, status int) bool {
	respErr := &ResponseError{}
	if errors.As(err, &respErr) {
		return respErr.StatusCode == status
	}

	return false
}

// ParseResponseError decodes an error response body. Bodies that are not the
// documented error shape produce a ResponseError with no details.
func ParseResponseError(statusCode int, data []byte) *ResponseError {
	respErr := &ResponseError{StatusCode: statusCode}

	if len(data) == 0 {
		return respErr
	}

	// Django REST framework style: {"detail": "..."} for single errors.
	var detail struct {
		Detail string     `json:"detail"`
		Errors []APIError `json:"errors"`
	}

	if err := json.Unmarshal(data, &detail); err == nil {
		if len(detail.Errors) > 0 {
			respErr.Errors = detail.Errors
		} else if detail.Detail != "" {
			respErr.Errors = []APIError{{Code: statusCode, Title: http.StatusText(statusCode), Detail: detail.Detail}}
		}
	}

	return respErr
}
