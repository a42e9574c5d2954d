package twitter

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of search-provider failure.
type ErrorCode string

const (
	CodeNoAPIKey        ErrorCode = "NO_API_KEY"
	CodeNoBaseURL       ErrorCode = "NO_BASE_URL"
	CodeInvalidParams   ErrorCode = "INVALID_PARAMS"
	CodeRateLimit       ErrorCode = "RATE_LIMIT"
	CodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	CodeBadRequest      ErrorCode = "BAD_REQUEST"
	CodeAPIError        ErrorCode = "API_ERROR"
	CodeInvalidResponse ErrorCode = "INVALID_RESPONSE"
	CodeMaxRetries      ErrorCode = "MAX_RETRIES"
	CodeUnknown         ErrorCode = "UNKNOWN_ERROR"
)

// APIError is a search-provider failure with its upstream error code.
type APIError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is transient enough to retry.
// Only rate limiting and generic upstream errors qualify.
func (e *APIError) Retryable() bool {
	return e.Code == CodeRateLimit || e.Code == CodeAPIError
}

// AsAPIError unwraps an APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
