package polaris

import (
	"errors"
	"net/http"
)

// Error types for backup platform API responses.
var (
	// ErrUnauthorised indicates the access token is invalid or expired.
	ErrUnauthorised = errors.New("polaris: unauthorised")

	// ErrForbidden indicates the caller lacks permission for the operation.
	ErrForbidden = errors.New("polaris: forbidden")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("polaris: not found")

	// ErrRateLimited indicates the request was throttled by the platform.
	ErrRateLimited = errors.New("polaris: rate limited")

	// ErrBadRequest indicates the request was malformed.
	ErrBadRequest = errors.New("polaris: bad request")

	// ErrServerError indicates a server-side error from the platform.
	ErrServerError = errors.New("polaris: server error")
)

// WrapError converts an HTTP status code to an appropriate error.
func WrapError(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorised
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusBadRequest:
		return ErrBadRequest
	default:
		if statusCode >= 500 {
			return ErrServerError
		}
		return nil
	}
}

// IsUnauthorised checks if the status code indicates an authentication failure.
func IsUnauthorised(statusCode int) bool {
	return statusCode == http.StatusUnauthorized
}

// IsRateLimited checks if the status code indicates rate limiting.
func IsRateLimited(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests
}

// IsRetryable checks if the error is potentially transient and can be retried.
func IsRetryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusGatewayTimeout
}
